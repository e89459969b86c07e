// Package storage provides the pluggable persistence backends that hold the
// optional on-disk snapshot (see spec §6 "Persistence"). The live MVCC head
// always lives in Go maps (package kvstore); a storage.Backend is only ever
// consulted by snapshot.Load (restore) and snapshot.Save (flush), the way the
// teacher's storage.go/storage_mem.go/storage_bolt.go separate the bucket
// abstraction from the higher-level database logic that sits on top of it.
// Three backends are provided: NewMemory (tests, throwaway databases),
// NewBolt (a bbolt file, for callers that want page-transaction durability),
// and NewFile (a flat file with uuid-staged atomic rename, the default for
// cmd/kvctl).
package storage

// Backend persists and restores a single opaque snapshot blob. It never sees
// the collections or keys inside the blob -- that structure is owned by the
// snapshot package, which encodes/decodes it with msgpack.
type Backend interface {
	// Load reads the last saved snapshot, if any. A nil slice with no error
	// means no snapshot exists yet (a fresh database).
	Load() ([]byte, error)

	// Save overwrites the snapshot with the given bytes.
	Save(data []byte) error

	// Close releases any resources (file handles, mmaps) held by the backend.
	Close() error
}
