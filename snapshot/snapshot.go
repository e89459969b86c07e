// Package snapshot encodes/decodes a kvstore.DB's head state to and from a
// storage.Backend, the optional "snapshot-to-file on shutdown" persistence
// spec.md §6 allows. Grounded on the teacher's msgpack-based value encoding
// (kvo/encoding.go), reused here for a different payload shape: the whole
// DB instead of one row.
package snapshot

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/storage"
)

// Save encodes db's current head state and writes it to backend.
func Save(db *kvstore.DB, backend storage.Backend) error {
	snap := db.ExportSnapshot()
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return err
	}
	return backend.Save(data)
}

// Load restores db's head state from whatever backend holds. A backend
// with no prior snapshot (Load returns nil, nil) leaves db untouched --
// opening a fresh DB is not an error.
func Load(db *kvstore.DB, backend storage.Backend) error {
	data, err := backend.Load()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	var snap kvstore.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return err
	}
	db.ImportSnapshot(snap)
	return nil
}
