package storage

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	snapshotBucket = []byte("kv_snapshot")
	snapshotKey    = []byte("blob")
)

// boltBackend stores one opaque snapshot blob inside a bbolt file. This is
// the teacher's persistence dependency (go.etcd.io/bbolt), repurposed as a
// snapshot container rather than the live MVCC head -- see DESIGN.md for why
// the in-memory engine doesn't route every read/write through bbolt's own
// transactions.
type boltBackend struct {
	bdb *bbolt.DB
}

// NewBolt opens (creating if necessary) a bbolt file at path to use as the
// snapshot container for snapshot.Load/snapshot.Save.
func NewBolt(path string) (Backend, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second

	bdb, err := bbolt.Open(path, 0o666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("storage: opening bolt snapshot file: %w", err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("storage: preparing bolt snapshot file: %w", err)
	}

	return &boltBackend{bdb: bdb}, nil
}

func (b *boltBackend) Load() ([]byte, error) {
	var data []byte
	err := b.bdb.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(snapshotBucket).Get(snapshotKey)
		if raw != nil {
			data = append([]byte(nil), raw...)
		}
		return nil
	})
	return data, err
}

func (b *boltBackend) Save(data []byte) error {
	return b.bdb.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put(snapshotKey, data)
	})
}

func (b *boltBackend) Close() error {
	return b.bdb.Close()
}
