package kvstore

import (
	"golang.org/x/sync/singleflight"
)

// upsertGroup dedups concurrent UpsertCollection calls for the same new
// name so that two callers racing to create "col" don't both pay for an
// exclusive lock acquisition and a throwaway map allocation -- the actual
// insert still only happens once, under the lock, inside the singleflight
// function.
var upsertGroup singleflight.Group

// UpsertCollection returns the id of the named collection, creating it if
// it does not already exist (spec §4.3: idempotent).
func (db *DB) UpsertCollection(name string) CollectionID {
	if name == "" {
		return db.main
	}

	db.mu.RLock()
	if col, ok := db.named[name]; ok {
		db.mu.RUnlock()
		return col
	}
	db.mu.RUnlock()

	v, _, _ := upsertGroup.Do(name, func() (any, error) {
		db.mu.Lock()
		defer db.mu.Unlock()
		if col, ok := db.named[name]; ok {
			return col, nil
		}
		col := &Collection{name: name, pairs: make(map[Key]versionedValue)}
		db.named[name] = col
		db.logVerbose("kv: UPSERT_COLLECTION %q", name)
		return col, nil
	})
	return v.(CollectionID)
}

// RemoveCollection drops the named collection and every entry it held.
// Removing an unknown name is a no-op (mirrors remove-from-bucket's
// "removal of something absent is fine" texture used elsewhere in the
// engine).
func (db *DB) RemoveCollection(name string) {
	if name == "" {
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.named, name)
	db.logVerbose("kv: REMOVE_COLLECTION %q", name)
}

// Lookup returns the collection named name, or nil if it does not exist.
// It does not create anything and takes its own shared lock, so it must not
// be called by a goroutine that already holds the DB's lock.
func (db *DB) Lookup(name string) CollectionID {
	if name == "" {
		return db.main
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.named[name]
}
