package kvstore

import "slices"

// Lock/RLock expose the DB's single shared lock (a sync.RWMutex, which does
// not prefer readers) to the kernel package, which holds it for the whole
// duration of one batched head call (spec §5 "Lock policy") rather than
// once per task.

// RLock acquires the DB's shared lock for a head read.
func (db *DB) RLock() {
	db.ReaderCount.Add(1)
	db.mu.RLock()
}

// RUnlock releases the DB's shared lock.
func (db *DB) RUnlock() {
	db.mu.RUnlock()
	db.ReaderCount.Add(-1)
}

// Lock acquires the DB's exclusive lock for a head write or a txn commit.
func (db *DB) Lock() {
	db.PendingWriterCount.Add(1)
	db.mu.Lock()
	db.PendingWriterCount.Add(-1)
	db.WriterCount.Add(1)
}

// Unlock releases the DB's exclusive lock.
func (db *DB) Unlock() {
	db.WriterCount.Add(-1)
	db.mu.Unlock()
}

// YoungestSeq returns the current value of youngest_seq. Safe to call
// without holding any lock; takes the shared lock itself. Call sites that
// already hold the lock (txn commit, snapshot export) use the unexported
// youngestSeqLocked instead.
func (db *DB) YoungestSeq() Seq {
	db.RLock()
	defer db.RUnlock()
	return db.youngestSeqLocked()
}

// LookupLocked returns the versioned value stored at (col, k). Caller must
// hold the shared or exclusive lock.
func (db *DB) LookupLocked(col CollectionID, k Key) (vv versionedValue, present bool) {
	if col == nil {
		return versionedValue{}, false
	}
	vv, present = col.pairs[k]
	return vv, present
}

// HeadPutLocked upserts (k -> v) into col, stamping it with a freshly bumped
// youngest_seq, and returns the stamp used. Caller must hold the exclusive
// lock (spec §4.5.2: head write increments youngest_seq once per entry).
func (db *DB) HeadPutLocked(col CollectionID, k Key, v []byte) Seq {
	seq := db.bumpSeqLocked()
	col.pairs[k] = versionedValue{value: v, seq: seq}
	db.WriteCount.Add(1)
	return seq
}

// HeadEraseLocked removes k from col entirely (no tombstone). Reports
// whether the key was present. Caller must hold the exclusive lock.
func (db *DB) HeadEraseLocked(col CollectionID, k Key) bool {
	_, present := col.pairs[k]
	delete(col.pairs, k)
	if present {
		db.bumpSeqLocked()
		db.WriteCount.Add(1)
	}
	return present
}

// SortedKeysLocked returns every key in col in ascending order, the
// deterministic "implementation-defined order" scan paginates over.
// Caller must hold the shared or exclusive lock.
func (db *DB) SortedKeysLocked(col CollectionID) []Key {
	if col == nil {
		return nil
	}
	keys := make([]Key, 0, len(col.pairs))
	for k := range col.pairs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
