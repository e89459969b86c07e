package kvstore

import (
	"time"

	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/metrics"
)

// locatedKey identifies one (collection, key) pair, the unit ReadSet and
// WriteSet are keyed by.
type locatedKey struct {
	col CollectionID
	key Key
}

// staged is a WriteSet entry: either a value to upsert, or a marker that the
// key should be erased at commit (present=false), mirroring the kernel
// write entry point's presences bit (spec §6) rather than overloading an
// empty value to mean delete.
type staged struct {
	value   []byte
	present bool
}

// Txn is the per-transaction context of spec §3/§4.4: a back-reference to
// its DB, the start_seq captured at begin time, and the read-set/write-set
// maps. Mutated only by its owning goroutine -- no internal locking.
type Txn struct {
	db       *DB
	startSeq Seq

	readSet  map[locatedKey]Seq
	writeSet map[locatedKey]staged

	startTime time.Time
	done      bool
}

// Begin starts a transaction. If seq is zero, start_seq is a freshly bumped
// youngest_seq (spec §4.4: "take youngest_seq + 1"), ported from the
// original's `txn.sequence_number = c_sequence_number ? c_sequence_number :
// ++db.youngest_sequence` -- auto-assignment *advances* the counter, it
// doesn't just read it, so two back-to-back auto-assigned Begins never
// collide on the same start_seq. A caller-supplied seq is used verbatim and
// does not touch youngest_seq, letting tests pin a specific start_seq to
// exercise wrap-around. Either way this mutates DB state, so it takes the
// exclusive lock (spec §5: youngest_seq "is only stored under an exclusive
// lock").
func (db *DB) Begin(seq Seq) *Txn {
	db.Lock()
	defer db.Unlock()

	if seq == 0 {
		seq = db.bumpSeqLocked()
	}
	tx := &Txn{
		db:        db,
		startSeq:  seq,
		readSet:   make(map[locatedKey]Seq),
		writeSet:  make(map[locatedKey]staged),
		startTime: time.Now(),
	}
	db.addTx(tx)
	db.logVerbose("kv: BEGIN start_seq=%d", seq)
	return tx
}

// StartSeq returns the transaction's start_seq / commit_seq candidate.
func (tx *Txn) StartSeq() Seq { return tx.startSeq }

// Read implements spec §4.4's read(Txn, col, k): staged writes short-circuit
// the head lookup; otherwise it consults the head under the DB's shared
// lock, records the observed seq in ReadSet unless transparentRead is set,
// and fails STALE if the entry was overwritten since start_seq.
func (tx *Txn) Read(col CollectionID, k Key, transparentRead bool) (value []byte, present bool, err *kverrors.Error) {
	if tx.done {
		return nil, false, kverrors.New(kverrors.BadArg, "read on a committed or aborted transaction")
	}

	lk := locatedKey{col, k}
	if s, ok := tx.writeSet[lk]; ok {
		return s.value, s.present, nil
	}

	tx.db.mu.RLock()
	defer tx.db.mu.RUnlock()

	vv, ok := tx.db.LookupLocked(col, k)
	if !ok {
		return nil, false, nil
	}

	ys := tx.db.youngestSeqLocked()
	if overwritten(vv.seq, tx.startSeq, ys) {
		return nil, false, kverrors.New(kverrors.Stale, "read of key %d observed an entry overwritten since start_seq=%d", k, tx.startSeq)
	}

	if !transparentRead {
		tx.readSet[lk] = vv.seq
	}
	return vv.value, true, nil
}

// Write stages (col, k) -> v into the write-set; it never touches the head.
// present=false stages an erase-on-commit rather than a zero-length value.
func (tx *Txn) Write(col CollectionID, k Key, v []byte, present bool) *kverrors.Error {
	if tx.done {
		return kverrors.New(kverrors.BadArg, "write on a committed or aborted transaction")
	}
	if k == KeyUnknown {
		return kverrors.New(kverrors.BadArg, "write-set may not contain K_UNKNOWN")
	}
	tx.writeSet[locatedKey{col, k}] = staged{value: v, present: present}
	return nil
}

// overwritten implements spec §4.4.1's modular overwrite comparison,
// ported bit for bit from original_source/src/ukv_stl_embedded.cpp's
// entry_was_overwritten, including the wrap-around branch.
func overwritten(entrySeq, startSeq, youngestSeq Seq) bool {
	if startSeq <= youngestSeq {
		return entrySeq >= startSeq && entrySeq <= youngestSeq
	}
	return entrySeq >= startSeq || entrySeq <= youngestSeq
}

// Commit implements the five-step optimistic commit protocol of §4.4.2
// under the DB's exclusive lock, with one deliberate deviation from the
// literal step 4/5 text: it stamps the write-set with a fresh commit_seq
// rather than reusing start_seq, so that youngest_seq is advanced by
// commit after all (see the apply step below for why). Failure at any
// step leaves the DB unmodified.
func (tx *Txn) Commit() *kverrors.Error {
	if tx.done {
		return kverrors.New(kverrors.BadArg, "commit of an already-finished transaction")
	}

	db := tx.db
	db.Lock()
	defer db.Unlock()

	ys := db.youngestSeqLocked()

	// 1. Read-set validation.
	for lk, observedSeq := range tx.readSet {
		vv, ok := db.LookupLocked(lk.col, lk.key)
		if ok && vv.seq != observedSeq {
			return kverrors.New(kverrors.Stale, "read-set key %d changed from seq=%d to seq=%d before commit", lk.key, observedSeq, vv.seq)
		}
	}

	// 2. Write-set conflict check.
	for lk := range tx.writeSet {
		vv, ok := db.LookupLocked(lk.col, lk.key)
		if !ok {
			continue
		}
		if vv.seq == tx.startSeq {
			return kverrors.New(kverrors.Reentrant, "write-set key %d already stamped with this transaction's start_seq=%d", lk.key, tx.startSeq)
		}
		if overwritten(vv.seq, tx.startSeq, ys) {
			metrics.RecordConflict()
			return kverrors.New(kverrors.Conflict, "write-set key %d was overwritten since start_seq=%d", lk.key, tx.startSeq)
		}
	}

	// 3. Capacity reservation: Go maps have no reserve() to fail ahead of
	// time, so this step degrades to a no-op that still runs before any
	// mutation below -- if it ever grows an allocation-failure path, it
	// unwinds with OOM here rather than partway through step 4.

	// 4. Apply: upsert or erase. start_seq is only a commit_seq *candidate*
	// (spec §4.4: "this is the txn's start_seq and also its commit_seq
	// candidate") -- if two transactions begin in one order but commit in
	// the other, stamping with start_seq would make a younger commit look
	// older than a still-live txn's window and CONFLICT would never fire
	// (see §8 scenario 4). So every successful commit claims a fresh
	// sequence number here, once, and stamps the whole write-set with it;
	// that number becomes the new youngest_seq.
	commitSeq := db.bumpSeqLocked()
	for lk, s := range tx.writeSet {
		if s.present {
			lk.col.pairs[lk.key] = versionedValue{value: s.value, seq: commitSeq}
		} else {
			delete(lk.col.pairs, lk.key)
		}
	}

	tx.done = true
	db.removeTx(tx)
	metrics.RecordCommit()
	db.logVerbose("kv: COMMIT start_seq=%d commit_seq=%d writes=%d", tx.startSeq, commitSeq, len(tx.writeSet))
	return nil
}

// Abort discards the transaction without touching the DB.
func (tx *Txn) Abort() {
	if tx.done {
		return
	}
	tx.done = true
	tx.db.removeTx(tx)
	tx.db.logVerbose("kv: ABORT start_seq=%d", tx.startSeq)
}

// Free is an alias for Abort, matching the C ABI's txn_free -- a no-op if
// the transaction already committed.
func (tx *Txn) Free() {
	tx.Abort()
}
