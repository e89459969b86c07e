// Package kvstore implements the collection store and transaction context
// (components C3/C4): a process-wide DB holding a main collection plus
// zero or more named collections, each an unordered key -> versioned-value
// map, guarded by one shared lock (a sync.RWMutex) and sequenced by a
// single monotonically increasing youngest_seq counter.
//
// The DB itself has no teacher analogue -- the teacher (andreyvit/edb) keeps
// its MVCC-free head entirely inside bbolt's own page transactions. The
// instrumentation fields, Options shape, and open-transaction tracking below
// are ported from the teacher's db.go; the sequencing and commit arithmetic
// are ported from original_source/src/ukv_stl_embedded.cpp instead, since
// that is the one place the teacher has nothing to imitate.
package kvstore

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Key is the engine's signed 64-bit key type.
type Key int64

// KeyUnknown marks "unspecified boundary" in scans ("from the beginning");
// writes reject it as a key.
const KeyUnknown Key = -1 << 63

// Seq is the monotonically non-decreasing sequence number stamped on every
// versioned value.
type Seq = uint64

const trackTxns = true

// versionedValue is VV = (V, seq) from the data model. The type itself is
// unexported (callers never construct one directly), but LookupLocked hands
// out values of it, so Value/Seq expose its fields to other packages.
type versionedValue struct {
	value []byte
	seq   Seq
}

// Value returns the stored bytes.
func (vv versionedValue) Value() []byte { return vv.value }

// Seq returns the sequence number this value was stamped with.
func (vv versionedValue) Seq() Seq { return vv.seq }

// Collection is a named mapping K -> VV with hash-table semantics
// (unordered, unique keys). CollectionID is the opaque handle callers use
// to refer to one; a Collection that has been removed from its DB is
// simply unreachable from future lookups, matching the teacher's "remove
// drops it from the table" semantics without any use-after-free hazard
// (Go's GC keeps a stray pointer alive, it just stops being part of the DB).
type Collection struct {
	name  string
	pairs map[Key]versionedValue
}

// CollectionID is the handle UpsertCollection hands back -- a plain pointer,
// the same "owned by the DB, stable until removed" contract the original
// C ABI gives collection_t*.
type CollectionID = *Collection

// Options mirrors the teacher's Options struct in db.go, trimmed to what an
// in-memory MVCC core needs instead of a bbolt file.
type Options struct {
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool
}

// DB is the process-wide state described in spec §3: the main collection, a
// name->collection table, the global youngest_seq counter, and the single
// shared lock that protects all of it. The lock is a plain sync.RWMutex, so
// it does not prefer readers: once a writer is waiting, new RLock calls
// block until that writer has acquired and released it.
type DB struct {
	mu sync.RWMutex

	main  *Collection
	named map[string]*Collection

	youngestSeq Seq

	logf    func(format string, args ...any)
	verbose bool

	lastSize           atomic.Int64
	ReaderCount        atomic.Int64
	WriterCount        atomic.Int64
	PendingWriterCount atomic.Int64
	ReadCount          atomic.Uint64
	WriteCount         atomic.Uint64

	txns     []*Txn
	txnsLock sync.Mutex
}

// New creates an empty DB. Restoring from a snapshot is a separate step
// (package snapshot) layered on top of ImportSnapshot/ExportSnapshot below,
// keeping kvstore free of any dependency on the storage/msgpack stack.
func New(opt Options) *DB {
	logf := opt.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &DB{
		main:    &Collection{pairs: make(map[Key]versionedValue)},
		named:   make(map[string]*Collection),
		logf:    logf,
		verbose: opt.Verbose,
	}
}

// Main returns the DB's unnamed main collection.
func (db *DB) Main() CollectionID {
	return db.main
}

func (db *DB) logVerbose(format string, args ...any) {
	if db.verbose {
		db.logf(format, args...)
	}
}

// youngestSeqLocked reads youngest_seq; caller must hold either lock.
func (db *DB) youngestSeqLocked() Seq {
	return db.youngestSeq
}

// bumpSeqLocked increments and returns the new youngest_seq. Caller must
// hold the exclusive lock.
func (db *DB) bumpSeqLocked() Seq {
	db.youngestSeq++
	return db.youngestSeq
}

func (db *DB) addTx(tx *Txn) {
	if !trackTxns {
		return
	}
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()
	db.txns = append(db.txns, tx)
}

func (db *DB) removeTx(tx *Txn) {
	if !trackTxns {
		return
	}
	db.txnsLock.Lock()
	defer db.txnsLock.Unlock()

	found := -1
	for i, t := range db.txns {
		if t == tx {
			found = i
			break
		}
	}
	if found < 0 {
		return
	}
	n := len(db.txns)
	db.txns[found] = db.txns[n-1]
	db.txns[n-1] = nil
	db.txns = db.txns[:n-1]
}

// DescribeOpenTxns returns a human-readable dump of all transactions that
// have begun but neither committed nor aborted, exactly the shape of the
// teacher's diagnostic of the same name.
func (db *DB) DescribeOpenTxns() string {
	if !trackTxns {
		return "OPEN TX TRACKING DISABLED"
	}

	db.txnsLock.Lock()
	txns := slices.Clone(db.txns)
	db.txnsLock.Unlock()

	if len(txns) == 0 {
		return "NO OPEN TRANSACTIONS"
	}

	slices.SortFunc(txns, func(a, b *Txn) int {
		return a.startTime.Compare(b.startTime)
	})

	now := time.Now()
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d OPEN TRANSACTIONS:\n", len(txns))
	for _, tx := range txns {
		ms := now.Sub(tx.startTime).Milliseconds()
		fmt.Fprintf(&buf, "\n---\nstart_seq=%d open for %d ms\n", tx.startSeq, ms)
	}
	return buf.String()
}
