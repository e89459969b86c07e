// Package kernel implements the batched I/O kernel (component C5): the
// read/write/scan entry points every modality funnels through, taking
// strided argument views and an arena for output, dispatching to either
// the DB head (kvstore.DB) or a transaction context (kvstore.Txn).
package kernel

import (
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/strided"
)

// LenMissing signals "absent" in a read's lengths output -- Go's signed
// length convention makes -1 the natural sentinel, standing in for the C
// ABI's unsigned SIZE_MAX-style marker.
const LenMissing = -1

// Options is the recognized-bits mask of spec §6.
type Options uint32

const (
	// Consistent is reserved for durability guarantees; ignored by this
	// in-memory core.
	Consistent Options = 1 << iota
	// Colocated treats Tasks.Collections[0] as the collection for every
	// task, enabling broadcast.
	Colocated
	// TransparentRead skips recording reads in the txn's ReadSet.
	TransparentRead
	// FlushWrite is a hint only, ignored by this in-memory core.
	FlushWrite
	// DontDiscardMemory reuses the output arena across successive calls.
	DontDiscardMemory
)

func (o Options) has(bit Options) bool { return o&bit != 0 }

// Kernel wraps a *kvstore.DB and exposes the batched read/write/scan entry
// points. Stateless beyond the DB reference -- every call is a fresh batch.
type Kernel struct {
	db   *kvstore.DB
	logf func(format string, args ...any)
}

// New wraps db in a Kernel.
func New(db *kvstore.DB) *Kernel {
	return &Kernel{db: db}
}

// DB returns the kernel's underlying collection store, letting callers
// upsert/remove collections directly (spec table: collection_upsert and
// collection_remove are DB operations, not kernel ones).
func (k *Kernel) DB() *kvstore.DB { return k.db }

// Tasks is the common input shape of every batched entry point: parallel
// strided views over one task per index, 0..Count-1.
type Tasks struct {
	Count       int
	Collections strided.View[kvstore.CollectionID]
	Keys        strided.View[kvstore.Key]
	Values      strided.View[[]byte]
	Presences   strided.View[bool]
}

func (t Tasks) collectionAt(i int, opt Options) kvstore.CollectionID {
	if opt.has(Colocated) {
		col, _ := t.Collections.At(0)
		return col
	}
	col, ok := t.Collections.At(i)
	if !ok {
		return nil
	}
	return col
}

func (t Tasks) presenceAt(i int) bool {
	if t.Presences.IsAbsent() {
		return true
	}
	p, ok := t.Presences.At(i)
	return !ok || p
}
