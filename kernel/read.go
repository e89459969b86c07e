package kernel

import (
	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/metrics"
)

// ReadResult is the per-task output of Read: parallel Presences/Lengths
// slices, plus (in fetch mode) a single contiguous arena buffer that
// Offsets/Lengths index into -- the "single pass total-then-copy" strategy
// of spec §4.5.1.
type ReadResult struct {
	Presences []bool
	Lengths   []int
	Offsets   []int
	buf       []byte
	measure   bool
}

// Value returns the bytes read for task i, or nil if measure-only mode was
// used or the task was absent.
func (r *ReadResult) Value(i int) []byte {
	if r.measure || !r.Presences[i] {
		return nil
	}
	off, ln := r.Offsets[i], r.Lengths[i]
	return r.buf[off : off+ln]
}

// Read implements spec §4.5.1. txn == nil means operate on the DB head,
// holding the DB's shared lock for the whole call; measureOnly selects
// measure-only mode (only presence/length are reported, a is not used).
func (k *Kernel) Read(tasks Tasks, txn *kvstore.Txn, opt Options, measureOnly bool, a *arena.Arena) (*ReadResult, *kverrors.Error) {
	if tasks.Count < 0 {
		return nil, kverrors.New(kverrors.BadArg, "negative task count")
	}
	metrics.RecordRead()
	if opt.has(DontDiscardMemory) {
		a.SetDontDiscardMemory(true)
	}

	res := &ReadResult{
		Presences: make([]bool, tasks.Count),
		Lengths:   make([]int, tasks.Count),
		Offsets:   make([]int, tasks.Count),
		measure:   measureOnly,
	}

	if txn == nil {
		k.db.RLock()
		defer k.db.RUnlock()
	}

	fetch := func(col kvstore.CollectionID, key kvstore.Key) (value []byte, present bool, err *kverrors.Error) {
		if txn != nil {
			return txn.Read(col, key, opt.has(TransparentRead))
		}
		k.db.ReadCount.Add(1)
		vv, ok := k.db.LookupLocked(col, key)
		if !ok {
			return nil, false, nil
		}
		return vv.Value(), true, nil
	}

	values := make([][]byte, tasks.Count)
	total := 0
	for i := 0; i < tasks.Count; i++ {
		col := tasks.collectionAt(i, opt)
		key, _ := tasks.Keys.At(i)
		v, present, err := fetch(col, key)
		if err != nil {
			return nil, err
		}
		res.Presences[i] = present
		if !present {
			res.Lengths[i] = LenMissing
			continue
		}
		res.Lengths[i] = len(v)
		if measureOnly {
			continue
		}
		values[i] = v
		total += len(v)
	}

	if measureOnly {
		return res, nil
	}

	res.buf = a.Alloc(total)
	off := 0
	for i := 0; i < tasks.Count; i++ {
		if !res.Presences[i] {
			res.Offsets[i] = off
			continue
		}
		n := copy(res.buf[off:], values[i])
		res.Offsets[i] = off
		off += n
	}
	return res, nil
}
