package kernel

import (
	"unsafe"

	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/metrics"
)

// ScanResult is the output of Scan: the keys found, in ascending order (our
// chosen implementation-defined order over the reference storage's unordered
// map -- see SPEC_FULL.md §4.5/DESIGN.md).
type ScanResult struct {
	Keys []kvstore.Key
}

// Scan implements spec §4.5.3: up to maxCount keys >= startKey from col.
// startKey == kvstore.KeyUnknown means "from the beginning". Scan always
// operates on the head; there is no transactional scan in this core. Keys
// are materialized into a's typed int64 span (AllocInt64s) rather than a
// plain Go slice, the same columnar-output discipline Read uses, and
// DontDiscardMemory is honored the same way: it marks a for in-place reuse
// across the caller's next call instead of returning it to the pool.
func (k *Kernel) Scan(col kvstore.CollectionID, startKey kvstore.Key, maxCount int, opt Options, a *arena.Arena) (*ScanResult, *kverrors.Error) {
	if col == nil {
		return nil, kverrors.New(kverrors.BadArg, "scan of a nil collection")
	}
	if maxCount < 0 {
		return nil, kverrors.New(kverrors.BadArg, "negative max_count")
	}
	metrics.RecordScan()
	if opt.has(DontDiscardMemory) {
		a.SetDontDiscardMemory(true)
	}

	k.db.RLock()
	defer k.db.RUnlock()

	all := k.db.SortedKeysLocked(col)
	matched := make([]kvstore.Key, 0, maxCount)
	for _, key := range all {
		if startKey != kvstore.KeyUnknown && key < startKey {
			continue
		}
		if len(matched) >= maxCount {
			break
		}
		matched = append(matched, key)
	}

	span := a.AllocInt64s(len(matched))
	out := unsafe.Slice((*kvstore.Key)(unsafe.Pointer(unsafe.SliceData(span))), len(span))
	copy(out, matched)
	return &ScanResult{Keys: out}, nil
}
