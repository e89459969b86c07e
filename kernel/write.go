package kernel

import (
	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/metrics"
)

// Write implements spec §4.5.2. Head mode acquires the DB's exclusive lock
// once for the whole call and stamps each written entry with a freshly
// bumped youngest_seq; txn mode stages into the transaction's write-set and
// never advances youngest_seq. A task's Presences bit distinguishes
// "store a value, possibly empty" (present=true) from "erase" (present=
// false) -- see DESIGN.md for why an empty value does not itself mean
// delete at this layer.
//
// Propagation is first-error-wins and, in head mode, NOT atomic across
// tasks: earlier tasks in the same call stay applied even if a later task
// fails (spec §7). Txn mode is atomic by construction since nothing is
// applied until Commit.
func (k *Kernel) Write(tasks Tasks, txn *kvstore.Txn, opt Options) *kverrors.Error {
	if tasks.Count < 0 {
		return kverrors.New(kverrors.BadArg, "negative task count")
	}
	metrics.RecordWrite()

	if txn != nil {
		for i := 0; i < tasks.Count; i++ {
			col := tasks.collectionAt(i, opt)
			key, _ := tasks.Keys.At(i)
			val, _ := tasks.Values.At(i)
			present := tasks.presenceAt(i)
			if err := txn.Write(col, key, val, present); err != nil {
				return err
			}
		}
		return nil
	}

	k.db.Lock()
	defer k.db.Unlock()
	for i := 0; i < tasks.Count; i++ {
		col := tasks.collectionAt(i, opt)
		if col == nil {
			return kverrors.New(kverrors.BadArg, "write task %d has no owning collection", i)
		}
		key, _ := tasks.Keys.At(i)
		if key == kvstore.KeyUnknown {
			return kverrors.New(kverrors.BadArg, "write task %d targets K_UNKNOWN", i)
		}
		if tasks.presenceAt(i) {
			val, _ := tasks.Values.At(i)
			k.db.HeadPutLocked(col, key, val)
		} else {
			k.db.HeadEraseLocked(col, key)
		}
	}
	return nil
}
