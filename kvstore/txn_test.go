package kvstore

import (
	"testing"

	"github.com/module/kvengine/kverrors"
)

func TestOverwritten(t *testing.T) {
	cases := []struct {
		entry, start, youngest Seq
		want                   bool
	}{
		{entry: 5, start: 3, youngest: 10, want: true},
		{entry: 2, start: 3, youngest: 10, want: false},
		{entry: 11, start: 3, youngest: 10, want: false},
		// wrap-around: start > youngest means the interval (start, youngest]
		// wraps through zero.
		{entry: ^Seq(0) - 1, start: ^Seq(0) - 2, youngest: 1, want: true},
		{entry: 1, start: ^Seq(0) - 2, youngest: 1, want: true},
		{entry: 5, start: ^Seq(0) - 2, youngest: 1, want: false},
	}
	for _, c := range cases {
		if got := overwritten(c.entry, c.start, c.youngest); got != c.want {
			t.Fatalf("overwritten(%d, %d, %d) = %v, wanted %v", c.entry, c.start, c.youngest, got, c.want)
		}
	}
}

func TestHeadRoundTrip(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	db.Lock()
	db.HeadPutLocked(col, 34, []byte{0x22, 0, 0, 0, 0, 0, 0, 0})
	db.HeadPutLocked(col, 35, []byte{0x23, 0, 0, 0, 0, 0, 0, 0})
	db.HeadPutLocked(col, 36, []byte{0x24, 0, 0, 0, 0, 0, 0, 0})
	db.Unlock()

	db.RLock()
	defer db.RUnlock()
	for k, want := range map[Key]byte{34: 0x22, 35: 0x23, 36: 0x24} {
		vv, ok := db.LookupLocked(col, k)
		if !ok || len(vv.value) != 8 || vv.value[0] != want {
			t.Fatalf("LookupLocked(%d) = (%v, %v), wanted 8-byte value starting %#x", k, vv, ok, want)
		}
	}
}

func TestClearThenMissing(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	db.Lock()
	db.HeadPutLocked(col, 34, []byte{1, 2, 3})
	db.Unlock()

	db.Lock()
	db.HeadPutLocked(col, 34, []byte{})
	db.Unlock()

	db.RLock()
	vv, ok := db.LookupLocked(col, 34)
	db.RUnlock()
	if !ok || len(vv.value) != 0 {
		t.Fatalf("LookupLocked after clear = (%v, %v), wanted present with zero length", vv, ok)
	}

	db.Lock()
	erased := db.HeadEraseLocked(col, 34)
	db.Unlock()
	if !erased {
		t.Fatalf("HeadEraseLocked(34) = false, wanted true")
	}

	db.RLock()
	_, ok = db.LookupLocked(col, 34)
	db.RUnlock()
	if ok {
		t.Fatalf("LookupLocked after erase ok = true, wanted false")
	}
}

func TestNamedCollectionIsolation(t *testing.T) {
	db := New(Options{})
	main := db.Main()
	col := db.UpsertCollection("col")

	db.Lock()
	db.HeadPutLocked(col, 34, []byte("X"))
	db.HeadPutLocked(main, 34, []byte("Y"))
	db.Unlock()

	db.RLock()
	defer db.RUnlock()
	vvCol, _ := db.LookupLocked(col, 34)
	vvMain, _ := db.LookupLocked(main, 34)
	if string(vvCol.value) != "X" || string(vvMain.value) != "Y" {
		t.Fatalf("col=%q main=%q, wanted X/Y", vvCol.value, vvMain.value)
	}
}

func TestUpsertCollectionIdempotent(t *testing.T) {
	db := New(Options{})
	a := db.UpsertCollection("col")
	b := db.UpsertCollection("col")
	if a != b {
		t.Fatalf("UpsertCollection returned different ids for the same name")
	}
}

func TestOptimisticConflict(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	t1 := db.Begin(0)
	t2 := db.Begin(0)

	if err := t1.Write(col, 1, []byte("a"), true); err != nil {
		t.Fatalf("t1.Write: %v", err)
	}
	if err := t1.Commit(); err != nil {
		t.Fatalf("t1.Commit: %v", err)
	}

	if err := t2.Write(col, 1, []byte("b"), true); err != nil {
		t.Fatalf("t2.Write: %v", err)
	}
	err := t2.Commit()
	if err == nil || err.Code != kverrors.Conflict {
		t.Fatalf("t2.Commit() = %v, wanted CONFLICT", err)
	}
}

func TestStaleReadDetected(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	tx := db.Begin(0)
	_, present, err := tx.Read(col, 1, false)
	if err != nil || present {
		t.Fatalf("initial read = (present=%v, err=%v), wanted absent/nil", present, err)
	}

	db.Lock()
	db.HeadPutLocked(col, 1, []byte("v"))
	db.Unlock()

	_, _, err = tx.Read(col, 1, false)
	if err == nil || err.Code != kverrors.Stale {
		t.Fatalf("tx.Read after concurrent head write = %v, wanted STALE", err)
	}
}

func TestAbortLeavesNoTrace(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	tx := db.Begin(0)
	if err := tx.Write(col, 9, []byte("x"), true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	tx.Abort()

	db.RLock()
	_, ok := db.LookupLocked(col, 9)
	db.RUnlock()
	if ok {
		t.Fatalf("aborted txn's write is visible at head")
	}
}

func TestTxnReadOwnStagedWrite(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	tx := db.Begin(0)
	if err := tx.Write(col, 1, []byte("staged"), true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, present, err := tx.Read(col, 1, false)
	if err != nil || !present || string(v) != "staged" {
		t.Fatalf("Read of own staged write = (%q, %v, %v), wanted (staged, true, nil)", v, present, err)
	}
}

func TestDescribeOpenTxns(t *testing.T) {
	db := New(Options{})
	if got := db.DescribeOpenTxns(); got != "NO OPEN TRANSACTIONS" {
		t.Fatalf("DescribeOpenTxns() on empty db = %q", got)
	}
	tx := db.Begin(0)
	if got := db.DescribeOpenTxns(); got == "NO OPEN TRANSACTIONS" {
		t.Fatalf("DescribeOpenTxns() with one open txn still says none open")
	}
	tx.Abort()
	if got := db.DescribeOpenTxns(); got != "NO OPEN TRANSACTIONS" {
		t.Fatalf("DescribeOpenTxns() after Abort = %q, wanted none open", got)
	}
}
