package snapshot

import (
	"testing"

	"github.com/module/kvengine/kernel"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/storage"
	"github.com/module/kvengine/strided"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	db := kvstore.New(kvstore.Options{})
	k := kernel.New(db)
	col := db.UpsertCollection("col")

	if err := k.Write(kernel.Tasks{
		Count:       1,
		Collections: strided.Const(col),
		Keys:        strided.Const(kvstore.Key(7)),
		Values:      strided.Const([]byte("payload")),
	}, nil, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	backend := storage.NewMemory()
	if err := Save(db, backend); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := kvstore.New(kvstore.Options{})
	if err := Load(restored, backend); err != nil {
		t.Fatalf("Load: %v", err)
	}

	restoredCol := restored.Lookup("col")
	if restoredCol == nil {
		t.Fatalf("restored DB has no collection %q", "col")
	}
	restored.RLock()
	vv, ok := restored.LookupLocked(restoredCol, 7)
	restored.RUnlock()
	if !ok || string(vv.Value()) != "payload" {
		t.Fatalf("restored entry = (%v, %v), wanted payload", vv, ok)
	}
}

func TestLoadFromEmptyBackendIsNoop(t *testing.T) {
	db := kvstore.New(kvstore.Options{})
	backend := storage.NewMemory()
	if err := Load(db, backend); err != nil {
		t.Fatalf("Load from empty backend: %v", err)
	}
}
