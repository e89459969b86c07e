package kvstore

import (
	"context"
	"testing"

	"golang.org/x/sync/errgroup"
)

// TestConcurrentCommitsExactlyOneWins fans out N transactions that all
// write the same key from distinct goroutines; exactly one may commit
// cleanly, the rest must observe CONFLICT, never silent corruption.
func TestConcurrentCommitsExactlyOneWins(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	const n = 8
	txns := make([]*Txn, n)
	for i := range txns {
		txns[i] = db.Begin(0)
		if err := txns[i].Write(col, 1, []byte{byte(i)}, true); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	var g errgroup.Group
	results := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := txns[i].Commit(); err != nil {
				results[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	oks := 0
	for _, err := range results {
		if err == nil {
			oks++
		}
	}
	if oks != 1 {
		t.Fatalf("%d transactions committed cleanly, wanted exactly 1", oks)
	}

	db.RLock()
	_, ok := db.LookupLocked(col, 1)
	db.RUnlock()
	if !ok {
		t.Fatalf("no value visible at head after the race, wanted the winner's write")
	}
}

// TestConcurrentCommitsDisjointKeysAllSucceed exercises the happy path of
// the same lock under real contention: disjoint write-sets never conflict.
func TestConcurrentCommitsDisjointKeysAllSucceed(t *testing.T) {
	db := New(Options{})
	col := db.Main()

	const n = 16
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			tx := db.Begin(0)
			if err := tx.Write(col, Key(i), []byte{byte(i)}, true); err != nil {
				return err
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("disjoint-key commits: %v", err)
	}

	db.RLock()
	defer db.RUnlock()
	for i := 0; i < n; i++ {
		if _, ok := db.LookupLocked(col, Key(i)); !ok {
			t.Fatalf("key %d missing after concurrent disjoint commits", i)
		}
	}
}
