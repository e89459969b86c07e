// Package paths implements the paths layer (component C6): variable-length
// string keys layered over the integer-keyed kernel via hash-bucket
// packing, ported from original_source/src/modality_paths.cpp.
package paths

import (
	"slices"

	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kernel"
	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/strided"
)

// Store exposes Write/Read/Match over a kernel, optionally scoped to a
// single transaction.
type Store struct {
	kernel *kernel.Kernel
	txn    *kvstore.Txn
	hash   HashFunc
}

// Option configures a Store.
type Option func(*Store)

// WithTxn scopes every Write/Read the store performs to the given
// transaction instead of the DB head.
func WithTxn(tx *kvstore.Txn) Option {
	return func(s *Store) { s.txn = tx }
}

// WithDebugHash installs a hash that folds modulo n, deliberately forcing
// collisions -- the harness knob original_source calls UKV_DEBUG.
func WithDebugHash(n uint64) Option {
	return func(s *Store) { s.hash = debugHash(n) }
}

// New wraps k in a paths Store.
func New(k *kernel.Kernel, opts ...Option) *Store {
	s := &Store{kernel: k, hash: defaultHash}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) readBuckets(col kvstore.CollectionID, keys []kvstore.Key) ([][]byte, *kverrors.Error) {
	a := arena.New()
	defer a.Release()

	res, err := s.kernel.Read(kernel.Tasks{
		Count:       len(keys),
		Collections: strided.Const(col),
		Keys:        strided.Of(keys...),
	}, s.txn, 0, false, a)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, len(keys))
	for i := range keys {
		if res.Presences[i] {
			// Value() aliases arena memory that is released when this
			// function returns, so copy it out.
			v := res.Value(i)
			cp := make([]byte, len(v))
			copy(cp, v)
			out[i] = cp
		}
	}
	return out, nil
}

func (s *Store) writeBuckets(col kvstore.CollectionID, keys []kvstore.Key, buckets [][]byte) *kverrors.Error {
	return s.kernel.Write(kernel.Tasks{
		Count:       len(keys),
		Collections: strided.Const(col),
		Keys:        strided.Of(keys...),
		Values:      strided.Of(buckets...),
	}, s.txn, 0)
}

// Task is one path-level write: Value == nil removes the path from its
// bucket (spec §4.6 step 3); any non-nil Value (including a zero-length
// one) upserts it.
type Task struct {
	Path  []byte
	Value []byte
}

// Write implements paths_write (spec §4.6): hash + sort-and-dedup the
// unique buckets touched, batch-read them, apply each task's upsert or
// remove, then batch-write the modified buckets back.
func (s *Store) Write(col kvstore.CollectionID, tasks []Task) *kverrors.Error {
	if col == nil {
		return kverrors.New(kverrors.BadArg, "paths write with no collection")
	}

	bucketOf := make([]kvstore.Key, len(tasks))
	order := make([]kvstore.Key, 0, len(tasks))
	seen := make(map[kvstore.Key]bool, len(tasks))
	for i, t := range tasks {
		key := s.hash(t.Path)
		bucketOf[i] = key
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	slices.Sort(order)

	raw, err := s.readBuckets(col, order)
	if err != nil {
		return err
	}

	entriesByKey := make(map[kvstore.Key][]entry, len(order))
	for i, key := range order {
		entriesByKey[key] = decodeBucket(raw[i])
	}

	for i, t := range tasks {
		key := bucketOf[i]
		entries := entriesByKey[key]
		if t.Value == nil {
			entries = removeFromBucket(entries, string(t.Path))
		} else {
			entries = upsertInBucket(entries, string(t.Path), t.Value)
		}
		entriesByKey[key] = entries
	}

	encoded := make([][]byte, len(order))
	for i, key := range order {
		encoded[i] = encodeBucket(entriesByKey[key])
	}

	return s.writeBuckets(col, order, encoded)
}

// Result is one path-level read outcome.
type Result struct {
	Present bool
	Value   []byte
}

// Read implements paths_read (spec §4.6): hash each path (no dedup is
// required -- collisions are rare and re-reading is cheaper than sorting),
// batch-read the buckets, linear-scan each for the matching path.
func (s *Store) Read(col kvstore.CollectionID, paths [][]byte) ([]Result, *kverrors.Error) {
	if col == nil {
		return nil, kverrors.New(kverrors.BadArg, "paths read with no collection")
	}

	keys := make([]kvstore.Key, len(paths))
	for i, p := range paths {
		keys[i] = s.hash(p)
	}

	raw, err := s.readBuckets(col, keys)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	for i, p := range paths {
		entries := decodeBucket(raw[i])
		v, ok := findInBucket(entries, string(p))
		results[i] = Result{Present: ok, Value: v}
	}
	return results, nil
}
