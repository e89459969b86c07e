package paths

import (
	"bytes"

	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/kvstore"
)

// scanBatchSize is how many bucket keys Match pulls from the kernel per
// underlying Scan call before looking at their contents.
const scanBatchSize = 32

// Cursor resumes a paginated Match call. The zero Cursor starts from the
// beginning of the collection.
type Cursor struct {
	// Key is the next bucket key to resume scanning from (inclusive).
	// kvstore.KeyUnknown means "from the beginning".
	Key kvstore.Key
	// LastPath, when non-empty, is the last path emitted from the bucket
	// at Key on a previous call -- entries up to and including it are
	// skipped so a bucket with multiple matches isn't re-emitted.
	LastPath string
}

// Match implements paths_match's single-range variant (spec §4.6): starting
// from cursor, repeatedly scans the collection's (hash) keys in ascending
// order, batch-reads their buckets, and emits every path starting with
// prefix until limit paths have been emitted or the collection is
// exhausted.
func (s *Store) Match(col kvstore.CollectionID, prefix []byte, cursor Cursor, limit int) (matches [][]byte, next Cursor, err *kverrors.Error) {
	if col == nil {
		return nil, cursor, kverrors.New(kverrors.BadArg, "paths match with no collection")
	}
	if limit <= 0 {
		return nil, cursor, nil
	}

	scanKey := cursor.Key
	if cursor == (Cursor{}) {
		scanKey = kvstore.KeyUnknown
	}
	skipUntil := cursor.LastPath
	first := true

	for len(matches) < limit {
		a := arena.New()
		scanRes, serr := s.kernel.Scan(col, scanKey, scanBatchSize, 0, a)
		if serr != nil {
			a.Release()
			return nil, cursor, serr
		}
		if len(scanRes.Keys) == 0 {
			a.Release()
			next = Cursor{Key: scanKey}
			return matches, next, nil
		}

		keys := append([]kvstore.Key(nil), scanRes.Keys...)
		a.Release()

		raw, rerr := s.readBuckets(col, keys)
		if rerr != nil {
			return nil, cursor, rerr
		}

		for i, key := range keys {
			entries := decodeBucket(raw[i])
			start := 0
			if first && skipUntil != "" && key == cursor.Key {
				for j, e := range entries {
					if e.path == skipUntil {
						start = j + 1
						break
					}
				}
			}
			first = false

			for _, e := range entries[start:] {
				if !bytes.HasPrefix([]byte(e.path), prefix) {
					continue
				}
				matches = append(matches, []byte(e.path))
				if len(matches) == limit {
					return matches, Cursor{Key: key, LastPath: e.path}, nil
				}
			}
			scanKey = key + 1
		}
	}

	return matches, Cursor{Key: scanKey}, nil
}
