package paths

import (
	"github.com/cespare/xxhash/v2"

	"github.com/module/kvengine/kvstore"
)

// HashFunc hashes a path's bytes down to the fixed-width key the kernel
// actually stores buckets under. Implementations must use the same
// function for reads and writes; the exact algorithm is not observable
// (spec §4.6).
type HashFunc func(path []byte) kvstore.Key

// defaultHash is xxhash64 folded to a signed Key -- the production hash,
// grounded on the corpus already paying for cespare/xxhash/v2 as a
// transitive dependency of the teacher's msgpack import (see DESIGN.md for
// why this replaces the plain stdlib FNV the spec text names as a
// possibility).
func defaultHash(path []byte) kvstore.Key {
	return kvstore.Key(xxhash.Sum64(path))
}

// debugHash mirrors original_source's UKV_DEBUG build flag, which folds
// the hash modulo a small N to deliberately manufacture collisions for
// tests exercising bucket packing under contention.
func debugHash(n uint64) HashFunc {
	return func(path []byte) kvstore.Key {
		return kvstore.Key(xxhash.Sum64(path) % n)
	}
}
