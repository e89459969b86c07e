package paths

import (
	"github.com/module/kvengine/kverrors"
	"github.com/module/kvengine/kvstore"
)

// MatchManyPrefixes would fan Match out across several prefixes in one
// call. original_source's scan_one_collection_many_prefixes is an empty
// stub with unspecified semantics (spec.md §9's open questions); left
// unimplemented here rather than guessed at.
func (s *Store) MatchManyPrefixes(col kvstore.CollectionID, prefixes [][]byte, limit int) ([][]byte, *kverrors.Error) {
	return nil, kverrors.New(kverrors.Unsupported, "match-many-prefixes is not implemented")
}

// MatchManyRanges would fan Match out across several (prefix, cursor)
// ranges in one call. original_source's scan_one_collection_many_ranges is
// likewise an empty stub; left unimplemented for the same reason.
func (s *Store) MatchManyRanges(col kvstore.CollectionID, cursors []Cursor, limit int) ([][]byte, *kverrors.Error) {
	return nil, kverrors.New(kverrors.Unsupported, "match-many-ranges is not implemented")
}
