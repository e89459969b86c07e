package paths

import "encoding/binary"

// entry is one (path, value) pair living inside a bucket.
type entry struct {
	path  string
	value []byte
}

// decodeBucket unpacks spec §3's bucket layout:
//
//	u32 N
//	u32 key_len[N]
//	u32 val_len[N]
//	bytes keys[N] (concatenated)
//	bytes vals[N] (concatenated)
//
// A nil or zero-length raw bucket decodes to zero entries (N == 0, "bucket
// absent").
func decodeBucket(raw []byte) []entry {
	if len(raw) < 4 {
		return nil
	}
	n := binary.LittleEndian.Uint32(raw)
	if n == 0 {
		return nil
	}

	headerEnd := 4 + int(n)*4*2
	keyLens := make([]uint32, n)
	valLens := make([]uint32, n)
	for i := uint32(0); i < n; i++ {
		keyLens[i] = binary.LittleEndian.Uint32(raw[4+int(i)*4:])
		valLens[i] = binary.LittleEndian.Uint32(raw[4+int(n)*4+int(i)*4:])
	}

	entries := make([]entry, n)
	off := headerEnd
	for i := uint32(0); i < n; i++ {
		kl := int(keyLens[i])
		entries[i].path = string(raw[off : off+kl])
		off += kl
	}
	for i := uint32(0); i < n; i++ {
		vl := int(valLens[i])
		entries[i].value = raw[off : off+vl]
		off += vl
	}
	return entries
}

// encodeBucket packs entries back into the on-wire layout. A nil or empty
// entries slice encodes to an empty (zero-length) bucket.
func encodeBucket(entries []entry) []byte {
	n := len(entries)
	if n == 0 {
		return nil
	}

	bytesForKeys, bytesForVals := 0, 0
	for _, e := range entries {
		bytesForKeys += len(e.path)
		bytesForVals += len(e.value)
	}

	total := 4 + n*4*2 + bytesForKeys + bytesForVals
	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf, uint32(n))

	keyLenOff := 4
	valLenOff := 4 + n*4
	keyOff := 4 + n*4*2
	valOff := keyOff + bytesForKeys

	for i, e := range entries {
		binary.LittleEndian.PutUint32(buf[keyLenOff+i*4:], uint32(len(e.path)))
		binary.LittleEndian.PutUint32(buf[valLenOff+i*4:], uint32(len(e.value)))
		copy(buf[keyOff:], e.path)
		keyOff += len(e.path)
		copy(buf[valOff:], e.value)
		valOff += len(e.value)
	}
	return buf
}

// upsertInBucket returns entries with path's value set to val, replacing an
// existing entry for path or appending a new one -- ported from
// original_source's upsert_in_bucket, minus the in-place byte-shuffling
// (Go just rebuilds the slice; the kernel's arena absorbs the allocation).
func upsertInBucket(entries []entry, path string, val []byte) []entry {
	out := make([]entry, 0, len(entries)+1)
	found := false
	for _, e := range entries {
		if e.path == path {
			out = append(out, entry{path: path, value: val})
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		out = append(out, entry{path: path, value: val})
	}
	return out
}

// removeFromBucket drops the entry for path, if present. Removing an
// absent path is a no-op, matching spec §4.6's invariant.
func removeFromBucket(entries []entry, path string) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		if e.path == path {
			continue
		}
		out = append(out, e)
	}
	return out
}

func findInBucket(entries []entry, path string) ([]byte, bool) {
	for _, e := range entries {
		if e.path == path {
			return e.value, true
		}
	}
	return nil, false
}
