package kvstore

// Stats is a point-in-time snapshot of DB-wide counters, grounded on the
// teacher's monitoring.go TableStats diagnostic.
type Stats struct {
	CollectionCount int    `json:"collection_count"`
	EntryCount      int    `json:"entry_count"`
	YoungestSeq     Seq    `json:"youngest_seq"`
	ReaderCount     int64  `json:"reader_count"`
	WriterCount     int64  `json:"writer_count"`
	ReadCount       uint64 `json:"read_count"`
	WriteCount      uint64 `json:"write_count"`
}

// Stats reports DB-wide counters under the shared lock.
func (db *DB) Stats() Stats {
	db.RLock()
	defer db.RUnlock()

	entries := len(db.main.pairs)
	for _, col := range db.named {
		entries += len(col.pairs)
	}

	return Stats{
		CollectionCount: len(db.named),
		EntryCount:      entries,
		YoungestSeq:     db.youngestSeqLocked(),
		ReaderCount:     db.ReaderCount.Load(),
		WriterCount:     db.WriterCount.Load(),
		ReadCount:       db.ReadCount.Load(),
		WriteCount:      db.WriteCount.Load(),
	}
}
