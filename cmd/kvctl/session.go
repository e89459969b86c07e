package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/module/kvengine/config"
	"github.com/module/kvengine/kernel"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/metrics"
	"github.com/module/kvengine/snapshot"
	"github.com/module/kvengine/storage"
)

// session bundles one kvctl invocation's opened database, the backend it
// was restored from (nil for an in-memory run), and the kernel every
// subcommand drives its operation through.
type session struct {
	db      *kvstore.DB
	kernel  *kernel.Kernel
	backend storage.Backend
}

// openSession restores the database named by --db and wraps it in a kernel,
// mirroring dKV's setupKVClient: a PersistentPreRunE-style helper every leaf
// command calls before doing its one operation. --db is the open(config_str)
// string of spec §6: a bare path, a "key=value;..." blob, or JSON, parsed by
// the config package rather than read as a raw path directly.
func openSession() (*session, error) {
	cfg, err := config.Parse(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("parsing --db: %w", err)
	}
	if viper.GetBool("verbose") {
		cfg.Verbose = true
	}

	db := kvstore.New(kvstore.Options{
		Verbose:   cfg.Verbose,
		IsTesting: cfg.IsTesting,
		Logf:      func(format string, args ...any) { fmt.Printf(format+"\n", args...) },
	})
	metrics.TrackYoungestSeq(db.YoungestSeq)

	var backend storage.Backend
	if cfg.Path != "" {
		if viper.GetBool("bolt") {
			backend, err = storage.NewBolt(cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("opening backend %s: %w", cfg.Path, err)
			}
		} else {
			backend = storage.NewFile(cfg.Path)
		}
		if err := snapshot.Load(db, backend); err != nil {
			backend.Close()
			return nil, fmt.Errorf("loading snapshot from %s: %w", cfg.Path, err)
		}
	}

	return &session{db: db, kernel: kernel.New(db), backend: backend}, nil
}

// close persists the database back to its backend (if one was opened) and
// releases backend resources. Read-only commands (get/scan/paths match)
// still call this so a bbolt-backed session closes its file cleanly.
func (s *session) close() error {
	if s.backend == nil {
		return nil
	}
	defer s.backend.Close()
	return snapshot.Save(s.db, s.backend)
}

// collection resolves the --collection flag to a collection handle,
// creating it if it doesn't exist yet (spec §4.3: collection_upsert is
// idempotent).
func (s *session) collection() kvstore.CollectionID {
	return s.db.UpsertCollection(viper.GetString("collection"))
}
