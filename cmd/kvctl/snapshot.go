package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	kvsnapshot "github.com/module/kvengine/snapshot"
	"github.com/module/kvengine/storage"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy a snapshot to or from a separate file, independent of --db",
}

// snapshotBackend reuses the root --bolt flag: "snapshot save/load" moves
// bytes between the same kinds of backend "open" does, just addressed
// explicitly instead of through --db.
func snapshotBackend(path string) storage.Backend {
	if viper.GetBool("bolt") {
		b, err := storage.NewBolt(path)
		if err == nil {
			return b
		}
	}
	return storage.NewFile(path)
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [dest-path]",
	Short: "Export --db's current state to dest-path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, serr := openSession()
		if serr != nil {
			return serr
		}
		defer s.close()

		dest := snapshotBackend(args[0])
		defer dest.Close()

		if err := kvsnapshot.Save(s.db, dest); err != nil {
			return err
		}
		fmt.Printf("snapshot written to %s\n", args[0])
		return nil
	},
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load [src-path]",
	Short: "Replace --db's state with the snapshot at src-path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, serr := openSession()
		if serr != nil {
			return serr
		}

		src := snapshotBackend(args[0])
		defer src.Close()

		if err := kvsnapshot.Load(s.db, src); err != nil {
			return err
		}
		if err := s.close(); err != nil {
			return err
		}
		fmt.Printf("loaded snapshot from %s\n", args[0])
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
}
