package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kvstore"
)

var (
	scanStart int64
	scanLimit int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List keys in ascending order",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, serr := openSession()
		if serr != nil {
			return serr
		}
		defer s.close()

		start := kvstore.Key(scanStart)
		if !cmd.Flags().Changed("start") {
			start = kvstore.KeyUnknown
		}

		a := arena.New()
		defer a.Release()
		res, kerr := s.kernel.Scan(s.collection(), start, scanLimit, 0, a)
		if kerr != nil {
			return kerr
		}
		for _, k := range res.Keys {
			fmt.Println(int64(k))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().Int64Var(&scanStart, "start", 0, "first key to include (default: from the beginning)")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 100, "maximum number of keys to print")
}
