package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/module/kvengine/kernel"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/strided"
)

var putDelete bool

var putCmd = &cobra.Command{
	Use:   "put [key] [value]",
	Short: "Write (or, with --delete, erase) the value for a key",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("key must be an integer: %w", err)
		}
		if !putDelete && len(args) != 2 {
			return fmt.Errorf("put requires a value unless --delete is given")
		}

		s, serr := openSession()
		if serr != nil {
			return serr
		}

		tasks := kernel.Tasks{
			Count:       1,
			Collections: strided.Const(s.collection()),
			Keys:        strided.Const(kvstore.Key(key)),
		}
		if putDelete {
			tasks.Presences = strided.Const(false)
		} else {
			tasks.Values = strided.Const([]byte(args[1]))
		}

		if kerr := s.kernel.Write(tasks, nil, 0); kerr != nil {
			s.close()
			return kerr
		}

		if err := s.close(); err != nil {
			return err
		}
		if putDelete {
			fmt.Printf("erased key=%d\n", key)
		} else {
			fmt.Printf("wrote key=%d\n", key)
		}
		return nil
	},
}

func init() {
	putCmd.Flags().BoolVar(&putDelete, "delete", false, "erase the key instead of writing a value")
}
