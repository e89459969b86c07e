package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/module/kvengine/arena"
	"github.com/module/kvengine/kernel"
	"github.com/module/kvengine/kvstore"
	"github.com/module/kvengine/strided"
)

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Read the value for a key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("key must be an integer: %w", err)
		}

		s, serr := openSession()
		if serr != nil {
			return serr
		}
		defer s.close()

		a := arena.New()
		defer a.Release()

		res, kerr := s.kernel.Read(kernel.Tasks{
			Count:       1,
			Collections: strided.Const(s.collection()),
			Keys:        strided.Const(kvstore.Key(key)),
		}, nil, 0, false, a)
		if kerr != nil {
			return kerr
		}

		if !res.Presences[0] {
			fmt.Printf("key=%d, found=false\n", key)
			return nil
		}
		fmt.Printf("key=%d, found=true, value=%q\n", key, res.Value(0))
		return nil
	},
}
