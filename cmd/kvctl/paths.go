package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/module/kvengine/paths"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Operate on the string-keyed paths modality",
}

var pathsPutCmd = &cobra.Command{
	Use:   "put [path] [value]",
	Short: "Write (or, with --delete, remove) a path",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !pathsDelete && len(args) != 2 {
			return fmt.Errorf("paths put requires a value unless --delete is given")
		}

		s, serr := openSession()
		if serr != nil {
			return serr
		}

		task := paths.Task{Path: []byte(args[0])}
		if !pathsDelete {
			task.Value = []byte(args[1])
		}

		store := paths.New(s.kernel)
		if kerr := store.Write(s.collection(), []paths.Task{task}); kerr != nil {
			s.close()
			return kerr
		}
		if err := s.close(); err != nil {
			return err
		}
		fmt.Printf("path %q written\n", args[0])
		return nil
	},
}

var pathsGetCmd = &cobra.Command{
	Use:   "get [path]",
	Short: "Read the value stored for a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, serr := openSession()
		if serr != nil {
			return serr
		}
		defer s.close()

		store := paths.New(s.kernel)
		res, kerr := store.Read(s.collection(), [][]byte{[]byte(args[0])})
		if kerr != nil {
			return kerr
		}
		if !res[0].Present {
			fmt.Printf("path=%q, found=false\n", args[0])
			return nil
		}
		fmt.Printf("path=%q, found=true, value=%q\n", args[0], res[0].Value)
		return nil
	},
}

var pathsMatchCmd = &cobra.Command{
	Use:   "match [prefix]",
	Short: "List every path starting with prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, serr := openSession()
		if serr != nil {
			return serr
		}
		defer s.close()

		store := paths.New(s.kernel)
		var cursor paths.Cursor
		for {
			matches, next, kerr := store.Match(s.collection(), []byte(args[0]), cursor, 64)
			if kerr != nil {
				return kerr
			}
			for _, m := range matches {
				fmt.Println(string(m))
			}
			if len(matches) == 0 {
				return nil
			}
			cursor = next
		}
	},
}

var pathsDelete bool

func init() {
	pathsPutCmd.Flags().BoolVar(&pathsDelete, "delete", false, "remove the path instead of writing a value")
	pathsCmd.AddCommand(pathsPutCmd)
	pathsCmd.AddCommand(pathsGetCmd)
	pathsCmd.AddCommand(pathsMatchCmd)
}
