package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the database and print its stats",
	Long:  `open restores --db's snapshot (if any), prints kernel.Control("stats") output, and exits without mutating anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		stats, kerr := s.kernel.Control("stats")
		if kerr != nil {
			return kerr
		}
		fmt.Println(stats)
		return nil
	},
}
