// Package main implements kvctl, the operational CLI for the engine: a
// spf13/cobra command tree grounded on ValentinKolb/dKV's cmd/ structure
// (a cobra root command, viper-bound persistent flags, and one subcommand
// per operation calling straight into the library).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "kvctl",
	Short: "Inspect, query, and snapshot a kv engine database",
	Long: `kvctl is an operational tool for the embedded kv engine: it loads a
database's on-disk snapshot (if any), performs one operation, and -- when
--db names a snapshot file -- writes the snapshot back out before exiting,
read-only commands included. There is no background process except under
"serve".`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("db", "", "path to the database's snapshot file (omitted: in-memory, throwaway)")
	rootCmd.PersistentFlags().String("collection", "", "named collection to operate on (omitted: the main collection)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log collection and transaction events")
	rootCmd.PersistentFlags().Bool("bolt", false, "use a bbolt-backed snapshot file instead of the default flat file")

	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
}

// initConfig wires environment variables KV_DB, KV_VERBOSE, etc. to the same
// flags, the same precedence layering config.Parse gives an inline config
// string (explicit flag > KV_* env > default).
func initConfig() {
	viper.SetEnvPrefix("kv")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
