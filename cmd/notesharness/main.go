// Package main provides the notesharness CLI: seed the candidate pool, run
// the scenario suite against the notes service and tear the session down.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucaspdo/notes-harness/internal/config"
	"github.com/lucaspdo/notes-harness/internal/obs"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "notesharness",
	Short: "End-to-end harness for the practice notes service",
	Long: `notesharness validates a remote notes REST service end to end. It
seeds a pool of synthetic identities into SQLite, drives the service's user
and note operations through registered accounts, and checks every response
envelope against stored state.`,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: environment only)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(teardownCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("notesharness v0.1.0")
	},
}

// loadConfig reads configuration and wires the logger before a subcommand
// runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	obs.Init()

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}
