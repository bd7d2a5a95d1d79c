package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucaspdo/notes-harness/internal/scenario"
)

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Drop the candidate pool",
	Long:  `Teardown drops the seed table left behind by a run with --keep-pool.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := scenario.NewSession(cfg)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.Teardown(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "dropped seed table in %s\n", cfg.DBPath)
		return nil
	},
}
