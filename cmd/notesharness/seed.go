package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucaspdo/notes-harness/internal/fake"
	"github.com/lucaspdo/notes-harness/internal/scenario"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create and fill the candidate pool",
	Long: `Seed initializes the SQLite pool and inserts the configured number
of synthetic identities without running any scenario. Useful for inspecting
the pool a run would draw from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		session, err := scenario.NewSession(cfg)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.Prepare(ctx, fake.New()); err != nil {
			return err
		}
		n, err := session.Seeds.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows into %s\n", n, cfg.DBPath)
		return nil
	},
}
