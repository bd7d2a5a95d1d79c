package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucaspdo/notes-harness/internal/fake"
	"github.com/lucaspdo/notes-harness/internal/scenario"
)

var (
	// scenarioFilter limits the run to scenarios whose name contains the
	// given substring.
	scenarioFilter string

	// keepPool skips the end-of-session table drop.
	keepPool bool
)

func init() {
	runCmd.Flags().StringVar(&scenarioFilter, "scenario", "", "run only scenarios whose name contains this substring")
	runCmd.Flags().BoolVar(&keepPool, "keep-pool", false, "keep the seed table after the run")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Seed the pool and run the scenario suite",
	Long: `Run seeds a fresh candidate pool, executes the scenario suite
against the configured service and drops the pool afterwards. The exit
status is non-zero when any scenario fails.`,
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
		if !keepPool {
			defer func() {
				if err := session.Teardown(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "teardown: %v\n", err)
				}
			}()
		}

		var ran, failed int
		for _, sc := range scenario.Suite() {
			if scenarioFilter != "" && !strings.Contains(sc.Name, scenarioFilter) {
				continue
			}
			ran++
			if err := session.Execute(ctx, sc); err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", sc.Name, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", sc.Name)
		}

		if ran == 0 {
			return fmt.Errorf("no scenario matches %q", scenarioFilter)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d scenarios failed", failed, ran)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios passed\n", ran)
		return nil
	},
}
