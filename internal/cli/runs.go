package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prasanthkuna/vedaos/internal/runstore"
)

func init() {
	runsCmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List saved runs for the profile, or print one run's result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRuns,
	}
	runsCmd.Flags().IntP("limit", "l", 20, "Max entries")
	runsCmd.Flags().Bool("provenance", false, "List provenance entries instead of runs")

	RootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	provenance, _ := cmd.Flags().GetBool("provenance")
	if noStore {
		return fmt.Errorf("runs: the run store is disabled by --no-store")
	}

	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	if len(args) == 1 {
		run, err := e.Store().GetRun(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), run.ResultJSON)
		return nil
	}

	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	if provenance {
		entries, err := e.Provenance(p, limit)
		if err != nil {
			return err
		}
		return printJSON(cmd, entries)
	}
	runs, err := e.Runs(p, limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []runstore.Run{}
	}
	return printJSON(cmd, runs)
}
