package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	weeklyCmd := &cobra.Command{
		Use:   "weekly",
		Short: "Friction and support windows for the week",
		RunE:  runWeekly,
	}
	weeklyCmd.Flags().String("start", "", "Any instant in the wanted week (default: now)")

	monthlyCmd := &cobra.Command{
		Use:   "monthly",
		Short: "Thirty days of windows with best and caution dates",
		RunE:  runMonthly,
	}
	monthlyCmd.Flags().String("start", "", "First day (default: today)")

	RootCmd.AddCommand(weeklyCmd, monthlyCmd)
}

func runWeekly(cmd *cobra.Command, args []string) error {
	startStr, _ := cmd.Flags().GetString("start")
	start, err := parseDay(startStr)
	if err != nil {
		return err
	}
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	set, err := e.Weekly(cmd.Context(), p, start)
	if err != nil {
		return err
	}
	return printJSON(cmd, set)
}

func runMonthly(cmd *cobra.Command, args []string) error {
	startStr, _ := cmd.Flags().GetString("start")
	start, err := parseDay(startStr)
	if err != nil {
		return err
	}
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	m, err := e.Monthly(cmd.Context(), p, start)
	if err != nil {
		return err
	}
	return printJSON(cmd, m)
}
