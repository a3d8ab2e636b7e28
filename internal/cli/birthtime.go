package cli

import (
	"github.com/spf13/cobra"

	"github.com/prasanthkuna/vedaos/internal/birthtime"
)

func init() {
	riskCmd := &cobra.Command{
		Use:   "risk",
		Short: "Assess how close the stated birth time sits to a boundary",
		RunE:  runRisk,
	}

	rectifyCmd := &cobra.Command{
		Use:   "rectify",
		Short: "Narrow the birth-time window from questionnaire answers",
		RunE:  runRectify,
	}
	rectifyCmd.Flags().IntP("answers", "a", 0, "Number of answered anchor questions")

	RootCmd.AddCommand(riskCmd, rectifyCmd)
}

type riskView struct {
	birthtime.RiskAssessment
	NextStep birthtime.Step `json:"nextStep"`
}

func runRisk(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	return printJSON(cmd, riskView{RiskAssessment: e.Risk(p), NextStep: e.NextStep(p)})
}

func runRectify(cmd *cobra.Command, args []string) error {
	answers, _ := cmd.Flags().GetInt("answers")

	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	return printJSON(cmd, e.Rectify(p, answers))
}
