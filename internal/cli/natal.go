package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prasanthkuna/vedaos/internal/dasha"
	"github.com/prasanthkuna/vedaos/internal/phase"
)

func init() {
	natalCmd := &cobra.Command{
		Use:   "natal",
		Short: "Compute the natal snapshot",
		RunE:  runNatal,
	}

	atmaCmd := &cobra.Command{
		Use:   "atmakaraka",
		Short: "Name the atmakaraka with its narrative key",
		RunE:  runAtmakaraka,
	}

	dashaCmd := &cobra.Command{
		Use:   "dasha",
		Short: "List Mahadashas, or the running Pratyantardasha with --at",
		RunE:  runDasha,
	}
	dashaCmd.Flags().String("until", "", "Last instant covered (default: now + 10 years)")
	dashaCmd.Flags().String("at", "", "Report the MD/AD/PD running at this instant instead")
	dashaCmd.Flags().Bool("antar", false, "Nest Antardashas under each Mahadasha")

	journeyCmd := &cobra.Command{
		Use:   "journey",
		Short: "Build the phase journey",
		RunE:  runJourney,
	}
	journeyCmd.Flags().StringP("mode", "m", string(phase.Quick5y), "Journey mode: quick5y or full15y")
	journeyCmd.Flags().String("as-of", "", "Evaluate as of this instant (default: now)")

	RootCmd.AddCommand(natalCmd, atmaCmd, dashaCmd, journeyCmd)
}

func runNatal(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	core, err := e.Natal(cmd.Context(), p)
	if err != nil {
		return err
	}
	return printJSON(cmd, core)
}

func runAtmakaraka(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	e, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	pr, err := e.Atmakaraka(cmd.Context(), p)
	if err != nil {
		return err
	}
	return printJSON(cmd, pr)
}

type mahadashaView struct {
	dasha.Interval
	Antardashas []dasha.Interval `json:"antardashas,omitempty"`
}

func runDasha(cmd *cobra.Command, args []string) error {
	untilStr, _ := cmd.Flags().GetString("until")
	atStr, _ := cmd.Flags().GetString("at")
	antar, _ := cmd.Flags().GetBool("antar")

	until, err := parseInstant(untilStr)
	if err != nil {
		return err
	}
	at, err := parseInstant(atStr)
	if err != nil {
		return err
	}
	if until.IsZero() {
		until = time.Now().UTC().AddDate(10, 0, 0)
	}
	if !at.IsZero() && !until.After(at) {
		until = at.AddDate(1, 0, 0)
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

	mds, err := e.Dasha(cmd.Context(), p, until)
	if err != nil {
		return err
	}

	if !at.IsZero() {
		pd, ok := dasha.At(mds, at)
		if !ok {
			return fmt.Errorf("no dasha period at %s", at.Format(time.RFC3339))
		}
		return printJSON(cmd, pd)
	}

	out := make([]mahadashaView, 0, len(mds))
	for _, md := range mds {
		v := mahadashaView{Interval: md}
		if antar {
			v.Antardashas = dasha.Antardashas(md)
		}
		out = append(out, v)
	}
	return printJSON(cmd, out)
}

func runJourney(cmd *cobra.Command, args []string) error {
	modeStr, _ := cmd.Flags().GetString("mode")
	asOfStr, _ := cmd.Flags().GetString("as-of")

	mode, err := phase.ParseMode(modeStr)
	if err != nil {
		return err
	}
	asOf, err := parseInstant(asOfStr)
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

	j, err := e.Journey(cmd.Context(), p, mode, asOf)
	if err != nil {
		return err
	}
	return printJSON(cmd, j)
}
