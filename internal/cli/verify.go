package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prasanthkuna/vedaos/internal/engine"
	"github.com/prasanthkuna/vedaos/internal/golden"
	"github.com/prasanthkuna/vedaos/internal/schema"
)

func init() {
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check natal snapshots against a golden fixture",
		RunE:  runVerify,
	}
	verifyCmd.Flags().StringP("fixture", "x", "", "Golden fixture file (required)")
	verifyCmd.Flags().String("capture", "", "Append the profile as a new case with this name and rewrite the fixture")
	verifyCmd.MarkFlagRequired("fixture")

	schemaCmd := &cobra.Command{
		Use:   "schema [name]",
		Short: "Print the JSON Schema of an output document, or list the names",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSchema,
	}

	RootCmd.AddCommand(verifyCmd, schemaCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("fixture")
	capture, _ := cmd.Flags().GetString("capture")

	f, err := golden.LoadFixture(path)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	e, closeFn, err := engine.Open(cfg, false)
	if err != nil {
		return err
	}
	defer closeFn()

	if capture != "" {
		p, err := loadProfile(cmd)
		if err != nil {
			return err
		}
		in := p.BirthInput()
		c, err := golden.Capture(cmd.Context(), e.Calculator(), capture, golden.CaseInput{
			Date: in.Date, Time: in.Time, Zone: in.Zone, Place: in.Place,
		})
		if err != nil {
			return err
		}
		f.Cases = append(f.Cases, c)
		if err := golden.SaveFixture(path, f); err != nil {
			return err
		}
	}

	sum, err := golden.Verify(cmd.Context(), e.Calculator(), f)
	if err != nil {
		return err
	}
	if err := printJSON(cmd, sum); err != nil {
		return err
	}
	if !sum.OK() {
		return fmt.Errorf("verify: %d of %d cases differ", sum.Cases-sum.Passed, sum.Cases)
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return printJSON(cmd, schema.Names())
	}
	b, err := schema.JSON(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
