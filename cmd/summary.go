package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescue/core/dispatch"
	"github.com/kilianp07/rescue/scenario"
)

var summaryScenario string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the areas and teams of a scenario before any dispatch",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryScenario, "scenario", "s", "", "scenario file, overrides dispatch.scenario")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(summaryScenario)
	if err != nil {
		return err
	}
	if cfg.Dispatch.Scenario == "" {
		return fmt.Errorf("no scenario: use --scenario or dispatch.scenario")
	}
	sc, err := scenario.Load(cfg.Dispatch.Scenario)
	if err != nil {
		return err
	}
	g, reg, err := sc.Build()
	if err != nil {
		return err
	}
	eng, err := dispatch.NewEngine(g, reg)
	if err != nil {
		return err
	}
	defer eng.Close()
	_, err = fmt.Fprint(cmd.OutOrStdout(), eng.Summary())
	return err
}
