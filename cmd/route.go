package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescue/core/pathfinder"
	"github.com/kilianp07/rescue/scenario"
)

var routeScenario string

var routeCmd = &cobra.Command{
	Use:   "route FROM TO",
	Short: "Print the shortest route between two areas",
	Args:  cobra.ExactArgs(2),
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().StringVarP(&routeScenario, "scenario", "s", "", "scenario file, overrides dispatch.scenario")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(routeScenario)
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
	g, _, err := sc.Build()
	if err != nil {
		return err
	}
	from, to := args[0], args[1]
	for _, name := range args {
		if !g.Has(name) {
			return fmt.Errorf("unknown area %q", name)
		}
	}

	f := pathfinder.New(g)
	dist := f.ShortestDistance(from, to)
	if dist == pathfinder.Unreachable {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "no route from %s to %s\n", from, to)
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "distance: %d\npath: %s\n", dist, strings.Join(f.ShortestPath(from, to), " -> "))
	return err
}
