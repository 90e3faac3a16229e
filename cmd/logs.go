package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescue/core/dispatch/logging"
)

var logsOpts struct {
	pass  string
	team  string
	zone  string
	since time.Duration
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Query recorded dispatch passes",
	RunE:  runLogs,
}

func init() {
	f := logsCmd.Flags()
	f.StringVar(&logsOpts.pass, "pass", "", "only the given pass")
	f.StringVar(&logsOpts.team, "team", "", "only passes involving the team")
	f.StringVar(&logsOpts.zone, "zone", "", "only passes involving the zone")
	f.DurationVar(&logsOpts.since, "since", 0, "only passes newer than this duration")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	store, err := logging.NewStore(cfg.Logging)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("dispatch logging is disabled")
	}
	defer store.Close()

	q := logging.LogQuery{PassID: logsOpts.pass, TeamID: logsOpts.team, Zone: logsOpts.zone}
	if logsOpts.since > 0 {
		q.Start = time.Now().Add(-logsOpts.since)
	}
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, r := range recs {
		fmt.Fprintf(w, "%s pass %s\n", r.Timestamp.Format(time.RFC3339), r.PassID)
		for _, o := range r.Outcomes {
			fmt.Fprintf(w, "  %s\n", o)
		}
	}
	return nil
}
