package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescue/app"
	"github.com/kilianp07/rescue/core/dispatch"
	"github.com/kilianp07/rescue/infra/logger"
	"github.com/kilianp07/rescue/pkg/export"
)

var dispatchOpts struct {
	scenario string
	format   string
	output   string
	check    bool
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run one dispatch pass over a scenario",
	RunE:  runDispatch,
}

func init() {
	f := dispatchCmd.Flags()
	f.StringVarP(&dispatchOpts.scenario, "scenario", "s", "", "scenario file, overrides dispatch.scenario")
	f.StringVarP(&dispatchOpts.format, "format", "f", "text", "output format: text, json, csv or html")
	f.StringVarP(&dispatchOpts.output, "output", "o", "", "write the report to a file instead of stdout")
	f.BoolVar(&dispatchOpts.check, "check", false, "fail when the pass differs from the scenario expectations")
	rootCmd.AddCommand(dispatchCmd)
}

func runDispatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !slices.Contains(reportFormats, dispatchOpts.format) {
		return fmt.Errorf("unknown format %q", dispatchOpts.format)
	}
	cfg, err := loadConfig(dispatchOpts.scenario)
	if err != nil {
		return err
	}
	if cfg.Dispatch.Scenario == "" {
		return fmt.Errorf("no scenario: use --scenario or dispatch.scenario")
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("dispatch-command").Errorf("service close: %v", err)
		}
	}()

	res := svc.Pass(ctx)

	w := cmd.OutOrStdout()
	if dispatchOpts.output != "" {
		f, err := os.Create(dispatchOpts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := writeReport(w, dispatchOpts.format, res, svc.Engine.Summary()); err != nil {
		return err
	}

	if dispatchOpts.check {
		if svc.Scenario.Expected == nil {
			return fmt.Errorf("scenario %q has no expectations", svc.Scenario.Name)
		}
		if err := svc.Scenario.Expected.Check(res.Outcomes); err != nil {
			return fmt.Errorf("scenario %q: %w", svc.Scenario.Name, err)
		}
	}
	return nil
}

var reportFormats = []string{"text", "json", "csv", "html"}

func writeReport(w io.Writer, format string, res dispatch.PassResult, sum dispatch.Summary) error {
	switch format {
	case "text":
		for _, out := range res.Outcomes {
			if _, err := fmt.Fprintln(w, out); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "\n%s", sum)
		return err
	case "json":
		return export.WriteJSON(w, res)
	case "csv":
		return export.WriteCSV(w, res.Outcomes)
	case "html":
		return export.WriteHTML(w, res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
