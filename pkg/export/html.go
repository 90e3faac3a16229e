package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/rescue/core/dispatch"
	"github.com/kilianp07/rescue/core/model"
)

// WriteHTML renders a self-contained HTML report of the pass: the severity
// of every processed zone split by outcome, and the route distance of each
// dispatched team.
func WriteHTML(w io.Writer, res dispatch.PassResult) error {
	page := components.NewPage()
	page.PageTitle = "Dispatch pass " + res.ID
	page.AddCharts(severityChart(res), distanceChart(res))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func severityChart(res dispatch.PassResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Zones by severity",
			Subtitle: fmt.Sprintf("%d dispatched, %d unassigned, %d unreachable", res.Dispatched(), res.Unassigned(), res.Unavailable()),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Zone"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Severity"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	zones := make([]string, 0, len(res.Outcomes))
	series := map[model.OutcomeKind][]opts.BarData{}
	kinds := []model.OutcomeKind{model.OutcomeDispatched, model.OutcomeUnassigned, model.OutcomeRouteUnavailable}
	for _, o := range res.Outcomes {
		zones = append(zones, o.Zone)
		for _, k := range kinds {
			// One bar per zone, placed in the series of its outcome.
			v := opts.BarData{Value: "-"}
			if o.Kind == k {
				v = opts.BarData{Value: o.Severity}
			}
			series[k] = append(series[k], v)
		}
	}
	bar.SetXAxis(zones)
	for _, k := range kinds {
		bar.AddSeries(k.String(), series[k], charts.WithBarChartOpts(opts.BarChart{Stack: "outcome"}))
	}
	return bar
}

func distanceChart(res dispatch.PassResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Route distance"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Team to zone"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distance"}),
	)
	var labels []string
	var data []opts.BarData
	for _, o := range res.Outcomes {
		if o.Kind != model.OutcomeDispatched {
			continue
		}
		labels = append(labels, o.TeamID+" to "+o.Zone)
		data = append(data, opts.BarData{Value: o.Distance, Name: o.From})
	}
	bar.SetXAxis(labels).AddSeries("distance", data)
	return bar
}
