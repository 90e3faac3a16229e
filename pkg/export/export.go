// Package export writes dispatch passes as JSON, CSV or an HTML chart
// report.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/rescue/core/dispatch"
	"github.com/kilianp07/rescue/core/model"
)

// WriteJSON writes the pass to w in JSON format.
func WriteJSON(w io.Writer, res dispatch.PassResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes one line per outcome in processing order.
func WriteCSV(w io.Writer, outcomes []model.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"zone", "severity", "outcome", "team_id", "from", "distance", "path"}); err != nil {
		return err
	}
	for _, o := range outcomes {
		dist := ""
		if o.Kind == model.OutcomeDispatched {
			dist = strconv.Itoa(o.Distance)
		}
		rec := []string{
			o.Zone,
			strconv.Itoa(o.Severity),
			o.Kind.String(),
			o.TeamID,
			o.From,
			dist,
			strings.Join(o.Path, " -> "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
