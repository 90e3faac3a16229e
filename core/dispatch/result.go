package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/rescue/core/model"
)

// PassResult holds the ordered outcomes of one dispatch pass.
type PassResult struct {
	ID       string          `json:"id"`
	Started  time.Time       `json:"started"`
	Finished time.Time       `json:"finished"`
	Outcomes []model.Outcome `json:"outcomes"`
}

func (r PassResult) count(k model.OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// Dispatched returns the number of zones that received a team.
func (r PassResult) Dispatched() int { return r.count(model.OutcomeDispatched) }

// Unassigned returns the number of zones left without a team.
func (r PassResult) Unassigned() int { return r.count(model.OutcomeUnassigned) }

// Unavailable returns the number of zones the selected team could not reach.
func (r PassResult) Unavailable() int { return r.count(model.OutcomeRouteUnavailable) }

// Duration is the wall time spent in the pass.
func (r PassResult) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// Summary is the state of areas and teams, both in insertion order.
type Summary struct {
	Areas []model.AreaSnapshot `json:"areas"`
	Teams []model.TeamSnapshot `json:"teams"`
}

// String renders the summary as shown by the CLI.
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("--- Area Summary ---\n")
	for _, a := range s.Areas {
		fmt.Fprintf(&b, "%s: Severity %d\n", a.Name, a.Severity)
	}
	b.WriteString("\n--- Rescue Teams ---\n")
	for _, t := range s.Teams {
		fmt.Fprintf(&b, "Team %s at %s", t.ID, t.Location)
		if t.Busy {
			b.WriteString(" [BUSY]")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
