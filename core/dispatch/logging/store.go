// Package logging persists the record of each dispatch pass so that
// operators can audit who was sent where.
package logging

import (
	"context"
	"slices"
	"time"

	"github.com/kilianp07/rescue/core/model"
)

// LogRecord captures one dispatch pass and the state it left behind.
type LogRecord struct {
	Timestamp time.Time            `json:"timestamp"`
	PassID    string               `json:"pass_id"`
	Outcomes  []model.Outcome      `json:"outcomes"`
	Areas     []model.AreaSnapshot `json:"areas"`
	Teams     []model.TeamSnapshot `json:"teams"`
}

// LogQuery defines filters for retrieving records. Zero values match
// everything.
type LogQuery struct {
	Start  time.Time
	End    time.Time
	PassID string
	// TeamID keeps passes in which the team received an assignment.
	TeamID string
	// Zone keeps passes that processed the zone, whatever the outcome.
	Zone string
}

// Matches reports whether r satisfies every filter of q.
func (r LogRecord) Matches(q LogQuery) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.PassID != "" && r.PassID != q.PassID {
		return false
	}
	if q.TeamID != "" && !slices.ContainsFunc(r.Outcomes, func(o model.Outcome) bool { return o.TeamID == q.TeamID }) {
		return false
	}
	if q.Zone != "" && !slices.ContainsFunc(r.Outcomes, func(o model.Outcome) bool { return o.Zone == q.Zone }) {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
