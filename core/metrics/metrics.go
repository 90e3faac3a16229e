package metrics

import (
	"time"

	"github.com/kilianp07/rescue/core/model"
)

// OutcomeRecord is one zone outcome to be recorded.
type OutcomeRecord struct {
	PassID  string
	Outcome model.Outcome
	Time    time.Time
}

// MetricsSink records dispatch outcomes for observability purposes.
type MetricsSink interface {
	RecordOutcomes(records []OutcomeRecord) error
}

// PassSummary captures the totals of one dispatch pass.
type PassSummary struct {
	PassID      string
	Dispatched  int
	Unassigned  int
	Unavailable int
	Duration    time.Duration
	Time        time.Time
}

// PassRecorder is implemented by sinks able to record pass totals.
type PassRecorder interface {
	RecordPass(p PassSummary) error
}

// FleetSnapshot counts where teams are after a pass.
type FleetSnapshot struct {
	Teams    int
	AtBase   int
	Deployed int
	// OpenAreas is the number of areas still having a positive severity.
	OpenAreas int
	Time      time.Time
}

// FleetRecorder is implemented by sinks able to record fleet snapshots.
type FleetRecorder interface {
	RecordFleet(s FleetSnapshot) error
}

// EventRecord is a single dispatch event observed on the bus.
type EventRecord struct {
	PassID string
	// Type is the outcome kind or "pass_completed".
	Type     string
	TeamID   string
	Zone     string
	Severity int
	Distance int
	Time     time.Time
}

// EventRecorder is implemented by sinks storing the live event stream.
type EventRecorder interface {
	RecordEvent(ev EventRecord) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordOutcomes([]OutcomeRecord) error { return nil }
func (NopSink) RecordPass(PassSummary) error         { return nil }
func (NopSink) RecordFleet(FleetSnapshot) error      { return nil }
func (NopSink) RecordEvent(EventRecord) error        { return nil }
