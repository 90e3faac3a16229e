package events

import (
	"time"

	"github.com/kilianp07/rescue/core/model"
)

// Event is implemented by every dispatch event.
type Event interface {
	// PassID identifies the dispatch pass that emitted the event.
	PassID() string
}

// DispatchedEvent is published when a team is routed to a zone.
type DispatchedEvent struct {
	Pass    string
	Outcome model.Outcome
}

func (e DispatchedEvent) PassID() string { return e.Pass }

// UnassignedEvent is published when no team is available for a zone.
type UnassignedEvent struct {
	Pass     string
	Zone     string
	Severity int
}

func (e UnassignedEvent) PassID() string { return e.Pass }

// RouteUnavailableEvent is published when the selected team cannot reach
// the zone.
type RouteUnavailableEvent struct {
	Pass   string
	TeamID string
	From   string
	Zone   string
}

func (e RouteUnavailableEvent) PassID() string { return e.Pass }

// PassCompletedEvent summarises a finished pass.
type PassCompletedEvent struct {
	Pass        string
	Dispatched  int
	Unassigned  int
	Unavailable int
	Duration    time.Duration
}

func (e PassCompletedEvent) PassID() string { return e.Pass }
