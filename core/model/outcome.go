package model

import "strings"

// OutcomeKind describes what happened to a zone during a dispatch pass.
type OutcomeKind int

const (
	// OutcomeDispatched means a team was routed to the zone.
	OutcomeDispatched OutcomeKind = iota
	// OutcomeUnassigned means no eligible team was found.
	OutcomeUnassigned
	// OutcomeRouteUnavailable means the selected team has no path to the zone.
	OutcomeRouteUnavailable
)

// String returns a human-readable representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDispatched:
		return "dispatched"
	case OutcomeUnassigned:
		return "unassigned"
	case OutcomeRouteUnavailable:
		return "route_unavailable"
	default:
		return "unknown"
	}
}

// ParseOutcomeKind converts the String form back to an OutcomeKind.
func ParseOutcomeKind(s string) (OutcomeKind, bool) {
	switch strings.ToLower(s) {
	case "dispatched":
		return OutcomeDispatched, true
	case "unassigned":
		return OutcomeUnassigned, true
	case "route_unavailable":
		return OutcomeRouteUnavailable, true
	default:
		return 0, false
	}
}

// Outcome is the result of processing one zone.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	Zone     string      `json:"zone"`
	Severity int         `json:"severity"`
	// TeamID and From are empty for OutcomeUnassigned.
	TeamID   string   `json:"team_id,omitempty"`
	From     string   `json:"from,omitempty"`
	Path     []string `json:"path,omitempty"`
	Distance int      `json:"distance,omitempty"`
}

// String renders the outcome on a single line.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeDispatched:
		return "team " + o.TeamID + " dispatched to " + o.Zone + " via " + strings.Join(o.Path, " -> ")
	case OutcomeUnassigned:
		return "no available team for " + o.Zone
	case OutcomeRouteUnavailable:
		return "no path from " + o.From + " to " + o.Zone + " for team " + o.TeamID
	default:
		return o.Kind.String() + " " + o.Zone
	}
}
