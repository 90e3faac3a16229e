// Package dispatch assigns rescue teams to affected areas.
//
// A pass drains every area with a positive severity, highest first. For
// each zone a Selector picks a team, the PathFinder routes it, and the
// team is relocated while the zone severity drops to zero. Outcomes are
// reported to the configured sinks: metrics, event bus, log store and
// order publisher. Sink failures are logged and never stop a pass.
package dispatch
