// Package events defines the dispatch related events emitted on the event bus.
//
// Available event types:
//   - DispatchedEvent: a team was routed to a zone.
//   - UnassignedEvent: no team could be selected for a zone.
//   - RouteUnavailableEvent: the selected team has no route to the zone.
//   - PassCompletedEvent: a dispatch pass finished.
package events
