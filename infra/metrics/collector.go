package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/rescue/core/events"
	coremetrics "github.com/kilianp07/rescue/core/metrics"
	"github.com/kilianp07/rescue/core/model"
	"github.com/kilianp07/rescue/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records every event
// on sinks implementing coremetrics.EventRecorder. It stops when the
// context is canceled or the bus is closed. The returned channel is
// closed once the collector has stopped.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus[events.Event], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	rec, ok := sink.(coremetrics.EventRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = rec.RecordEvent(toRecord(ev, time.Now()))
			}
		}
	}()
	return done
}

func toRecord(ev events.Event, at time.Time) coremetrics.EventRecord {
	r := coremetrics.EventRecord{PassID: ev.PassID(), Time: at}
	switch e := ev.(type) {
	case events.DispatchedEvent:
		r.Type = model.OutcomeDispatched.String()
		r.TeamID = e.Outcome.TeamID
		r.Zone = e.Outcome.Zone
		r.Severity = e.Outcome.Severity
		r.Distance = e.Outcome.Distance
	case events.UnassignedEvent:
		r.Type = model.OutcomeUnassigned.String()
		r.Zone = e.Zone
		r.Severity = e.Severity
	case events.RouteUnavailableEvent:
		r.Type = model.OutcomeRouteUnavailable.String()
		r.TeamID = e.TeamID
		r.Zone = e.Zone
	case events.PassCompletedEvent:
		r.Type = "pass_completed"
	}
	return r
}
