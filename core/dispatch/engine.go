package dispatch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/rescue/core/dispatch/logging"
	"github.com/kilianp07/rescue/core/events"
	"github.com/kilianp07/rescue/core/graph"
	"github.com/kilianp07/rescue/core/logger"
	"github.com/kilianp07/rescue/core/metrics"
	"github.com/kilianp07/rescue/core/model"
	"github.com/kilianp07/rescue/core/monitoring"
	"github.com/kilianp07/rescue/core/mqtt"
	"github.com/kilianp07/rescue/core/pathfinder"
	"github.com/kilianp07/rescue/core/registry"
	"github.com/kilianp07/rescue/internal/eventbus"
)

// Engine runs dispatch passes over an area graph and a team registry.
type Engine struct {
	graph    *graph.AreaGraph
	teams    *registry.Registry
	finder   *pathfinder.Finder
	selector Selector

	logger    logger.Logger
	metrics   metrics.MetricsSink
	bus       eventbus.EventBus[events.Event]
	store     logging.LogStore
	publisher mqtt.Client
	monitor   monitoring.Monitor

	history []PassResult
	mu      sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithMetrics sets the sink receiving outcomes and pass totals.
func WithMetrics(s metrics.MetricsSink) Option { return func(e *Engine) { e.metrics = s } }

// WithBus sets the bus receiving dispatch events.
func WithBus(b eventbus.EventBus[events.Event]) Option { return func(e *Engine) { e.bus = b } }

// WithLogStore sets the store persisting one record per pass.
func WithLogStore(s logging.LogStore) Option { return func(e *Engine) { e.store = s } }

// WithPublisher sets the client sending orders to dispatched teams.
func WithPublisher(c mqtt.Client) Option { return func(e *Engine) { e.publisher = c } }

// WithMonitor sets the error monitor notified of sink failures.
func WithMonitor(m monitoring.Monitor) Option { return func(e *Engine) { e.monitor = m } }

// WithSelector replaces the team selection policy.
func WithSelector(s Selector) Option { return func(e *Engine) { e.selector = s } }

// NewEngine creates an engine over g and reg.
func NewEngine(g *graph.AreaGraph, reg *registry.Registry, opts ...Option) (*Engine, error) {
	if g == nil || reg == nil {
		return nil, fmt.Errorf("dispatch: nil graph or registry provided to NewEngine")
	}
	e := &Engine{
		graph:   g,
		teams:   reg,
		finder:  pathfinder.New(g),
		logger:  logger.NopLogger{},
		monitor: monitoring.NopMonitor{},
	}
	for _, o := range opts {
		o(e)
	}
	if e.selector == nil {
		e.selector = NewBaseFirstSelector(reg, e.finder)
	}
	return e, nil
}

// Finder exposes the route finder bound to the engine graph.
func (e *Engine) Finder() *pathfinder.Finder { return e.finder }

// DispatchAll serves every area with a positive severity, highest first.
// Each area is attempted once. ctx only bounds the side effects: once
// started, the pass always runs to completion.
func (e *Engine) DispatchAll(ctx context.Context) PassResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := PassResult{ID: uuid.NewString(), Started: time.Now()}
	q := newZoneQueue(e.graph.Areas())
	e.logger.Infof("pass %s: %d zones need rescue", res.ID, q.Len())
	for q.Len() > 0 {
		zone := q.next()
		out := e.dispatchZone(ctx, res.ID, zone)
		zonesProcessed.WithLabelValues(out.Kind.String()).Inc()
		res.Outcomes = append(res.Outcomes, out)
	}
	res.Finished = time.Now()
	passDuration.Observe(res.Duration().Seconds())

	e.history = append(e.history, res)
	e.report(ctx, res)
	e.logger.Infof("pass %s: %d dispatched, %d unassigned, %d unreachable",
		res.ID, res.Dispatched(), res.Unassigned(), res.Unavailable())
	return res
}

func (e *Engine) dispatchZone(ctx context.Context, passID string, zone model.AreaSnapshot) model.Outcome {
	team, ok := e.selector.Select(zone.Name)
	if !ok {
		e.logger.Warnf("no available team for %s (severity %d)", zone.Name, zone.Severity)
		return e.unassigned(passID, zone)
	}

	path := e.finder.ShortestPath(team.Location, zone.Name)
	dist, ok := e.finder.PathLength(path)
	if len(path) == 0 || !ok {
		e.logger.Warnf("no path from %s to %s for team %s", team.Location, zone.Name, team.ID)
		e.publish(events.RouteUnavailableEvent{Pass: passID, TeamID: team.ID, From: team.Location, Zone: zone.Name})
		return model.Outcome{
			Kind:     model.OutcomeRouteUnavailable,
			Zone:     zone.Name,
			Severity: zone.Severity,
			TeamID:   team.ID,
			From:     team.Location,
		}
	}

	if err := e.assign(team, zone.Name); err != nil {
		e.logger.Errorf("assign %s to %s: %v", team.ID, zone.Name, err)
		return e.unassigned(passID, zone)
	}
	out := model.Outcome{
		Kind:     model.OutcomeDispatched,
		Zone:     zone.Name,
		Severity: zone.Severity,
		TeamID:   team.ID,
		From:     team.Location,
		Path:     path,
		Distance: dist,
	}
	routeDistance.Observe(float64(dist))
	e.logger.Debugw("team dispatched", map[string]any{
		"pass_id":  passID,
		"team_id":  team.ID,
		"zone":     zone.Name,
		"distance": dist,
	})
	e.publish(events.DispatchedEvent{Pass: passID, Outcome: out})
	e.sendOrder(ctx, passID, out)
	return out
}

func (e *Engine) unassigned(passID string, zone model.AreaSnapshot) model.Outcome {
	e.publish(events.UnassignedEvent{Pass: passID, Zone: zone.Name, Severity: zone.Severity})
	return model.Outcome{Kind: model.OutcomeUnassigned, Zone: zone.Name, Severity: zone.Severity}
}

// assign moves the team to the zone and clears the zone. Rescues are
// instantaneous, so the team is idle again right away. On failure the
// team is put back where it was and the zone keeps its severity.
func (e *Engine) assign(team model.TeamSnapshot, zone string) error {
	if err := e.teams.SetBusy(team.ID, true); err != nil {
		return err
	}
	if err := e.teams.Relocate(team.ID, zone); err != nil {
		_ = e.teams.SetBusy(team.ID, false)
		return err
	}
	if err := e.graph.SetSeverity(zone, 0); err != nil {
		_ = e.teams.Relocate(team.ID, team.Location)
		_ = e.teams.SetBusy(team.ID, false)
		return err
	}
	return e.teams.SetBusy(team.ID, false)
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func (e *Engine) sendOrder(ctx context.Context, passID string, out model.Outcome) {
	if e.publisher == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		e.logger.Warnf("order for %s not sent: %v", out.TeamID, err)
		return
	}
	order := mqtt.NewOrder(passID, out.TeamID, out.Zone, out.Severity, out.Path, out.Distance)
	cmdID, err := e.publisher.SendOrder(order)
	if err != nil {
		orderFailure.Inc()
		e.sinkFailed(passID, "publisher", err)
		return
	}
	orderSuccess.Inc()
	e.logger.Debugf("order %s sent to team %s", cmdID, out.TeamID)
}

// report forwards a finished pass to the metrics sink, the bus and the
// log store.
func (e *Engine) report(ctx context.Context, res PassResult) {
	e.publish(events.PassCompletedEvent{
		Pass:        res.ID,
		Dispatched:  res.Dispatched(),
		Unassigned:  res.Unassigned(),
		Unavailable: res.Unavailable(),
		Duration:    res.Duration(),
	})
	e.recordMetrics(res)
	if e.store != nil {
		sum := e.summary()
		rec := logging.LogRecord{
			Timestamp: res.Finished,
			PassID:    res.ID,
			Outcomes:  res.Outcomes,
			Areas:     sum.Areas,
			Teams:     sum.Teams,
		}
		if err := e.store.Append(ctx, rec); err != nil {
			e.sinkFailed(res.ID, "log_store", err)
		}
	}
}

func (e *Engine) recordMetrics(res PassResult) {
	if e.metrics == nil {
		return
	}
	recs := make([]metrics.OutcomeRecord, 0, len(res.Outcomes))
	for _, o := range res.Outcomes {
		recs = append(recs, metrics.OutcomeRecord{PassID: res.ID, Outcome: o, Time: res.Finished})
	}
	if err := e.metrics.RecordOutcomes(recs); err != nil {
		e.sinkFailed(res.ID, "metrics", err)
	}
	if pr, ok := e.metrics.(metrics.PassRecorder); ok {
		err := pr.RecordPass(metrics.PassSummary{
			PassID:      res.ID,
			Dispatched:  res.Dispatched(),
			Unassigned:  res.Unassigned(),
			Unavailable: res.Unavailable(),
			Duration:    res.Duration(),
			Time:        res.Finished,
		})
		if err != nil {
			e.sinkFailed(res.ID, "metrics", err)
		}
	}
	if fr, ok := e.metrics.(metrics.FleetRecorder); ok {
		if err := fr.RecordFleet(e.fleet(res.Finished)); err != nil {
			e.sinkFailed(res.ID, "metrics", err)
		}
	}
}

func (e *Engine) fleet(at time.Time) metrics.FleetSnapshot {
	s := metrics.FleetSnapshot{Time: at}
	for t := range e.teams.Teams() {
		s.Teams++
		if t.Location == model.Base {
			s.AtBase++
		} else {
			s.Deployed++
		}
	}
	for a := range e.graph.Areas() {
		if a.Severity > 0 {
			s.OpenAreas++
		}
	}
	return s
}

func (e *Engine) sinkFailed(passID, sink string, err error) {
	e.logger.Errorf("%s error in pass %s: %v", sink, passID, err)
	e.monitor.CaptureException(err, map[string]string{"pass_id": passID, "sink": sink})
}

// Summary returns the current areas and teams.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary()
}

func (e *Engine) summary() Summary {
	return Summary{
		Areas: slices.Collect(e.graph.Areas()),
		Teams: slices.Collect(e.teams.Teams()),
	}
}

// History returns the passes run so far, oldest first.
func (e *Engine) History() []PassResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PassResult(nil), e.history...)
}

// Close releases the bus and the log store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bus != nil {
		e.bus.Close()
	}
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}
