package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/rescue/core/metrics"
)

// PromSink records dispatch outcomes in Prometheus metrics.
type PromSink struct {
	outcomes  *prometheus.CounterVec
	distance  *prometheus.HistogramVec
	passes    prometheus.Counter
	teams     *prometheus.GaugeVec
	openAreas prometheus.Gauge
	events    *prometheus.CounterVec
}

// NewPromSink registers dispatch metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	outcomes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescue_outcomes_total",
		Help: "Zone outcomes recorded per dispatch pass",
	}, []string{"outcome", "zone"}))
	if err != nil {
		return nil, err
	}
	distance, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rescue_team_route_distance",
		Help:    "Route distance travelled by each team",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"team_id"}))
	if err != nil {
		return nil, err
	}
	passes, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescue_passes_total",
		Help: "Number of dispatch passes",
	}))
	if err != nil {
		return nil, err
	}
	teams, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rescue_teams",
		Help: "Number of teams by position after the last pass",
	}, []string{"state"}))
	if err != nil {
		return nil, err
	}
	open, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rescue_open_areas",
		Help: "Areas still waiting for a team after the last pass",
	}))
	if err != nil {
		return nil, err
	}
	events, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescue_events_total",
		Help: "Dispatch events observed on the event bus",
	}, []string{"type"}))
	if err != nil {
		return nil, err
	}
	return &PromSink{
		outcomes:  outcomes,
		distance:  distance,
		passes:    passes,
		teams:     teams,
		openAreas: open,
		events:    events,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordOutcomes counts outcomes per zone and observes route distances.
func (s *PromSink) RecordOutcomes(recs []coremetrics.OutcomeRecord) error {
	for _, r := range recs {
		s.outcomes.WithLabelValues(r.Outcome.Kind.String(), r.Outcome.Zone).Inc()
		if r.Outcome.TeamID != "" && len(r.Outcome.Path) > 0 {
			s.distance.WithLabelValues(r.Outcome.TeamID).Observe(float64(r.Outcome.Distance))
		}
	}
	return nil
}

// RecordPass counts a finished pass.
func (s *PromSink) RecordPass(coremetrics.PassSummary) error {
	s.passes.Inc()
	return nil
}

// RecordFleet sets the fleet gauges.
func (s *PromSink) RecordFleet(f coremetrics.FleetSnapshot) error {
	s.teams.WithLabelValues("base").Set(float64(f.AtBase))
	s.teams.WithLabelValues("deployed").Set(float64(f.Deployed))
	s.openAreas.Set(float64(f.OpenAreas))
	return nil
}

// RecordEvent counts bus events by type.
func (s *PromSink) RecordEvent(ev coremetrics.EventRecord) error {
	s.events.WithLabelValues(ev.Type).Inc()
	return nil
}
