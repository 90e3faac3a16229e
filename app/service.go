package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	dispatchapi "github.com/kilianp07/rescue/api/dispatch"
	"github.com/kilianp07/rescue/api/teams"
	"github.com/kilianp07/rescue/config"
	"github.com/kilianp07/rescue/core/dispatch"
	"github.com/kilianp07/rescue/core/dispatch/logging"
	"github.com/kilianp07/rescue/core/events"
	"github.com/kilianp07/rescue/core/graph"
	coremetrics "github.com/kilianp07/rescue/core/metrics"
	coremon "github.com/kilianp07/rescue/core/monitoring"
	"github.com/kilianp07/rescue/core/registry"
	"github.com/kilianp07/rescue/infra/logger"
	"github.com/kilianp07/rescue/infra/metrics"
	"github.com/kilianp07/rescue/infra/monitoring"
	"github.com/kilianp07/rescue/infra/mqtt"
	"github.com/kilianp07/rescue/internal/eventbus"
	"github.com/kilianp07/rescue/scenario"
)

// Service wires the dispatch engine to its sinks and order publisher.
type Service struct {
	Engine *dispatch.Engine
	Graph  *graph.AreaGraph
	Teams  *registry.Registry
	// Scenario is nil when the service starts from the depot only.
	Scenario *scenario.Scenario

	sink      coremetrics.MetricsSink
	store     logging.LogStore
	monitor   coremon.Monitor
	paho      *mqtt.PahoClient
	log       logger.Logger
	promPort  string
	apiToken  string
	stop      context.CancelFunc
	collector <-chan struct{}
}

// New creates a Service from the configuration. The scenario named by
// cfg.Dispatch.Scenario seeds the graph and the team registry; without
// one the service starts with the depot only.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	g, reg := graph.New(), registry.New()
	var sc *scenario.Scenario
	if cfg.Dispatch.Scenario != "" {
		var err error
		sc, err = scenario.Load(cfg.Dispatch.Scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario: %w", err)
		}
		if err := sc.Apply(g, reg); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		logg.Infof("loaded scenario %q: %d areas, %d teams", sc.Name, g.Len(), reg.Len())
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := logging.NewStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("log store: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("monitor: %w", err)
	}

	bus := eventbus.New[events.Event]()
	opts := []dispatch.Option{
		dispatch.WithLogger(logger.New("dispatch")),
		dispatch.WithMetrics(sink),
		dispatch.WithBus(bus),
		dispatch.WithMonitor(mon),
	}
	if store != nil {
		opts = append(opts, dispatch.WithLogStore(store))
	}

	svc := &Service{
		Graph:    g,
		Teams:    reg,
		Scenario: sc,
		sink:     sink,
		store:    store,
		monitor:  mon,
		log:      logg,
		promPort: cfg.Metrics.PrometheusPort,
		apiToken: cfg.Metrics.APIToken,
	}
	if cfg.MQTT.Enabled() {
		mc := cfg.MQTT
		mc.OrderTimeout = time.Duration(cfg.Dispatch.OrderTimeoutMS) * time.Millisecond
		client, err := mqtt.NewPahoClient(mc)
		if err != nil {
			if store != nil {
				_ = store.Close()
			}
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.paho = client
		opts = append(opts, dispatch.WithPublisher(client))
	}

	engine, err := dispatch.NewEngine(g, reg, opts...)
	if err != nil {
		return nil, fmt.Errorf("dispatch engine: %w", err)
	}
	svc.Engine = engine

	ctx, cancel := context.WithCancel(context.Background())
	svc.stop = cancel
	svc.collector = metrics.StartEventCollector(ctx, bus, sink)
	return svc, nil
}

// Pass runs one dispatch pass and logs every outcome.
func (s *Service) Pass(ctx context.Context) dispatch.PassResult {
	res := s.Engine.DispatchAll(ctx)
	for _, out := range res.Outcomes {
		s.log.Infof("%s", out)
	}
	return res
}

// Run performs one pass, then serves Prometheus metrics and the team and
// pass log API until the context is canceled. Without a metrics port it
// returns after the pass.
func (s *Service) Run(ctx context.Context) error {
	s.Pass(ctx)
	if s.promPort == "" {
		return nil
	}
	return metrics.StartPromServer(ctx, s.promPort, s.Handlers())
}

// Handlers returns the API routes served next to /metrics.
func (s *Service) Handlers() map[string]http.Handler {
	h := map[string]http.Handler{"/api/teams": teams.NewStatusHandler(s.Teams)}
	if s.store != nil {
		h["/api/dispatch/logs"] = dispatchapi.NewLogHandler(s.store, s.apiToken)
	}
	return h
}

// Close releases the engine, the collector and the publisher, then
// flushes pending monitor events.
func (s *Service) Close() error {
	err := s.Engine.Close()
	s.stop()
	<-s.collector
	if s.paho != nil {
		s.paho.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	s.monitor.Flush(2 * time.Second)
	return err
}
