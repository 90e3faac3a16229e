package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/rescue/core/metrics"
	"github.com/kilianp07/rescue/infra/logger"
)

// InfluxSink writes dispatch outcomes to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordOutcomes writes one zone_outcome point per processed zone.
func (s *InfluxSink) RecordOutcomes(recs []coremetrics.OutcomeRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range recs {
		o := r.Outcome
		p := write.NewPointWithMeasurement("zone_outcome").
			AddTag("pass_id", r.PassID).
			AddTag("outcome", o.Kind.String()).
			AddTag("zone", o.Zone)
		if o.TeamID != "" {
			p = p.AddTag("team_id", o.TeamID)
		}
		p = p.AddField("severity", o.Severity).
			AddField("distance", o.Distance).
			AddField("hops", max(len(o.Path)-1, 0)).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordPass persists the totals of a pass.
func (s *InfluxSink) RecordPass(ps coremetrics.PassSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_pass").
		AddTag("pass_id", ps.PassID).
		AddField("dispatched", ps.Dispatched).
		AddField("unassigned", ps.Unassigned).
		AddField("unavailable", ps.Unavailable).
		AddField("duration_ms", float64(ps.Duration.Microseconds())/1000).
		SetTime(ps.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFleet writes where the teams stand after a pass.
func (s *InfluxSink) RecordFleet(f coremetrics.FleetSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_state").
		AddField("teams", f.Teams).
		AddField("at_base", f.AtBase).
		AddField("deployed", f.Deployed).
		AddField("open_areas", f.OpenAreas).
		SetTime(f.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEvent writes a bus event.
func (s *InfluxSink) RecordEvent(ev coremetrics.EventRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("dispatch_event").
		AddTag("pass_id", ev.PassID).
		AddTag("type", ev.Type)
	if ev.TeamID != "" {
		p = p.AddTag("team_id", ev.TeamID)
	}
	if ev.Zone != "" {
		p = p.AddTag("zone", ev.Zone)
	}
	p = p.AddField("severity", ev.Severity).
		AddField("distance", ev.Distance).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close flushes and releases the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
