package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescue/core/dispatch/logging"
	"github.com/kilianp07/rescue/core/events"
	"github.com/kilianp07/rescue/core/graph"
	"github.com/kilianp07/rescue/core/metrics"
	"github.com/kilianp07/rescue/core/model"
	"github.com/kilianp07/rescue/core/registry"
	mqttpub "github.com/kilianp07/rescue/infra/mqtt"
	"github.com/kilianp07/rescue/internal/eventbus"
)

type area struct {
	name     string
	severity int
}

func build(t *testing.T, areas []area, edges []model.Edge, teams ...string) (*graph.AreaGraph, *registry.Registry) {
	t.Helper()
	g := graph.New()
	for _, a := range areas {
		require.NoError(t, g.AddArea(a.name, a.severity))
	}
	for _, e := range edges {
		require.NoError(t, g.ConnectAreas(e.From, e.To, e.Distance))
	}
	reg := registry.New()
	for _, id := range teams {
		require.NoError(t, reg.AddTeam(id))
	}
	return g, reg
}

func severities(g *graph.AreaGraph) map[string]int {
	res := map[string]int{}
	for a := range g.Areas() {
		res[a.Name] = a.Severity
	}
	return res
}

type mockSink struct{ mock.Mock }

func (m *mockSink) RecordOutcomes(r []metrics.OutcomeRecord) error {
	return m.Called(r).Error(0)
}

func (m *mockSink) RecordPass(p metrics.PassSummary) error {
	return m.Called(p).Error(0)
}

type recordingMonitor struct {
	errs []error
	tags []map[string]string
}

func (r *recordingMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}

func (r *recordingMonitor) Flush(time.Duration) {}

func TestDispatchTwoZonesOneTeam(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 5}, {"B", 8}},
		[]model.Edge{{From: model.Base, To: "A", Distance: 10}, {From: "A", To: "B", Distance: 5}},
		"T1")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 2)

	first := res.Outcomes[0]
	assert.Equal(t, model.OutcomeDispatched, first.Kind)
	assert.Equal(t, "B", first.Zone)
	assert.Equal(t, "T1", first.TeamID)
	assert.Equal(t, model.Base, first.From)
	assert.Equal(t, []string{model.Base, "A", "B"}, first.Path)
	assert.Equal(t, 15, first.Distance)

	second := res.Outcomes[1]
	assert.Equal(t, model.OutcomeDispatched, second.Kind)
	assert.Equal(t, "A", second.Zone)
	assert.Equal(t, "B", second.From)
	assert.Equal(t, []string{"B", "A"}, second.Path)
	assert.Equal(t, 5, second.Distance)

	assert.Equal(t, map[string]int{model.Base: 0, "A": 0, "B": 0}, severities(g))
	team, ok := reg.Get("T1")
	require.True(t, ok)
	assert.Equal(t, "A", team.Location)
	assert.False(t, team.Busy)
	assert.Equal(t, 2, res.Dispatched())
	assert.NotEmpty(t, res.ID)
	assert.False(t, res.Finished.Before(res.Started))
}

func TestDispatchWithoutTeams(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 2}, {"B", 7}, {"C", 0}},
		[]model.Edge{{From: model.Base, To: "A", Distance: 1}, {From: "A", To: "B", Distance: 1}})
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.Equal(t, model.OutcomeUnassigned, o.Kind)
	}
	assert.Equal(t, []string{"B", "A"}, []string{res.Outcomes[0].Zone, res.Outcomes[1].Zone})
	assert.Equal(t, map[string]int{model.Base: 0, "A": 2, "B": 7, "C": 0}, severities(g))
}

func TestSeverityOrderAndTieBreak(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 4}, {"B", 9}, {"C", 4}, {"D", 1}},
		[]model.Edge{
			{From: model.Base, To: "A", Distance: 1},
			{From: model.Base, To: "B", Distance: 1},
			{From: model.Base, To: "C", Distance: 1},
			{From: model.Base, To: "D", Distance: 1},
		})
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	var zones []string
	for _, o := range res.Outcomes {
		zones = append(zones, o.Zone)
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, zones)
}

func TestBaseTeamPreferredOverCloserDeployedTeam(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 9}, {"B", 5}},
		[]model.Edge{{From: model.Base, To: "A", Distance: 100}, {From: model.Base, To: "B", Distance: 100}, {From: "A", To: "B", Distance: 1}},
		"T1", "T2")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, "T1", res.Outcomes[0].TeamID)
	assert.Equal(t, "T2", res.Outcomes[1].TeamID)
	assert.Equal(t, 100, res.Outcomes[1].Distance)
}

func TestNearestDeployedTeam(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 1}, {"B", 1}, {"C", 1}},
		[]model.Edge{
			{From: model.Base, To: "A", Distance: 1},
			{From: model.Base, To: "B", Distance: 1},
			{From: "A", To: "C", Distance: 10},
			{From: "B", To: "C", Distance: 3},
		},
		"T1", "T2")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)
	// Deploy both teams first: T1 to A, T2 to B.
	require.NoError(t, reg.Relocate("T1", "A"))
	require.NoError(t, reg.Relocate("T2", "B"))
	require.NoError(t, g.SetSeverity("A", 0))
	require.NoError(t, g.SetSeverity("B", 0))

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "T2", res.Outcomes[0].TeamID)
	assert.Equal(t, []string{"B", "C"}, res.Outcomes[0].Path)
}

func TestUnreachableDeployedTeamLeavesZoneUnassigned(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 5}, {"Z", 3}},
		[]model.Edge{{From: model.Base, To: "A", Distance: 2}},
		"T1")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, model.OutcomeDispatched, res.Outcomes[0].Kind)
	assert.Equal(t, model.OutcomeUnassigned, res.Outcomes[1].Kind)
	assert.Equal(t, "Z", res.Outcomes[1].Zone)
	sev, err := g.SeverityOf("Z")
	require.NoError(t, err)
	assert.Equal(t, 3, sev)
}

func TestBaseTeamWithoutRoute(t *testing.T) {
	g, reg := build(t, []area{{"Island", 4}}, nil, "T1")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 1)
	out := res.Outcomes[0]
	assert.Equal(t, model.OutcomeRouteUnavailable, out.Kind)
	assert.Equal(t, "T1", out.TeamID)
	assert.Equal(t, model.Base, out.From)
	assert.Equal(t, 1, res.Unavailable())
	sev, _ := g.SeverityOf("Island")
	assert.Equal(t, 4, sev)
	team, _ := reg.Get("T1")
	assert.Equal(t, model.Base, team.Location)
}

func TestNoTeamAssignedTwiceBeforeUpdate(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 3}, {"B", 2}, {"C", 1}},
		[]model.Edge{
			{From: model.Base, To: "A", Distance: 1},
			{From: "A", To: "B", Distance: 1},
			{From: "B", To: "C", Distance: 1},
		},
		"T1", "T2")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 3)
	// Each dispatch departs from where the previous one left the team.
	at := map[string]string{"T1": model.Base, "T2": model.Base}
	for _, o := range res.Outcomes {
		require.Equal(t, model.OutcomeDispatched, o.Kind)
		assert.Equal(t, at[o.TeamID], o.From)
		at[o.TeamID] = o.Zone
	}
	assert.Equal(t, []string{"T1", "T2", "T2"}, []string{res.Outcomes[0].TeamID, res.Outcomes[1].TeamID, res.Outcomes[2].TeamID})
}

func TestSecondPassIsEmpty(t *testing.T) {
	g, reg := build(t, []area{{"A", 1}}, []model.Edge{{From: model.Base, To: "A", Distance: 1}}, "T1")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)
	eng.DispatchAll(context.Background())
	res := eng.DispatchAll(context.Background())
	assert.Empty(t, res.Outcomes)
	assert.Len(t, eng.History(), 2)
}

func TestSummary(t *testing.T) {
	g, reg := build(t, []area{{"A", 5}}, []model.Edge{{From: model.Base, To: "A", Distance: 1}}, "T1", "T2")
	eng, err := NewEngine(g, reg)
	require.NoError(t, err)
	eng.DispatchAll(context.Background())

	sum := eng.Summary()
	assert.Equal(t, []model.AreaSnapshot{{Name: model.Base}, {Name: "A"}}, sum.Areas)
	assert.Equal(t, []model.TeamSnapshot{{ID: "T1", Location: "A"}, {ID: "T2", Location: model.Base}}, sum.Teams)
	want := "--- Area Summary ---\nbase: Severity 0\nA: Severity 0\n\n--- Rescue Teams ---\nTeam T1 at A\nTeam T2 at base\n"
	assert.Equal(t, want, sum.String())
}

func TestNewEngineRejectsNil(t *testing.T) {
	_, err := NewEngine(nil, registry.New())
	assert.Error(t, err)
	_, err = NewEngine(graph.New(), nil)
	assert.Error(t, err)
}

func TestSinksReceivePass(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 5}, {"Z", 1}},
		[]model.Edge{{From: model.Base, To: "A", Distance: 4}},
		"T1")

	pub := mqttpub.NewMockPublisher()

	sink := &mockSink{}
	sink.On("RecordOutcomes", mock.MatchedBy(func(r []metrics.OutcomeRecord) bool { return len(r) == 2 })).Return(nil).Once()
	sink.On("RecordPass", mock.MatchedBy(func(p metrics.PassSummary) bool {
		return p.Dispatched == 1 && p.Unassigned == 1
	})).Return(nil).Once()

	bus := eventbus.NewWithBuffer[events.Event](8)
	sub := bus.Subscribe()

	store, err := logging.NewJSONLStore(filepath.Join(t.TempDir(), "passes.jsonl"))
	require.NoError(t, err)

	eng, err := NewEngine(g, reg,
		WithPublisher(pub),
		WithMetrics(sink),
		WithBus(bus),
		WithLogStore(store),
	)
	require.NoError(t, err)
	res := eng.DispatchAll(context.Background())

	sent := pub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, res.ID, sent[0].PassID)
	assert.Equal(t, "T1", sent[0].TeamID)
	assert.Equal(t, "A", sent[0].Zone)
	assert.Equal(t, 4, sent[0].Distance)
	assert.Equal(t, []string{model.Base, "A"}, sent[0].Path)
	sink.AssertExpectations(t)

	var got []events.Event
	for len(got) < 3 {
		select {
		case ev := <-sub:
			got = append(got, ev)
		case <-time.After(time.Second):
			t.Fatalf("expected 3 events, got %d", len(got))
		}
	}
	assert.IsType(t, events.DispatchedEvent{}, got[0])
	assert.IsType(t, events.UnassignedEvent{}, got[1])
	done, ok := got[2].(events.PassCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, res.ID, done.PassID())
	assert.Equal(t, 1, done.Dispatched)

	recs, err := store.Query(context.Background(), logging.LogQuery{PassID: res.ID})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, res.Outcomes, recs[0].Outcomes)
	assert.Equal(t, []model.TeamSnapshot{{ID: "T1", Location: "A"}}, recs[0].Teams)
	require.NoError(t, eng.Close())
}

func TestSinkFailuresDoNotAbortPass(t *testing.T) {
	g, reg := build(t,
		[]area{{"A", 5}, {"B", 3}},
		[]model.Edge{{From: model.Base, To: "A", Distance: 1}, {From: model.Base, To: "B", Distance: 1}},
		"T1", "T2")

	pub := mqttpub.NewMockPublisher()
	pub.FailTeams["T1"] = true
	pub.FailTeams["T2"] = true
	sink := &mockSink{}
	sink.On("RecordOutcomes", mock.Anything).Return(errors.New("sink down"))
	sink.On("RecordPass", mock.Anything).Return(nil)
	mon := &recordingMonitor{}

	eng, err := NewEngine(g, reg, WithPublisher(pub), WithMetrics(sink), WithMonitor(mon))
	require.NoError(t, err)
	res := eng.DispatchAll(context.Background())

	assert.Equal(t, 2, res.Dispatched())
	assert.Empty(t, pub.Sent())
	require.Len(t, mon.errs, 3)
	assert.Equal(t, "publisher", mon.tags[0]["sink"])
	assert.Equal(t, "metrics", mon.tags[2]["sink"])
	assert.Equal(t, res.ID, mon.tags[2]["pass_id"])
}

func TestCanceledContextSkipsOrdersOnly(t *testing.T) {
	g, reg := build(t, []area{{"A", 5}}, []model.Edge{{From: model.Base, To: "A", Distance: 1}}, "T1")
	pub := mqttpub.NewMockPublisher()
	eng, err := NewEngine(g, reg, WithPublisher(pub))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := eng.DispatchAll(ctx)
	assert.Equal(t, 1, res.Dispatched())
	assert.Empty(t, pub.Sent())
}

type fixedSelector struct{ team model.TeamSnapshot }

func (f fixedSelector) Select(string) (model.TeamSnapshot, bool) { return f.team, f.team.ID != "" }

func TestCustomSelector(t *testing.T) {
	g, reg := build(t, []area{{"A", 5}}, []model.Edge{{From: model.Base, To: "A", Distance: 1}}, "T1", "T2")
	eng, err := NewEngine(g, reg, WithSelector(fixedSelector{team: model.TeamSnapshot{ID: "T2", Location: model.Base}}))
	require.NoError(t, err)
	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "T2", res.Outcomes[0].TeamID)
}

func TestFailedAssignmentLeavesZoneOpen(t *testing.T) {
	g, reg := build(t, []area{{"A", 5}}, []model.Edge{{From: model.Base, To: "A", Distance: 1}}, "T1")
	pub := mqttpub.NewMockPublisher()
	bus := eventbus.NewWithBuffer[events.Event](4)
	sub := bus.Subscribe()
	// The selector hands out a team the registry does not know.
	eng, err := NewEngine(g, reg,
		WithSelector(fixedSelector{team: model.TeamSnapshot{ID: "ghost", Location: model.Base}}),
		WithPublisher(pub),
		WithBus(bus),
	)
	require.NoError(t, err)

	res := eng.DispatchAll(context.Background())
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, model.Outcome{Kind: model.OutcomeUnassigned, Zone: "A", Severity: 5}, res.Outcomes[0])
	assert.Equal(t, 5, severities(g)["A"])
	assert.Empty(t, pub.Sent())
	assert.IsType(t, events.UnassignedEvent{}, <-sub)

	team, ok := reg.Get("T1")
	require.True(t, ok)
	assert.Equal(t, model.TeamSnapshot{ID: "T1", Location: model.Base}, team)
}
