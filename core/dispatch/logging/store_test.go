package logging

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/rescue/core/model"
)

func sampleRecord(pass string, ts time.Time) LogRecord {
	return LogRecord{
		Timestamp: ts,
		PassID:    pass,
		Outcomes: []model.Outcome{
			{Kind: model.OutcomeDispatched, Zone: "B", Severity: 9, TeamID: "T1", From: model.Base, Path: []string{model.Base, "A", "B"}, Distance: 2},
			{Kind: model.OutcomeUnassigned, Zone: "A", Severity: 3},
		},
		Areas: []model.AreaSnapshot{{Name: model.Base}, {Name: "A", Severity: 3}, {Name: "B"}},
		Teams: []model.TeamSnapshot{{ID: "T1", Location: "B"}},
	}
}

func TestLogRecordMatches(t *testing.T) {
	now := time.Now()
	rec := sampleRecord("p1", now)
	tests := []struct {
		name string
		q    LogQuery
		want bool
	}{
		{"empty", LogQuery{}, true},
		{"before start", LogQuery{Start: now.Add(time.Second)}, false},
		{"after end", LogQuery{End: now.Add(-time.Second)}, false},
		{"window", LogQuery{Start: now.Add(-time.Second), End: now.Add(time.Second)}, true},
		{"pass", LogQuery{PassID: "p1"}, true},
		{"other pass", LogQuery{PassID: "p2"}, false},
		{"team", LogQuery{TeamID: "T1"}, true},
		{"other team", LogQuery{TeamID: "T2"}, false},
		{"unassigned zone", LogQuery{Zone: "A"}, true},
		{"missing zone", LogQuery{Zone: "C"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rec.Matches(tt.q))
		})
	}
}

func exerciseStore(t *testing.T, s LogStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0).UTC()
	require.NoError(t, s.Append(ctx, sampleRecord("p1", base)))
	second := sampleRecord("p2", base.Add(time.Minute))
	second.Outcomes = []model.Outcome{{Kind: model.OutcomeUnassigned, Zone: "C", Severity: 1}}
	require.NoError(t, s.Append(ctx, second))

	all, err := s.Query(ctx, LogQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].PassID)
	assert.Equal(t, []string{model.Base, "A", "B"}, all[0].Outcomes[0].Path)
	assert.True(t, all[0].Timestamp.Equal(base))

	byTeam, err := s.Query(ctx, LogQuery{TeamID: "T1"})
	require.NoError(t, err)
	require.Len(t, byTeam, 1)
	assert.Equal(t, "p1", byTeam[0].PassID)

	byTime, err := s.Query(ctx, LogQuery{Start: base.Add(30 * time.Second)})
	require.NoError(t, err)
	require.Len(t, byTime, 1)
	assert.Equal(t, "p2", byTime[0].PassID)

	byPass, err := s.Query(ctx, LogQuery{PassID: "p2", Zone: "C"})
	require.NoError(t, err)
	assert.Len(t, byPass, 1)
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "passes.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "logs", "passes.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "passes.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestAppendCanceled(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "passes.jsonl"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Append(ctx, sampleRecord("p1", time.Now())), context.Canceled)
}

func TestConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, "jsonl", c.Backend)
	assert.Equal(t, "dispatch.log", c.Path)
	require.NoError(t, c.Validate())

	assert.Error(t, Config{Backend: "csv", Path: "x"}.Validate())
	assert.Error(t, Config{Backend: "sqlite"}.Validate())
	assert.Error(t, Config{Backend: "jsonl", Path: "x", MaxSizeMB: -1}.Validate())
	assert.NoError(t, Config{Backend: "none"}.Validate())
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(Config{Backend: "jsonl", Path: filepath.Join(dir, "a.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)

	s, err = NewStore(Config{Backend: "jsonl", Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 5})
	require.NoError(t, err)
	assert.IsType(t, &RotatingJSONLStore{}, s)
	require.NoError(t, s.Close())

	s, err = NewStore(Config{Backend: "sqlite", Path: filepath.Join(dir, "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = NewStore(Config{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)
}
