package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corelogger "github.com/kilianp07/rescue/core/logger"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test", corelogger.DebugLevel)
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerTo(&buf, "dispatch", corelogger.WarnLevel)
	l.Infof("hidden")
	l.Warnf("zone %s unassigned", "A")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "dispatch", rec["component"])
	assert.Equal(t, "zone A unassigned", rec["message"])
	assert.Equal(t, "warn", rec["level"])
}

func TestLogrusLoggerStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogrusLoggerTo(&buf, "registry", corelogger.DebugLevel)
	l.Debugw("team moved", map[string]any{"team": "T1", "to": "B"})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "registry", rec["component"])
	assert.Equal(t, "T1", rec["team"])
	assert.Equal(t, "B", rec["to"])
	assert.Equal(t, "team moved", rec["msg"])
}

func TestNewSelectsBackend(t *testing.T) {
	t.Setenv("LOG_BACKEND", "logrus")
	if _, ok := New("x").(*LogrusLogger); !ok {
		t.Fatalf("expected logrus backend")
	}
	t.Setenv("LOG_BACKEND", "")
	if _, ok := New("x").(*ZerologLogger); !ok {
		t.Fatalf("expected zerolog backend")
	}
}
