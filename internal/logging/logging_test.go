package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInitJSONCarriesSession(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	session := InitWriter(&buf, true, slog.LevelInfo)

	_, err := uuid.Parse(session)
	require.NoError(t, err, "session should be a UUID")

	slog.Info("test message", "key", "value")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), "output: %s", buf.String())
	assert.Equal(t, "test message", m["msg"])
	assert.Equal(t, "value", m["key"])
	assert.Equal(t, session, m["session"])
}

func TestInitTextRespectsLevel(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	InitWriter(&buf, false, slog.LevelWarn)

	slog.Info("hidden")
	slog.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "key=value")
}

func TestSessionsDiffer(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	a := InitWriter(&buf, false, slog.LevelInfo)
	b := InitWriter(&buf, false, slog.LevelInfo)
	assert.NotEqual(t, a, b)
}
