package common

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	inner := errors.New("disk full")
	err := NewUserError("Could not save report", inner)

	assert.Equal(t, "Could not save report: disk full", err.Error())
	require.ErrorIs(t, err, inner)
	assert.Equal(t, "Could not save report", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "only message", (&UserError{UserMessage: "only message"}).Error())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "json")
	logger.Debug("hidden")
	logger.Info("shown", "attempt_id", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"attempt_id":"abc"`)

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, "text").Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
