package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "info", Format: "json", Output: &buf})

	logger.Info().Str("section", "core").Msg("Non-included section skipped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "core", entry["section"])
	assert.Equal(t, "Non-included section skipped", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "info", Format: "pretty", Output: &buf, NoColor: true})

	logger.Info().Str("output", "build/include.html").Msg("Include file written")

	out := buf.String()
	assert.Contains(t, out, "Include file written")
	assert.Contains(t, out, "output=build/include.html")
	assert.NotContains(t, out, "\x1b[")
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		opts    LoggerOptions
		logAt   func(*Logger)
		written bool
	}{
		{"debug hidden at info", LoggerOptions{Level: "info"}, func(l *Logger) { l.Debug().Msg("x") }, false},
		{"debug shown when verbose", LoggerOptions{Level: "error", Verbose: true}, func(l *Logger) { l.Debug().Msg("x") }, true},
		{"warn shown at warning", LoggerOptions{Level: "warning"}, func(l *Logger) { l.Warn().Msg("x") }, true},
		{"info hidden at error", LoggerOptions{Level: "ERROR"}, func(l *Logger) { l.Info().Msg("x") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Format = "json"
			tt.opts.Output = &buf
			tt.logAt(NewLogger(tt.opts))
			assert.Equal(t, tt.written, buf.Len() > 0)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" Error ", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"", zerolog.InfoLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestLogger_WithComponentAndTask(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "info", Format: "json", Output: &buf})

	logger.WithTask("clone").WithComponent("cloner").Info().Msg("Preprocessor sources cloned")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "clone", entry["task"])
	assert.Equal(t, "cloner", entry["component"])
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.WithComponent("walker").Error().Msg("discarded")
	})
}
