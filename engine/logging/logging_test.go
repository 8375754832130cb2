package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", false, &buf)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logger.Info().Str("mesh", "arrow.obj").Msg("mesh loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "arrow.obj", entry["mesh"])
	assert.Equal(t, "mesh loaded", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in, false, &bytes.Buffer{}).GetLevel())
		})
	}

	var buf bytes.Buffer
	warnLogger := New("warn", false, &buf)
	warnLogger.Info().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	consoleLogger := New("info", true, &buf)
	consoleLogger.Warn().Str("color", "Arrow3D").Msg("palette has no entry")

	out := buf.String()
	assert.Contains(t, out, "palette has no entry")
	assert.Contains(t, out, "color=")
	assert.False(t, json.Valid(buf.Bytes()))
}
