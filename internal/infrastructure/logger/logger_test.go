package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), tt.input)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Int64("entry_number", 7).Msg("journal entry posted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "journal entry posted", record["message"])
	assert.Equal(t, "agentledger", record["service"])
	assert.EqualValues(t, 7, record["entry_number"])
	assert.Contains(t, record, "time")
	assert.Contains(t, record, "caller")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "console", Output: &buf})

	log.Debug().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestRequestLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf})
	fallback := zerolog.Nop()

	ctx := WithRequestID(context.Background(), base, "req-42")
	reqLog := FromContext(ctx, fallback)
	reqLog.Info().Msg("handled")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	// Without a stored logger the fallback is used.
	buf.Reset()
	plainLog := FromContext(context.Background(), base)
	plainLog.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "request_id")
}
