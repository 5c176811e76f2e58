package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nctirs/nctirs-stack/common/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		isJSON bool
	}{
		{name: "json", format: "json", isJSON: true},
		{name: "text", format: "text", isJSON: false},
		{name: "upper-case text", format: "TEXT", isJSON: false},
		{name: "empty defaults to json", format: "", isJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, slog.LevelInfo, tt.format)
			logger.Info("hello", Endpoint("threats"))

			line := strings.TrimSpace(buf.String())
			require.NotEmpty(t, line)

			var decoded map[string]any
			err := json.Unmarshal([]byte(line), &decoded)
			if tt.isJSON {
				require.NoError(t, err)
				assert.Equal(t, "hello", decoded["msg"])
				assert.Equal(t, "threats", decoded[FieldEndpoint])
			} else {
				assert.Error(t, err)
				assert.Contains(t, line, "endpoint=threats")
			}
		})
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelWarn, "json")

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestWithContext(t *testing.T) {
	tests := []struct {
		name  string
		ctx   context.Context
		reqID string
	}{
		{
			name:  "context with request ID",
			ctx:   context.WithValue(context.Background(), middleware.RequestIDKey, "req-123"),
			reqID: "req-123",
		},
		{
			name: "context without request ID",
			ctx:  context.Background(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&buf, slog.LevelDebug, "json")

			logger.InfoContext(tt.ctx, "served")

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
			if tt.reqID != "" {
				assert.Equal(t, tt.reqID, decoded[FieldRequestID])
			} else {
				assert.NotContains(t, decoded, FieldRequestID)
			}
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelInfo, "json").With(Service("telemetry"))

	logger.Info("started")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "telemetry", decoded[FieldService])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestDefault(t *testing.T) {
	logger := Default()
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}
