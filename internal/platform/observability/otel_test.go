package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for raw, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")

	s, err := SettingsFromEnv("rescue-api")
	require.NoError(t, err)
	require.Equal(t, "rescue-api", s.ServiceName)
	require.Equal(t, "staging", s.Environment)
	require.Equal(t, slog.LevelDebug, s.LogLevel)
	require.Equal(t, "text", s.LogFormat)
	require.Equal(t, "collector:4318", s.OTLPEndpoint)
	require.False(t, s.OTLPInsecure)

	t.Setenv("LOG_FORMAT", "xml")
	_, err = SettingsFromEnv("rescue-api")
	require.Error(t, err)
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Settings{LogLevel: slog.LevelWarn, LogFormat: "json"})

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept", slog.String("error.code", "no_seats"))
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "no_seats", line["error.code"])
}
