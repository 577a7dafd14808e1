package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewWithWriter_EmitsJSONWithServiceName(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("autostyle-api", "info", &buf)

	l.Info("server started", slog.Int("port", 3000))

	entry := logLine(t, &buf)
	assert.Equal(t, "autostyle-api", entry["service"])
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, float64(3000), entry["port"])
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("autostyle-api", "warn", &buf)

	l.Info("should be dropped")
	assert.Zero(t, buf.Len())

	l.Warn("should be kept")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("autostyle-api", "verbose", &buf)

	l.Debug("should be dropped")
	assert.Zero(t, buf.Len())

	l.Info("should be kept")
	assert.NotZero(t, buf.Len())
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-42")
	assert.Equal(t, "corr-42", CorrelationIDFromContext(ctx))
}

func TestCorrelationID_MissingReturnsEmpty(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestUserID_RoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "7")
	assert.Equal(t, "7", UserIDFromContext(ctx))
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))
}

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("autostyle-api", "info", &buf)
	ctx := NewContext(context.Background(), l)

	assert.Equal(t, l, FromContext(ctx))
}

func TestWithContext_AddsCorrelationAndUserID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("autostyle-api", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-99")
	ctx = WithUserID(ctx, "12")

	WithContext(ctx, l).Info("handling request")

	entry := logLine(t, &buf)
	assert.Equal(t, "corr-99", entry["correlation_id"])
	assert.Equal(t, "12", entry["user_id"])
}

func TestWithContext_NoContextValues_AddsNothing(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("autostyle-api", "info", &buf)

	WithContext(context.Background(), l).Info("plain")

	entry := logLine(t, &buf)
	assert.NotContains(t, entry, "correlation_id")
	assert.NotContains(t, entry, "user_id")
	assert.NotContains(t, entry, "trace_id")
}
