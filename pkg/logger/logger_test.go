package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestHandler_AddsRequestAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "json", &slog.HandlerOptions{Level: slog.LevelDebug}))

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "borrowing.create")
	defer span.End()
	ctx = WithRequestID(ctx, "req-1")

	log.With("component", "borrowing").InfoContext(ctx, "借阅创建成功", "borrowing_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, "borrowing", entry["component"])
	assert.EqualValues(t, 7, entry["borrowing_id"])
}

func TestHandler_NoContextFields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, "json", nil))

	log.Info("plain")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "trace_id")
}

func TestNew_Level(t *testing.T) {
	_, _, err := New(Options{Level: "verbose"})
	assert.Error(t, err)

	l, closer, err := New(Options{Level: "warn", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	defer closer()
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))
}
