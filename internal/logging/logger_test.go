package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "parking-lot-test", "production")

	Info(context.Background(), "lot created", "capacity", 6)
	Debug(context.Background(), "hidden below info")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "lot created", rec["msg"])
	assert.Equal(t, "parking-lot-test", rec["service"])
	assert.Equal(t, "production", rec["environment"])
	assert.EqualValues(t, 6, rec["capacity"])
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "parking-lot-test", "development")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	Warn(ctx, "slot already vacant", "slot", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["traceId"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["spanId"])
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestFanoutKeepsWritingPastAFailingHandler(t *testing.T) {
	var buf bytes.Buffer
	jsonHandler := slog.NewJSONHandler(&buf, nil)
	l := slog.New(fanout{failingHandler{jsonHandler}, jsonHandler})

	l.Info("slot vacated", "slot", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.EqualValues(t, 2, rec["slot"])

	err := fanout{failingHandler{jsonHandler}}.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))
	assert.EqualError(t, err, "sink down")
}

func TestWithoutSpanOmitsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "parking-lot-test", "production")

	Error(context.Background(), "no span here")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "traceId")
	assert.Equal(t, "ERROR", rec["level"])
}
