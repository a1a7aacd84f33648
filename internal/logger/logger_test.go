package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("MYT", 8*60*60)
	l := NewWithWriter(Config{Level: "info", Format: "json", Location: loc}, &buf)

	l.Debug("hidden")
	l.Info("product created", zap.Int64("product_id", 7))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "product created", entry["msg"])
	assert.Equal(t, float64(7), entry["product_id"])
	assert.Contains(t, entry["ts"], "+08:00")
}

func TestFromContext(t *testing.T) {
	t.Run("no logger stored", func(t *testing.T) {
		l := FromContext(context.Background())
		assert.NotNil(t, l)
	})

	t.Run("stored logger with span", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewWithWriter(Config{Level: "info"}, &buf)

		traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
		spanID, _ := trace.SpanIDFromHex("0102030405060708")
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
		ctx := trace.ContextWithSpanContext(WithContext(context.Background(), base), sc)

		FromContext(ctx).Info("hello")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", entry["trace_id"])
		assert.Equal(t, "0102030405060708", entry["span_id"])
	})
}
