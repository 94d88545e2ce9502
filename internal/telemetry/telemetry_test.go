package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_Disabled(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, tel.Tracer("test"))
	assert.NotNil(t, tel.Meter("test"))
	assert.False(t, tel.IsEnabled())
	assert.Equal(t, HealthStatus{Healthy: true}, tel.Health())
	assert.NoError(t, tel.ForceFlush(context.Background()))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNew_InvalidConfig(t *testing.T) {
	tel, err := New(context.Background(), &Config{Enabled: true})
	require.Error(t, err)
	assert.Nil(t, tel)
	assert.Contains(t, err.Error(), "invalid telemetry config")
}

func TestNew_WithInjectedExporters(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Enabled = true

	exporter := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()

	tel, err := New(context.Background(), cfg, WithTraceExporter(exporter), WithMetricReader(reader))
	require.NoError(t, err)
	assert.True(t, tel.IsEnabled())
	assert.False(t, tel.Health().Degraded)

	_, span := tel.Tracer("payplan/test").Start(context.Background(), "extraction.Extract")
	span.End()

	require.NoError(t, tel.ForceFlush(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "extraction.Extract", spans[0].Name)

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.False(t, tel.Health().Healthy)
}

func TestTelemetry_NilSafe(t *testing.T) {
	var tel *Telemetry

	assert.NotNil(t, tel.Tracer("x"))
	assert.NotNil(t, tel.Meter("x"))
	assert.Nil(t, tel.LoggerProvider())
	tel.SetLoggerProvider(nil)
	assert.False(t, tel.IsEnabled())
	assert.True(t, tel.Health().Degraded)
	assert.NoError(t, tel.Shutdown(context.Background()))
	assert.NoError(t, tel.ForceFlush(context.Background()))
}

func TestTelemetry_SetDegraded(t *testing.T) {
	tel, err := New(context.Background(), NewDefaultConfig())
	require.NoError(t, err)

	tel.setDegraded("tracer provider failed: %s", "dial refused")
	health := tel.Health()
	assert.True(t, health.Degraded)
	assert.Equal(t, "tracer provider failed: dial refused", health.Reason)
}

func TestTestTelemetry(t *testing.T) {
	tt := NewTestTelemetry()
	ctx := context.Background()

	_, span := tt.Tracer("payplan/test").Start(ctx, "block")
	span.SetAttributes(
		attribute.Int("items", 2),
		attribute.Bool("cache.hit", false),
		attribute.String("locale", "US"),
	)
	span.End()

	tt.AssertSpanExists(t, "block")
	tt.AssertSpanAttribute(t, "block", "items", int64(2))
	tt.AssertSpanAttribute(t, "block", "cache.hit", false)
	tt.AssertSpanAttribute(t, "block", "locale", "US")
	assert.Nil(t, tt.SpanByName("missing"))

	counter, err := tt.Meter("payplan/test").Int64Counter("payplan.test.count")
	require.NoError(t, err)
	counter.Add(ctx, 3)
	counter.Add(ctx, 4, metricAttrs("provider", "Klarna"))

	assert.Equal(t, int64(7), tt.CounterValue(t, "payplan.test.count"))
	assert.Zero(t, tt.CounterValue(t, "payplan.other"))
}

func metricAttrs(k, v string) metric.AddOption {
	return metric.WithAttributes(attribute.String(k, v))
}
