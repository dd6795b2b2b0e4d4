package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/DanielPopoola/idempotency-gateway/internal/config"
)

func TestInitialize_DisabledIsNoop(t *testing.T) {
	tel, err := Initialize(context.Background(), config.TelemetryConfig{}, "test")
	require.NoError(t, err)

	assert.NotNil(t, tel.Meter("test"))
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestInitialize_RequiresServiceName(t *testing.T) {
	_, err := Initialize(context.Background(), config.TelemetryConfig{EnableTracing: true, OTLPEndpoint: "localhost:4317"}, "test")
	assert.ErrorIs(t, err, ErrMissingServiceName)
}

func TestInitialize_RequiresEndpoint(t *testing.T) {
	_, err := Initialize(context.Background(), config.TelemetryConfig{EnableMetrics: true, ServiceName: "gateway"}, "test")
	assert.ErrorIs(t, err, ErrMissingEndpoint)
}

func TestInitialize_WithInjectedExporters(t *testing.T) {
	ctx := context.Background()
	spans := tracetest.NewInMemoryExporter()
	reader := sdkmetric.NewManualReader()

	tel, err := Initialize(ctx, config.TelemetryConfig{
		ServiceName:    "idempotency-gateway",
		ServiceVersion: "test",
		EnableTracing:  true,
		EnableMetrics:  true,
	}, "test", WithTraceExporter(spans), WithMetricReader(reader))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(ctx) })

	counter, err := tel.Meter("test").Int64Counter("probe_total")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)
	assert.Equal(t, "probe_total", rm.ScopeMetrics[0].Metrics[0].Name)
}
