package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	require.NotNil(t, p.Metrics())
	assert.NoError(t, p.Shutdown(context.Background()))

	// No-op recorder must be safe to use.
	p.Metrics().RecordModelCall(context.Background(), "m", time.Second, true)
	p.Metrics().RecordToolInvocation(context.Background(), "t", time.Second, false)
}

func TestNewProviderExporterNone(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Enabled: true, MetricsExporter: ExporterNone})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
}

func TestMetricsRecording(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordModelCall(ctx, "gemini-2.0-flash", 250*time.Millisecond, true)
	m.RecordToolInvocation(ctx, "get_weather", 50*time.Millisecond, true)
	m.RecordToolInvocation(ctx, "send_email", 20*time.Millisecond, false)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	assert.True(t, names["model_calls_total"])
	assert.True(t, names["model_call_duration_seconds"])
	assert.True(t, names["tool_invocations_total"])
	assert.True(t, names["tool_duration_seconds"])
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("INSTRUMENTATION_METRICS_EXPORTER", "none")
	t.Setenv("INSTRUMENTATION_EXPORT_INTERVAL", "5s")

	cfg := ConfigFromEnv("1.2.3")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, ExporterNone, cfg.MetricsExporter)
	assert.Equal(t, 5*time.Second, cfg.ExportInterval)
	assert.Equal(t, "gale", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "")
	t.Setenv("INSTRUMENTATION_METRICS_EXPORTER", "")
	t.Setenv("INSTRUMENTATION_EXPORT_INTERVAL", "")

	cfg := ConfigFromEnv("dev")
	assert.False(t, cfg.Enabled)
	assert.Equal(t, ExporterStdout, cfg.MetricsExporter)
	assert.Equal(t, 60*time.Second, cfg.ExportInterval)
}
