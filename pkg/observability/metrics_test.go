package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/procstats/pkg/observability"
)

func setupTestMeter(t *testing.T) (*observability.PipelineMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	pm, err := observability.NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return pm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestPipelineMetrics_RecordSuccess(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t)

	pm.RecordPipeline(context.Background(), "general", 30, "", 5*time.Millisecond)

	rm := collectMetrics(t, reader)

	total := findMetric(rm, "procstats.pipelines.total")
	require.NotNil(t, total)
	assert.Equal(t, int64(1), sumOf(t, total))

	require.NotNil(t, findMetric(rm, "procstats.pipeline.duration.seconds"))
	require.NotNil(t, findMetric(rm, "procstats.sample.size"))
	assert.Nil(t, findMetric(rm, "procstats.pipeline.failures.total"))
}

func TestPipelineMetrics_RecordFailure(t *testing.T) {
	t.Parallel()

	pm, reader := setupTestMeter(t)

	pm.RecordPipeline(context.Background(), "each_fifth", 0, "invalid_input", time.Millisecond)
	pm.RecordPipeline(context.Background(), "each_second", 1, "insufficient_samples", time.Millisecond)

	rm := collectMetrics(t, reader)

	failures := findMetric(rm, "procstats.pipeline.failures.total")
	require.NotNil(t, failures)
	assert.Equal(t, int64(2), sumOf(t, failures))
}

func TestNewPipelineMetrics_WithNoopMeter(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	pm, err := observability.NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotNil(t, pm)

	pm.RecordPipeline(context.Background(), "general", 3, "", time.Millisecond)
}
