package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/procstats/pkg/chart"
	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
	"github.com/Sumatoshi-tech/procstats/pkg/observability"
	"github.com/Sumatoshi-tech/procstats/pkg/pipeline"
	"github.com/Sumatoshi-tech/procstats/pkg/population"
	"github.com/Sumatoshi-tech/procstats/pkg/sampling"
)

// recordingRenderer remembers every path it was asked to render.
type recordingRenderer struct {
	mu    sync.Mutex
	paths []string
	fail  map[string]error
}

func (r *recordingRenderer) Render(points []frequency.Point, outputPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(points) == 0 {
		return chart.ErrNoPoints
	}

	if err, ok := r.fail[filepath.Base(outputPath)]; ok {
		return err
	}

	r.paths = append(r.paths, outputPath)

	return nil
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i%4 + 1)
	}

	return out
}

func TestRunner_AllViewsSucceed(t *testing.T) {
	t.Parallel()

	png := &recordingRenderer{}
	runner := &pipeline.Runner{Workers: 4, Precision: frequency.ExactPrecision, OutputDir: "out", PNG: png}

	results, err := runner.Run(context.Background(), sampling.Views(seq(20)))
	require.NoError(t, err)
	require.Len(t, results, 4)

	names := make([]string, len(results))
	for i, res := range results {
		require.True(t, res.OK(), "view %s: %v", res.View.Name, res.Err)
		require.NoError(t, res.ChartErr)
		assert.Equal(t, res.Population.Len(), sumCounts(res.Frequencies))

		names[i] = res.View.Name
	}

	assert.Equal(t, []string{
		sampling.ViewGeneral, sampling.ViewEachSecond, sampling.ViewEachFifth, sampling.ViewEachFifthFromSecond,
	}, names)

	assert.ElementsMatch(t, []string{
		filepath.Join("out", "general_frequency_range.png"),
		filepath.Join("out", "each_second_frequency_range.png"),
		filepath.Join("out", "each_fifth_frequency_range.png"),
		filepath.Join("out", "each_fifth_from_second_frequency_range.png"),
	}, png.paths)
}

func sumCounts(points []frequency.Point) int {
	total := 0
	for _, p := range points {
		total += p.Count
	}

	return total
}

func TestRunner_DegenerateViewIsIsolated(t *testing.T) {
	t.Parallel()

	// Seven values: every-5th has one value, every-5th-from-2nd has one value.
	values := []float64{1, 2, 3, 4, 5, 6, 7}

	png := &recordingRenderer{}
	runner := &pipeline.Runner{Workers: 2, Precision: frequency.ExactPrecision, PNG: png}

	results, err := runner.Run(context.Background(), sampling.Views(values))
	require.NoError(t, err)

	assert.True(t, results[0].OK())
	assert.True(t, results[1].OK())

	require.ErrorIs(t, results[2].Err, population.ErrInsufficientSamples)
	assert.Contains(t, results[2].Err.Error(), sampling.ViewEachFifth)
	assert.Nil(t, results[2].Population)

	require.ErrorIs(t, results[3].Err, population.ErrInsufficientSamples)

	assert.Len(t, png.paths, 2)
}

func TestRunner_EmptyViewYieldsInvalidInput(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3}

	results, err := (&pipeline.Runner{Workers: 1}).Run(context.Background(), sampling.Views(values))
	require.NoError(t, err)

	assert.True(t, results[0].OK())
	assert.False(t, results[1].OK())
	require.ErrorIs(t, results[1].Err, population.ErrInsufficientSamples)
	require.ErrorIs(t, results[2].Err, population.ErrInvalidInput)
	require.ErrorIs(t, results[3].Err, population.ErrInvalidInput)
}

func TestRunner_AllFailed(t *testing.T) {
	t.Parallel()

	results, err := (&pipeline.Runner{}).Run(context.Background(), sampling.Views(nil))
	require.ErrorIs(t, err, pipeline.ErrAllFailed)
	require.Len(t, results, 4)

	for _, res := range results {
		require.ErrorIs(t, res.Err, population.ErrInvalidInput)
	}
}

func TestRunner_ChartFailureDoesNotStopSiblings(t *testing.T) {
	t.Parallel()

	chartErr := errors.Join(chart.ErrChartIO, os.ErrPermission)
	png := &recordingRenderer{fail: map[string]error{"each_second_frequency_range.png": chartErr}}
	runner := &pipeline.Runner{Workers: 4, PNG: png}

	results, err := runner.Run(context.Background(), sampling.Views(seq(20)))
	require.NoError(t, err)

	for _, res := range results {
		require.True(t, res.OK())

		if res.View.Name == sampling.ViewEachSecond {
			require.ErrorIs(t, res.ChartErr, chart.ErrChartIO)
			assert.Empty(t, res.ChartPaths)

			continue
		}

		require.NoError(t, res.ChartErr)
		assert.Len(t, res.ChartPaths, 1)
	}

	assert.Len(t, png.paths, 3)
}

func TestRunner_HTMLNextToPNG(t *testing.T) {
	t.Parallel()

	png := &recordingRenderer{}
	html := &recordingRenderer{}
	runner := &pipeline.Runner{Workers: 1, OutputDir: "charts", PNG: png, HTML: html}

	results, err := runner.Run(context.Background(), sampling.Views(seq(10))[:1])
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, []string{
		filepath.Join("charts", "general_frequency_range.png"),
		filepath.Join("charts", "general_frequency_range.html"),
	}, results[0].ChartPaths)
	assert.Len(t, html.paths, 1)
}

func TestRunner_RealRenderersWriteFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runner := &pipeline.Runner{
		Workers:   4,
		OutputDir: dir,
		PNG:       chart.NewPNGRenderer(),
	}

	_, err := runner.Run(context.Background(), sampling.Views(seq(20)))
	require.NoError(t, err)

	for _, name := range []string{
		sampling.ViewGeneral, sampling.ViewEachSecond, sampling.ViewEachFifth, sampling.ViewEachFifthFromSecond,
	} {
		assert.FileExists(t, filepath.Join(dir, sampling.ChartFileName(name)))
	}
}

func TestRunner_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := (&pipeline.Runner{Workers: 1}).Run(ctx, sampling.Views(seq(20)))
	require.Len(t, results, 4)

	// Each view either ran or observed the cancellation; none is left empty.
	for _, res := range results {
		assert.NotEmpty(t, res.View.Name)

		if !res.OK() {
			require.ErrorIs(t, res.Err, context.Canceled)
		}
	}

	if err != nil {
		require.ErrorIs(t, err, pipeline.ErrAllFailed)
	}
}

func TestRunner_Idempotent(t *testing.T) {
	t.Parallel()

	views := sampling.Views(seq(25))
	runner := &pipeline.Runner{Workers: 3}

	first, err := runner.Run(context.Background(), views)
	require.NoError(t, err)

	second, err := runner.Run(context.Background(), views)
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].Population, second[i].Population)
		assert.Equal(t, first[i].Frequencies, second[i].Frequencies)
	}
}

func TestRunner_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewPipelineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	runner := &pipeline.Runner{Workers: 2, Metrics: metrics}

	_, err = runner.Run(context.Background(), sampling.Views([]float64{1, 2, 3, 4, 5, 6, 7}))
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(4), totals["procstats.pipelines.total"])
	assert.Equal(t, int64(2), totals["procstats.pipeline.failures.total"])
}
