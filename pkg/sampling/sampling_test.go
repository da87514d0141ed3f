package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/procstats/pkg/sampling"
)

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}

	return out
}

func TestSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []float64
		start    int
		stride   int
		expected []float64
	}{
		{name: "every_second", values: seq(6), start: 1, stride: 2, expected: []float64{2, 4, 6}},
		{name: "every_fifth", values: seq(10), start: 1, stride: 5, expected: []float64{5, 10}},
		{name: "every_fifth_from_second", values: seq(10), start: 2, stride: 5, expected: []float64{6}},
		{name: "stride_one_is_identity", values: seq(4), start: 1, stride: 1, expected: []float64{1, 2, 3, 4}},
		{name: "too_short_for_stride", values: seq(4), start: 1, stride: 5, expected: []float64{}},
		{name: "start_past_end", values: seq(3), start: 5, stride: 1, expected: []float64{}},
		{name: "empty_input", values: nil, start: 1, stride: 2, expected: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := sampling.Sample(tt.values, tt.start, tt.stride)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSample_InvalidParameters(t *testing.T) {
	t.Parallel()

	_, err := sampling.Sample(seq(3), 0, 2)
	require.ErrorIs(t, err, sampling.ErrInvalidStart)

	_, err = sampling.Sample(seq(3), 1, 0)
	require.ErrorIs(t, err, sampling.ErrInvalidStride)
}

func TestSample_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	values := seq(4)

	got, err := sampling.Sample(values, 1, 1)
	require.NoError(t, err)

	got[0] = 100
	assert.InDelta(t, 1.0, values[0], 0)
}

func TestViews(t *testing.T) {
	t.Parallel()

	views := sampling.Views(seq(10))
	require.Len(t, views, 4)

	assert.Equal(t, sampling.ViewGeneral, views[0].Name)
	assert.Equal(t, seq(10), views[0].Values)

	assert.Equal(t, sampling.ViewEachSecond, views[1].Name)
	assert.Equal(t, []float64{2, 4, 6, 8, 10}, views[1].Values)

	assert.Equal(t, sampling.ViewEachFifth, views[2].Name)
	assert.Equal(t, []float64{5, 10}, views[2].Values)

	assert.Equal(t, sampling.ViewEachFifthFromSecond, views[3].Name)
	assert.Equal(t, []float64{6}, views[3].Values)
}

func TestChartFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "general_frequency_range.png", sampling.ChartFileName(sampling.ViewGeneral))
	assert.Equal(t, "each_fifth_from_second_frequency_range.png",
		sampling.ChartFileName(sampling.ViewEachFifthFromSecond))
}
