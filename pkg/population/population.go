// Package population computes descriptive statistics over one sample:
// the variation series, the mean, the population variance and standard
// deviation, and their Bessel-corrected counterparts.
package population

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/procstats/pkg/alg/stats"
	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
)

// Sentinel errors returned by Compute.
var (
	// ErrInvalidInput is returned for an empty sample or a non-finite value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientSamples is returned when the corrected variance is undefined (n = 1).
	ErrInsufficientSamples = errors.New("insufficient samples")
)

// minCorrectedCount is the smallest sample size with a defined corrected variance.
const minCorrectedCount = 2

// Population is an immutable statistical summary of one sample.
type Population struct {
	Raw            []float64 `json:"raw"             yaml:"raw"`
	Sorted         []float64 `json:"sorted"          yaml:"sorted"`
	Mean           float64   `json:"mean"            yaml:"mean"`
	Variance       float64   `json:"variance"        yaml:"variance"`
	StdDev         float64   `json:"stddev"          yaml:"stddev"`
	SampleVariance float64   `json:"sample_variance" yaml:"sample_variance"`
	SampleStdDev   float64   `json:"sample_stddev"   yaml:"sample_stddev"`
}

// Compute builds a Population from values. The input slice is copied and never modified.
func Compute(values []float64) (*Population, error) {
	count := len(values)
	if count == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrInvalidInput)
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite value %v at index %d", ErrInvalidInput, v, i)
		}
	}

	if count < minCorrectedCount {
		return nil, fmt.Errorf("%w: corrected variance needs at least %d values, got %d",
			ErrInsufficientSamples, minCorrectedCount, count)
	}

	raw := slices.Clone(values)
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	// Moments are summed over the sorted series so the result does not depend on input order.
	mean := stats.Mean(sorted)
	variance := stats.Variance(sorted, mean)
	corrected := stats.CorrectedVariance(variance, count)

	return &Population{
		Raw:            raw,
		Sorted:         sorted,
		Mean:           mean,
		Variance:       variance,
		StdDev:         math.Sqrt(variance),
		SampleVariance: corrected,
		SampleStdDev:   math.Sqrt(corrected),
	}, nil
}

// Len returns the sample size.
func (p *Population) Len() int {
	return len(p.Sorted)
}

// Frequencies aggregates the variation series. A negative precision groups
// by exact value; otherwise values are rounded to that many decimals first.
func (p *Population) Frequencies(precision int) frequency.Table {
	return frequency.AggregateRounded(p.Sorted, precision)
}
