// Package stats provides the moment formulas used by procstats.
// Population variance divides by n; the corrected (Bessel) estimator divides by n−1.
// Every function sums left to right in slice order, so results are reproducible
// bit for bit for the same input order.
package stats

import (
	"cmp"
	"math"
)

// Mean returns the arithmetic mean of values.
// Returns NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	return Sum(values) / float64(len(values))
}

// Variance returns the population (biased) variance of values around mean.
// Returns NaN for an empty slice.
func Variance(values []float64, mean float64) float64 {
	count := len(values)
	if count == 0 {
		return math.NaN()
	}

	var sumSq float64

	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}

	return sumSq / float64(count)
}

// CorrectedVariance rescales a population variance computed over count values
// into the Bessel-corrected estimator variance·n/(n−1).
// Returns NaN when count < 2.
func CorrectedVariance(variance float64, count int) float64 {
	if count < 2 {
		return math.NaN()
	}

	return variance * float64(count) / float64(count-1)
}

// Sum returns the sum of all elements in values.
// Returns the zero value of T for an empty slice.
func Sum[T cmp.Ordered](values []T) T {
	var result T

	for _, v := range values {
		result += v
	}

	return result
}
