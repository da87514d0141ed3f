// Package frequency groups a variation series into (value, count) pairs.
package frequency

import (
	"cmp"
	"math"
	"slices"
)

// ExactPrecision disables rounding: values group by their exact bit pattern.
const ExactPrecision = -1

// maxPrecision bounds the rounding exponent so 10^digits stays exact.
const maxPrecision = 15

// Point is one vertex of a frequency polygon.
type Point struct {
	Value float64 `json:"value" yaml:"value"`
	Count int     `json:"count" yaml:"count"`
}

// Table maps each distinct value to its number of occurrences.
// Keys are IEEE-754 bit patterns, so 0 and -0 are different entries.
type Table struct {
	counts map[uint64]int
	total  int
}

// Aggregate counts exact repetitions in values.
func Aggregate(values []float64) Table {
	t := Table{counts: make(map[uint64]int)}

	for _, v := range values {
		t.add(v)
	}

	return t
}

// AggregateRounded rounds each value half away from zero to digits decimals
// before counting. Rounded zeros always count as +0. A negative digits value
// is the same as Aggregate.
func AggregateRounded(values []float64, digits int) Table {
	if digits < 0 {
		return Aggregate(values)
	}

	scale := math.Pow10(min(digits, maxPrecision))
	t := Table{counts: make(map[uint64]int)}

	for _, v := range values {
		r := math.Round(v*scale) / scale
		if r == 0 {
			// Small negatives round to -0; fold them into +0.
			r = 0
		}

		t.add(r)
	}

	return t
}

func (t *Table) add(v float64) {
	t.counts[math.Float64bits(v)]++
	t.total++
}

// Len returns the number of distinct values.
func (t Table) Len() int {
	return len(t.counts)
}

// Total returns the sum of all counts.
func (t Table) Total() int {
	return t.total
}

// Count returns the occurrences of v, matched by exact bit pattern.
func (t Table) Count(v float64) int {
	return t.counts[math.Float64bits(v)]
}

// MaxCount returns the largest count, or 0 for an empty table.
func (t Table) MaxCount() int {
	best := 0

	for _, c := range t.counts {
		best = max(best, c)
	}

	return best
}

// Points returns the table as a series sorted ascending by value.
func (t Table) Points() []Point {
	points := make([]Point, 0, len(t.counts))

	for bits, c := range t.counts {
		points = append(points, Point{Value: math.Float64frombits(bits), Count: c})
	}

	slices.SortFunc(points, func(a, b Point) int {
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}

		// -0 before +0.
		return cmp.Compare(math.Float64bits(b.Value), math.Float64bits(a.Value))
	})

	return points
}
