// Package sampling extracts deterministic sub-samples from a measurement series.
package sampling

import (
	"errors"
	"fmt"
)

// Sentinel errors for invalid selection parameters.
var (
	ErrInvalidStart  = errors.New("sample start must be at least 1")
	ErrInvalidStride = errors.New("sample stride must be at least 1")
)

// View names, in report order.
const (
	ViewGeneral             = "general"
	ViewEachSecond          = "each_second"
	ViewEachFifth           = "each_fifth"
	ViewEachFifthFromSecond = "each_fifth_from_second"
)

// View is a named sample of the measurement series.
type View struct {
	Name   string
	Label  string
	Values []float64
}

// Sample skips the first start-1 values and keeps every stride-th of the
// remaining ones, beginning with the stride-th. The result is a fresh slice;
// it is empty (not nil) when fewer than stride values remain.
func Sample(values []float64, start, stride int) ([]float64, error) {
	if start < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStart, start)
	}

	if stride < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStride, stride)
	}

	if start > len(values) {
		return []float64{}, nil
	}

	rest := values[start-1:]
	out := make([]float64, 0, len(rest)/stride)

	for i := stride - 1; i < len(rest); i += stride {
		out = append(out, rest[i])
	}

	return out, nil
}

type viewSpec struct {
	name   string
	label  string
	start  int
	stride int
}

var viewSpecs = []viewSpec{
	{name: ViewGeneral, label: "General population", start: 1, stride: 1},
	{name: ViewEachSecond, label: "Sample [each second]", start: 1, stride: 2},
	{name: ViewEachFifth, label: "Sample [each fifth]", start: 1, stride: 5},
	{name: ViewEachFifthFromSecond, label: "Sample [each fifth from second]", start: 2, stride: 5},
}

// Views returns the four fixed views of values in report order:
// the full population, every 2nd, every 5th, and every 5th starting at the 2nd.
func Views(values []float64) []View {
	views := make([]View, 0, len(viewSpecs))

	for _, spec := range viewSpecs {
		sampled, _ := Sample(values, spec.start, spec.stride) //nolint:errcheck // fixed parameters are always >= 1.

		views = append(views, View{Name: spec.name, Label: spec.label, Values: sampled})
	}

	return views
}

// ChartFileName returns the PNG file name used for a view's frequency polygon.
func ChartFileName(viewName string) string {
	return viewName + "_frequency_range.png"
}
