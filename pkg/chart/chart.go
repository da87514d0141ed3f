// Package chart renders frequency polygons: count against value, joined in
// ascending value order.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
)

// Canvas defaults.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
	DefaultTitle  = "Frequency polygon"

	// degenerateHalfSpan widens the x-axis around a single distinct value.
	degenerateHalfSpan = 0.5

	filePerm = 0o644
)

// Sentinel errors for chart output.
var (
	// ErrChartIO indicates the chart file could not be created or written.
	ErrChartIO = errors.New("chart output failed")
	// ErrNoPoints indicates an empty series.
	ErrNoPoints = errors.New("no points to plot")
)

// Style holds the colors and labels shared by the PNG and HTML renderers.
type Style struct {
	Title      string
	XLabel     string
	YLabel     string
	Background color.Color
	Line       color.Color
	Grid       color.Color
}

// DefaultStyle returns a white canvas with a red polyline.
func DefaultStyle() Style {
	return Style{
		Title:      DefaultTitle,
		XLabel:     "Value",
		YLabel:     "Count",
		Background: color.White,
		Line:       color.RGBA{R: 0xe5, G: 0x48, B: 0x4d, A: 0xff},
		Grid:       color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff},
	}
}

// Bounds is the plotting window of a frequency polygon.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// BoundsOf returns x spanning [min(value), max(value)] and y spanning
// [0, max(count)+1]. A single distinct value gets a non-zero x span.
func BoundsOf(points []frequency.Point) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrNoPoints
	}

	xs := make([]float64, len(points))
	maxCount := 0

	for i, p := range points {
		xs[i] = p.Value
		maxCount = max(maxCount, p.Count)
	}

	b := Bounds{
		XMin: floats.Min(xs),
		XMax: floats.Max(xs),
		YMin: 0,
		YMax: float64(maxCount + 1),
	}

	if b.XMin == b.XMax {
		b.XMin -= degenerateHalfSpan
		b.XMax += degenerateHalfSpan
	}

	return b, nil
}

// sortedPoints returns a copy of points ordered by value.
func sortedPoints(points []frequency.Point) []frequency.Point {
	out := slices.Clone(points)
	slices.SortStableFunc(out, func(a, b frequency.Point) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		default:
			return 0
		}
	})

	return out
}

// writeFile creates path and hands the open file to write, wrapping every
// failure with ErrChartIO.
func writeFile(path string, write func(f *os.File) error) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChartIO, err)
	}

	defer func() {
		closeErr := f.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrChartIO, path, closeErr)
		}
	}()

	writeErr := write(f)
	if writeErr != nil {
		return fmt.Errorf("%w: write %s: %w", ErrChartIO, path, writeErr)
	}

	return nil
}
