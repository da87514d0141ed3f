package chart

import (
	"fmt"
	"image/color"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
)

// HTMLRenderer writes frequency polygons as self-contained go-echarts pages.
type HTMLRenderer struct {
	Width  int
	Height int
	Style  Style
}

// NewHTMLRenderer returns a renderer sized like the PNG output.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{Width: DefaultWidth, Height: DefaultHeight, Style: DefaultStyle()}
}

// Render writes an interactive line chart to outputPath.
func (r *HTMLRenderer) Render(points []frequency.Point, outputPath string) error {
	line, err := r.Build(points)
	if err != nil {
		return err
	}

	return writeFile(outputPath, func(f *os.File) error {
		return line.Render(f)
	})
}

// Build constructs the echarts line chart.
func (r *HTMLRenderer) Build(points []frequency.Point) (*charts.Line, error) {
	bounds, err := BoundsOf(points)
	if err != nil {
		return nil, err
	}

	ordered := sortedPoints(points)

	data := make([]opts.LineData, len(ordered))
	for i, pt := range ordered {
		data[i] = opts.LineData{Value: []any{pt.Value, pt.Count}}
	}

	lineColor := hexColor(r.Style.Line)
	gridColor := hexColor(r.Style.Grid)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           fmt.Sprintf("%dpx", r.Width),
			Height:          fmt.Sprintf("%dpx", r.Height),
			BackgroundColor: hexColor(r.Style.Background),
		}),
		charts.WithTitleOpts(opts.Title{Title: r.Style.Title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: r.Style.XLabel,
			Type: "value",
			Min:  bounds.XMin,
			Max:  bounds.XMax,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: r.Style.YLabel,
			Type: "value",
			Min:  bounds.YMin,
			Max:  bounds.YMax,
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: gridColor},
			},
		}),
	)

	line.AddSeries(r.Style.YLabel, data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: lineColor}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: lineColor}),
	)

	return line, nil
}

func hexColor(c color.Color) string {
	if c == nil {
		return ""
	}

	red, green, blue, _ := c.RGBA()

	return fmt.Sprintf("#%02x%02x%02x", red>>8, green>>8, blue>>8)
}
