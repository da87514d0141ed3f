package chart

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
)

// pngDPI is the resolution vgimg uses when encoding PNG.
const pngDPI = 96

const (
	lineWidth   = 2
	glyphRadius = 3
)

// PNGRenderer draws frequency polygons as PNG images.
type PNGRenderer struct {
	Width  int
	Height int
	Style  Style
}

// NewPNGRenderer returns a 1280x720 renderer with the default style.
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: DefaultWidth, Height: DefaultHeight, Style: DefaultStyle()}
}

// Render writes the polygon through points to outputPath.
func (r *PNGRenderer) Render(points []frequency.Point, outputPath string) error {
	p, err := r.Build(points)
	if err != nil {
		return err
	}

	width := vg.Length(r.Width) * vg.Inch / pngDPI
	height := vg.Length(r.Height) * vg.Inch / pngDPI

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return writeFile(outputPath, func(f *os.File) error {
		_, writeErr := wt.WriteTo(f)

		return writeErr
	})
}

// Build assembles the plot without encoding it.
func (r *PNGRenderer) Build(points []frequency.Point) (*plot.Plot, error) {
	bounds, err := BoundsOf(points)
	if err != nil {
		return nil, err
	}

	ordered := sortedPoints(points)

	xys := make(plotter.XYs, len(ordered))
	for i, pt := range ordered {
		xys[i].X = pt.Value
		xys[i].Y = float64(pt.Count)
	}

	p := plot.New()
	p.Title.Text = r.Style.Title
	p.X.Label.Text = r.Style.XLabel
	p.Y.Label.Text = r.Style.YLabel
	p.BackgroundColor = r.Style.Background

	grid := plotter.NewGrid()
	grid.Vertical.Color = r.Style.Grid
	grid.Horizontal.Color = r.Style.Grid

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("build polyline: %w", err)
	}

	line.LineStyle.Color = r.Style.Line
	line.LineStyle.Width = vg.Points(lineWidth)

	vertices, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("build vertices: %w", err)
	}

	vertices.GlyphStyle.Color = r.Style.Line
	vertices.GlyphStyle.Radius = vg.Points(glyphRadius)
	vertices.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(grid, line, vertices)

	// Add widens the axes to the data; pin them afterwards.
	p.X.Min, p.X.Max = bounds.XMin, bounds.XMax
	p.Y.Min, p.Y.Max = bounds.YMin, bounds.YMax

	return p, nil
}
