package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/procstats/pkg/pipeline"
	"github.com/Sumatoshi-tech/procstats/pkg/population"
)

// Statistic labels, in print order.
const (
	LabelRaw               = "Raw"
	LabelSorted            = "Sorted"
	LabelMean              = "Mean"
	LabelVariance          = "Variance"
	LabelStdDev            = "Standard deviation"
	LabelCorrectedVariance = "Corrected variance"
	LabelCorrectedStdDev   = "Corrected standard deviation"
	labelChart             = "Chart"
	labelChartError        = "Chart error"
	labelError             = "Error"
)

// TextWriter prints one labeled block per view.
type TextWriter struct {
	header *color.Color
	fail   *color.Color
	warn   *color.Color
}

// NewTextWriter creates a TextWriter. Color also follows NO_COLOR and TTY detection.
func NewTextWriter(opts Options) *TextWriter {
	tw := &TextWriter{
		header: color.New(color.FgCyan, color.Bold),
		fail:   color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
	}

	if opts.NoColor {
		tw.header.DisableColor()
		tw.fail.DisableColor()
		tw.warn.DisableColor()
	}

	return tw
}

// Write implements Writer. Each block is built in memory and written at once.
func (tw *TextWriter) Write(w io.Writer, results []pipeline.Result) error {
	for i, res := range results {
		var buf bytes.Buffer

		if i > 0 {
			buf.WriteByte('\n')
		}

		tw.header.Fprintf(&buf, "%s:\n", res.View.Label)

		if res.Err != nil {
			tw.fail.Fprintf(&buf, "  %s: %v\n", labelError, res.Err)
		} else {
			writeStatistics(&buf, res.Population)
		}

		for _, path := range res.ChartPaths {
			fmt.Fprintf(&buf, "  %s: %s\n", labelChart, path)
		}

		if res.ChartErr != nil {
			tw.warn.Fprintf(&buf, "  %s: %v\n", labelChartError, res.ChartErr)
		}

		_, err := w.Write(buf.Bytes())
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	return nil
}

func writeStatistics(buf *bytes.Buffer, pop *population.Population) {
	fmt.Fprintf(buf, "  %s: %s\n", LabelRaw, FormatSequence(pop.Raw))
	fmt.Fprintf(buf, "  %s: %s\n", LabelSorted, FormatSequence(pop.Sorted))

	for _, row := range statisticRows(pop) {
		fmt.Fprintf(buf, "  %s: %s\n", row.label, FormatValue(row.value))
	}
}

type statisticRow struct {
	label string
	value float64
}

func statisticRows(pop *population.Population) []statisticRow {
	return []statisticRow{
		{LabelMean, pop.Mean},
		{LabelVariance, pop.Variance},
		{LabelStdDev, pop.StdDev},
		{LabelCorrectedVariance, pop.SampleVariance},
		{LabelCorrectedStdDev, pop.SampleStdDev},
	}
}

// FormatValue formats a statistic with five decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// FormatSequence formats values in their shortest exact form, e.g. "[10, 20.5]".
func FormatSequence(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
