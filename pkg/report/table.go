package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/procstats/pkg/pipeline"
)

const (
	columnView   = "View"
	columnSize   = "N"
	columnCharts = "Charts"
	dash         = "-"
)

// Numeric columns (1-based): the size and the five statistics.
const (
	firstNumericColumn = 2
	lastNumericColumn  = 7
)

// TableWriter prints every view as one row of a go-pretty table.
type TableWriter struct {
	Style table.Style
}

// NewTableWriter returns a TableWriter with the light box style.
func NewTableWriter() *TableWriter {
	return &TableWriter{Style: table.StyleLight}
}

// Write implements Writer.
func (tw *TableWriter) Write(w io.Writer, results []pipeline.Result) error {
	tbl := table.NewWriter()
	tbl.SetStyle(tw.Style)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{
		columnView, columnSize,
		LabelMean, LabelVariance, LabelStdDev, LabelCorrectedVariance, LabelCorrectedStdDev,
		columnCharts,
	})

	rightAligned := make([]table.ColumnConfig, 0, lastNumericColumn-firstNumericColumn+1)
	for col := firstNumericColumn; col <= lastNumericColumn; col++ {
		rightAligned = append(rightAligned, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}

	tbl.SetColumnConfigs(rightAligned)

	for _, res := range results {
		tbl.AppendRow(resultRow(res))
	}

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func resultRow(res pipeline.Result) table.Row {
	row := table.Row{res.View.Label, strconv.Itoa(len(res.View.Values))}

	if res.Err != nil {
		row = append(row, res.Err.Error(), dash, dash, dash, dash)
	} else {
		for _, stat := range statisticRows(res.Population) {
			row = append(row, FormatValue(stat.value))
		}
	}

	charts := dash

	switch {
	case res.ChartErr != nil:
		charts = res.ChartErr.Error()
	case len(res.ChartPaths) > 0:
		charts = strings.Join(res.ChartPaths, "\n")
	}

	return append(row, charts)
}
