// Package report writes pipeline results as text, table, json or yaml.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
	"github.com/Sumatoshi-tech/procstats/pkg/pipeline"
	"github.com/Sumatoshi-tech/procstats/pkg/population"
)

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown report format")

// decimals is the precision of every statistic in human-readable output.
const decimals = 5

// Options tune human-readable output.
type Options struct {
	NoColor bool
}

// Writer renders a set of results.
type Writer interface {
	Write(w io.Writer, results []pipeline.Result) error
}

// NewWriter returns the writer for format.
func NewWriter(format string, opts Options) (Writer, error) {
	switch format {
	case FormatText, "":
		return NewTextWriter(opts), nil
	case FormatTable:
		return NewTableWriter(), nil
	case FormatJSON:
		return &CodecWriter{Codec: NewJSONCodec()}, nil
	case FormatYAML:
		return &CodecWriter{Codec: NewYAMLCodec()}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Document is the machine-readable form of a run.
type Document struct {
	Views  []Entry `json:"views"  yaml:"views"`
	Failed int     `json:"failed" yaml:"failed"`
}

// Entry describes one view.
type Entry struct {
	View        string                 `json:"view"                  yaml:"view"`
	Label       string                 `json:"label"                 yaml:"label"`
	Size        int                    `json:"size"                  yaml:"size"`
	Statistics  *population.Population `json:"statistics,omitempty"  yaml:"statistics,omitempty"`
	Frequencies []frequency.Point      `json:"frequencies,omitempty" yaml:"frequencies,omitempty"`
	Charts      []string               `json:"charts,omitempty"      yaml:"charts,omitempty"`
	Error       string                 `json:"error,omitempty"       yaml:"error,omitempty"`
	ChartError  string                 `json:"chart_error,omitempty" yaml:"chart_error,omitempty"`
}

// NewDocument converts results, keeping their order.
func NewDocument(results []pipeline.Result) Document {
	doc := Document{Views: make([]Entry, 0, len(results))}

	for _, res := range results {
		entry := Entry{
			View:        res.View.Name,
			Label:       res.View.Label,
			Size:        len(res.View.Values),
			Statistics:  res.Population,
			Frequencies: res.Frequencies,
			Charts:      res.ChartPaths,
		}

		if res.Err != nil {
			entry.Error = res.Err.Error()
			doc.Failed++
		}

		if res.ChartErr != nil {
			entry.ChartError = res.ChartErr.Error()
		}

		doc.Views = append(doc.Views, entry)
	}

	return doc
}
