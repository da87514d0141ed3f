// Package pipeline runs the Sample -> Population -> FrequencyTable -> Chart
// chain for each sample view with bounded parallelism.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/procstats/pkg/chart"
	"github.com/Sumatoshi-tech/procstats/pkg/frequency"
	"github.com/Sumatoshi-tech/procstats/pkg/observability"
	"github.com/Sumatoshi-tech/procstats/pkg/population"
	"github.com/Sumatoshi-tech/procstats/pkg/sampling"
)

// ErrAllFailed is returned when no view produced statistics.
var ErrAllFailed = errors.New("every sample pipeline failed")

// Failure reasons recorded in metrics.
const (
	reasonInvalidInput        = "invalid_input"
	reasonInsufficientSamples = "insufficient_samples"
	reasonChartIO             = "chart_io"
	reasonCanceled            = "canceled"
	reasonOther               = "error"
)

const htmlExt = ".html"

// Renderer draws a frequency polygon to a file.
type Renderer interface {
	Render(points []frequency.Point, outputPath string) error
}

// Result is the outcome of one view's pipeline.
type Result struct {
	View        sampling.View
	Population  *population.Population
	Frequencies []frequency.Point
	ChartPaths  []string
	// Err is set when statistics could not be computed; nothing else is populated then.
	Err error
	// ChartErr is set when a chart could not be written; statistics are still valid.
	ChartErr error
	Duration time.Duration
}

// OK reports whether statistics were computed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Runner executes view pipelines.
type Runner struct {
	// Workers bounds how many pipelines run at once; values below 1 mean 1.
	Workers int
	// Precision is passed to the frequency aggregation; negative groups exactly.
	Precision int
	// OutputDir receives chart files.
	OutputDir string
	// PNG and HTML renderers; nil disables the format.
	PNG  Renderer
	HTML Renderer

	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.PipelineMetrics
}

// Run processes every view and returns results in the order of views.
// Per-view failures are reported in the results; the returned error is
// ErrAllFailed when no view succeeded.
func (r *Runner) Run(ctx context.Context, views []sampling.View) ([]Result, error) {
	results := make([]Result, len(views))
	logger := r.logger()
	tracer := r.tracer()

	ctx, span := tracer.Start(ctx, "procstats.pipeline.run",
		trace.WithAttributes(attribute.Int("views", len(views))))
	defer span.End()

	wg := sync.WaitGroup{}
	sem := make(chan struct{}, max(r.Workers, 1))

	for i, view := range views {
		wg.Add(1)

		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = Result{View: view, Err: fmt.Errorf("view %s: %w", view.Name, ctx.Err())}

				return
			}

			results[i] = r.runView(ctx, tracer, logger, view)
		}()
	}

	wg.Wait()

	for _, res := range results {
		r.record(ctx, res)
	}

	for _, res := range results {
		if res.OK() {
			return results, nil
		}
	}

	span.SetStatus(codes.Error, ErrAllFailed.Error())

	return results, ErrAllFailed
}

func (r *Runner) runView(ctx context.Context, tracer trace.Tracer, logger *slog.Logger, view sampling.View) Result {
	startedAt := time.Now()

	ctx, span := tracer.Start(ctx, "procstats.pipeline.view", trace.WithAttributes(
		attribute.String("view", view.Name),
		attribute.Int("size", len(view.Values)),
	))
	defer span.End()

	res := Result{View: view}

	pop, err := population.Compute(view.Values)
	if err != nil {
		res.Err = fmt.Errorf("view %s: %w", view.Name, err)
		res.Duration = time.Since(startedAt)

		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "statistics failed")
		logger.WarnContext(ctx, "sample pipeline failed", "view", view.Name, "size", len(view.Values), "error", err)

		return res
	}

	res.Population = pop
	res.Frequencies = pop.Frequencies(r.Precision).Points()
	res.ChartPaths, res.ChartErr = r.renderCharts(res.Frequencies, view.Name)

	if res.ChartErr != nil {
		span.RecordError(res.ChartErr)
		logger.WarnContext(ctx, "chart not written", "view", view.Name, "error", res.ChartErr)
	}

	res.Duration = time.Since(startedAt)

	logger.DebugContext(ctx, "sample pipeline finished",
		"view", view.Name,
		"size", pop.Len(),
		"distinct", len(res.Frequencies),
		"charts", len(res.ChartPaths),
		"duration", res.Duration.Round(time.Microsecond))

	return res
}

// renderCharts writes every enabled format and joins their failures.
func (r *Runner) renderCharts(points []frequency.Point, viewName string) ([]string, error) {
	pngPath := filepath.Join(r.OutputDir, sampling.ChartFileName(viewName))

	targets := []struct {
		renderer Renderer
		path     string
	}{
		{renderer: r.PNG, path: pngPath},
		{renderer: r.HTML, path: strings.TrimSuffix(pngPath, filepath.Ext(pngPath)) + htmlExt},
	}

	var (
		written []string
		errs    []error
	)

	for _, target := range targets {
		if target.renderer == nil {
			continue
		}

		err := target.renderer.Render(points, target.path)
		if err != nil {
			errs = append(errs, fmt.Errorf("view %s: %w", viewName, err))

			continue
		}

		written = append(written, target.path)
	}

	return written, errors.Join(errs...)
}

func (r *Runner) record(ctx context.Context, res Result) {
	if r.Metrics == nil {
		return
	}

	r.Metrics.RecordPipeline(ctx, res.View.Name, len(res.View.Values), failureReason(res), res.Duration)
}

func failureReason(res Result) string {
	switch {
	case res.Err == nil && res.ChartErr == nil:
		return ""
	case errors.Is(res.Err, population.ErrInvalidInput):
		return reasonInvalidInput
	case errors.Is(res.Err, population.ErrInsufficientSamples):
		return reasonInsufficientSamples
	case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
		return reasonCanceled
	case res.Err == nil && errors.Is(res.ChartErr, chart.ErrChartIO):
		return reasonChartIO
	default:
		return reasonOther
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}

	return slog.New(slog.DiscardHandler)
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}

	return noop.NewTracerProvider().Tracer("")
}
