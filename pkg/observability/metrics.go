package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricPipelinesTotal   = "procstats.pipelines.total"
	metricPipelineFailures = "procstats.pipeline.failures.total"
	metricPipelineDuration = "procstats.pipeline.duration.seconds"
	metricSampleSize       = "procstats.sample.size"

	attrView   = "view"
	attrStatus = "status"
	attrReason = "reason"

	// StatusOK marks a pipeline that produced statistics.
	StatusOK = "ok"
	// StatusError marks a pipeline that failed.
	StatusError = "error"
)

// durationBucketBoundaries covers sub-millisecond statistics up to multi-second chart encoding.
var durationBucketBoundaries = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// sizeBucketBoundaries covers sample sizes from a handful to millions of measurements.
var sizeBucketBoundaries = []float64{1, 2, 5, 10, 100, 1000, 10000, 100000, 1000000}

// PipelineMetrics holds the OTel instruments recorded per sample pipeline.
type PipelineMetrics struct {
	pipelinesTotal   metric.Int64Counter
	pipelineFailures metric.Int64Counter
	pipelineDuration metric.Float64Histogram
	sampleSize       metric.Int64Histogram
}

// NewPipelineMetrics creates the pipeline instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	total, err := mt.Int64Counter(metricPipelinesTotal,
		metric.WithDescription("Total number of sample pipelines run"),
		metric.WithUnit("{pipeline}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPipelinesTotal, err)
	}

	failures, err := mt.Int64Counter(metricPipelineFailures,
		metric.WithDescription("Total number of failed sample pipelines"),
		metric.WithUnit("{pipeline}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPipelineFailures, err)
	}

	duration, err := mt.Float64Histogram(metricPipelineDuration,
		metric.WithDescription("Sample pipeline duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPipelineDuration, err)
	}

	size, err := mt.Int64Histogram(metricSampleSize,
		metric.WithDescription("Number of measurements in a sample"),
		metric.WithUnit("{measurement}"),
		metric.WithExplicitBucketBoundaries(sizeBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSampleSize, err)
	}

	return &PipelineMetrics{
		pipelinesTotal:   total,
		pipelineFailures: failures,
		pipelineDuration: duration,
		sampleSize:       size,
	}, nil
}

// RecordPipeline records one finished pipeline. reason is empty on success.
func (pm *PipelineMetrics) RecordPipeline(ctx context.Context, view string, size int, reason string, duration time.Duration) {
	status := StatusOK
	if reason != "" {
		status = StatusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrView, view),
		attribute.String(attrStatus, status),
	)

	pm.pipelinesTotal.Add(ctx, 1, attrs)
	pm.pipelineDuration.Record(ctx, duration.Seconds(), attrs)
	pm.sampleSize.Record(ctx, int64(size), metric.WithAttributes(attribute.String(attrView, view)))

	if status == StatusError {
		pm.pipelineFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrView, view),
			attribute.String(attrReason, reason),
		))
	}
}
