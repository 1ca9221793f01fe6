package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/pipeline"
)

// PipelineMetrics holds instruments for stage execution. Its methods match
// the pipeline hook signatures, so a single recorder can be wired into a
// pipeline with WithMissHook and WithReportHook.
type PipelineMetrics struct {
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	stageDuration metric.Float64Histogram
	artifactBytes metric.Int64Counter
}

// NewPipelineMetrics creates the stage execution instruments on the
// given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	cacheHits, err := meter.Int64Counter(
		"stagekit.cache.hit.total",
		metric.WithDescription("Cache entries served without running the transform"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache hit counter: %w", err)
	}

	cacheMisses, err := meter.Int64Counter(
		"stagekit.cache.miss.total",
		metric.WithDescription("Artifacts whose transform had to run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache miss counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram(
		"stagekit.stage.duration",
		metric.WithDescription("Wall-clock duration of stage executions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage duration histogram: %w", err)
	}

	artifactBytes, err := meter.Int64Counter(
		"stagekit.artifact.bytes",
		metric.WithDescription("Payload bytes transformed on cache misses"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating artifact bytes counter: %w", err)
	}

	return &PipelineMetrics{
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		stageDuration: stageDuration,
		artifactBytes: artifactBytes,
	}, nil
}

// RecordMiss counts one cache miss for the stage. Assignable to
// pipeline.MissHook.
func (m *PipelineMetrics) RecordMiss(ctx context.Context, stage string, a artifact.Artifact) {
	attrs := metric.WithAttributes(attribute.String(AttrStageName, stage))
	m.cacheMisses.Add(ctx, 1, attrs)
	m.artifactBytes.Add(ctx, int64(len(a.Payload)), attrs)
}

// RecordStage records the stage summary and emits a completed span covering
// the execution window. Assignable to pipeline.ReportHook.
func (m *PipelineMetrics) RecordStage(ctx context.Context, report pipeline.StageReport) {
	attrs := metric.WithAttributes(
		attribute.String(AttrStageName, report.Stage),
		attribute.Bool(AttrStageParallel, report.Parallel),
	)
	m.cacheHits.Add(ctx, int64(report.Hits), attrs)
	m.stageDuration.Record(ctx, report.Duration.Seconds(), attrs)

	_, span := StartSpan(ctx, SpanStageExecute,
		trace.WithTimestamp(report.Start),
		trace.WithAttributes(
			attribute.String(AttrStageName, report.Stage),
			attribute.Bool(AttrStageParallel, report.Parallel),
			attribute.Int(AttrArtifactCount, report.Count),
			attribute.Int(AttrCacheHits, report.Hits),
			attribute.Int(AttrCacheMisses, report.Misses),
		),
	)
	span.End(trace.WithTimestamp(report.Start.Add(report.Duration)))
}
