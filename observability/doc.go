// Package observability provides OpenTelemetry tracing and metrics for
// pipeline stage execution.
//
// InitTracer and InitMeter install global OTLP HTTP providers. The
// PipelineMetrics recorder exposes methods matching the pipeline hook
// signatures, so wiring telemetry into a pipeline is one option per hook:
//
//	metrics, _ := observability.NewPipelineMetrics(observability.Meter("pipeline"))
//	p, _ := pipeline.FromFiles(root, paths,
//		pipeline.WithMissHook(metrics.RecordMiss),
//		pipeline.WithReportHook(metrics.RecordStage),
//	)
//
// Each stage execution emits a stage.execute span spanning the run and
// records hit, miss, duration, and payload byte instruments.
package observability
