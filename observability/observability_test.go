package observability

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/pipeline"
)

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("stagekit")
	if tc.ServiceName != "stagekit" {
		t.Errorf("expected service name stagekit, got %q", tc.ServiceName)
	}
	if tc.SampleRate != 1.0 {
		t.Errorf("expected full sampling by default, got %v", tc.SampleRate)
	}

	mc := DefaultMeterConfig("stagekit")
	if mc.Interval <= 0 {
		t.Errorf("expected positive export interval, got %v", mc.Interval)
	}
}

func TestPipelineMetrics_Record(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	m.RecordMiss(ctx, "upper", artifact.New("a.txt", []byte("abc")))
	m.RecordStage(ctx, pipeline.StageReport{
		Stage:    "upper",
		Count:    3,
		Hits:     2,
		Misses:   1,
		Parallel: true,
		Start:    time.Now().Add(-time.Second),
		Duration: time.Second,
	})
}

func TestPipelineMetrics_HookSignatures(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	var miss pipeline.MissHook = m.RecordMiss
	var report pipeline.ReportHook = m.RecordStage
	if miss == nil || report == nil {
		t.Fatal("expected recorder methods to satisfy hook types")
	}
}
