package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/cache"
	"github.com/kbukum/stagekit/errors"
	"github.com/kbukum/stagekit/fingerprint"
	"github.com/kbukum/stagekit/logger"
)

// MissHook is invoked once per cache miss, after the transform has run
// and its result has been persisted.
type MissHook func(ctx context.Context, stage string, a artifact.Artifact)

// StageReport summarizes one stage execution.
type StageReport struct {
	Stage    string
	Count    int
	Hits     int
	Misses   int
	Parallel bool
	Start    time.Time
	Duration time.Duration
}

// ReportHook is invoked once per stage execution with the summary.
type ReportHook func(ctx context.Context, report StageReport)

// Select executes a transformation stage sequentially over every artifact.
// Results are served from the stage cache where the fingerprint matches;
// otherwise the transform runs and its result is persisted. After all
// artifacts are processed the stage directory is reconciled: entries not
// touched by this call are deleted. The returned pipeline has the same
// length and order as the receiver.
//
// The context flows to the miss and report hooks; stage execution itself
// runs to completion or failure without cancellation.
func (p *Pipeline) Select(ctx context.Context, stageName string, t *fingerprint.Transform) (*Pipeline, error) {
	return p.runStage(ctx, stageName, t, false)
}

// SelectParallel is Select with the per-artifact work spread across a
// fixed-size worker pool. The transform must be safe to invoke
// concurrently with itself. Result order equals input order regardless of
// worker completion order.
func (p *Pipeline) SelectParallel(ctx context.Context, stageName string, t *fingerprint.Transform) (*Pipeline, error) {
	return p.runStage(ctx, stageName, t, true)
}

func (p *Pipeline) runStage(ctx context.Context, stageName string, t *fingerprint.Transform, parallel bool) (*Pipeline, error) {
	if stageName == "" {
		return nil, errors.MissingArgument("stageName")
	}
	if t == nil {
		return nil, errors.MissingArgument("transform")
	}

	stage, err := p.store.Stage(stageName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]artifact.Artifact, len(p.artifacts))
	var hits, misses atomic.Int64

	process := func(i int) error {
		a := p.artifacts[i]
		fp := t.Entry(a)

		exists, err := stage.Exists(fp)
		if err != nil {
			return err
		}
		if exists {
			entry, err := stage.Read(fp)
			if err != nil {
				return err
			}
			results[i] = a.WithResult(entry.Payload, entry.SideChannel)
			hits.Add(1)
			return nil
		}

		payload, sideChannel, err := t.Invoke(a)
		if err != nil {
			return errors.TransformFailure(stageName, a.Identity.Name, err)
		}
		if err := stage.Write(fp, cache.Entry{Payload: payload, SideChannel: sideChannel}); err != nil {
			return err
		}
		results[i] = a.WithResult(payload, sideChannel)
		misses.Add(1)
		if p.opts.missHook != nil {
			p.opts.missHook(ctx, stageName, a)
		}
		return nil
	}

	if parallel {
		err = p.runPool(process)
	} else {
		err = p.runSequential(process)
	}
	if err != nil {
		return nil, err
	}

	if err := stage.Reconcile(); err != nil {
		return nil, err
	}

	report := StageReport{
		Stage:    stageName,
		Count:    len(p.artifacts),
		Hits:     int(hits.Load()),
		Misses:   int(misses.Load()),
		Parallel: parallel,
		Start:    start,
		Duration: time.Since(start),
	}
	p.opts.log.Debug("stage executed",
		logger.StageFields(report.Stage, report.Count, report.Hits, report.Misses, report.Duration))
	if p.opts.reportHook != nil {
		p.opts.reportHook(ctx, report)
	}

	return p.derive(results), nil
}

func (p *Pipeline) runSequential(process func(i int) error) error {
	for i := range p.artifacts {
		if err := process(i); err != nil {
			return err
		}
	}
	return nil
}

// runPool runs process over every index using a fixed-size worker pool.
// Each worker owns a disjoint set of indexes, so the results slice needs
// no locking. All indexes are processed even after a failure; the first
// error in input order is returned once the pool has drained.
func (p *Pipeline) runPool(process func(i int) error) error {
	workers := p.opts.workers
	if workers > len(p.artifacts) {
		workers = len(p.artifacts)
	}
	if workers <= 1 {
		return p.runSequential(process)
	}

	indexes := make(chan int)
	errs := make([]error, len(p.artifacts))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				errs[i] = process(i)
			}
		}()
	}

	for i := range p.artifacts {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
