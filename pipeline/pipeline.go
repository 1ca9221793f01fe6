package pipeline

import (
	"runtime"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/cache"
	"github.com/kbukum/stagekit/config"
	"github.com/kbukum/stagekit/errors"
	"github.com/kbukum/stagekit/logger"
)

// Pipeline is an immutable, ordered collection of artifacts bound to one
// cache root. Every transforming or combining operation returns a new
// Pipeline; the receiver is never modified.
type Pipeline struct {
	artifacts []artifact.Artifact
	store     *cache.Store
	opts      options
}

type options struct {
	workers    int
	log        *logger.Logger
	missHook   MissHook
	reportHook ReportHook
}

// Option configures a pipeline at construction. Derived pipelines inherit
// the options of the pipeline they came from.
type Option func(*options)

// WithWorkers sets the worker-pool size for SelectParallel. Zero or
// negative means use the available hardware parallelism.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger used for stage execution summaries.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMissHook sets the hook invoked once per cache miss. With
// SelectParallel the hook is invoked from pool workers and must be safe
// for concurrent use.
func WithMissHook(h MissHook) Option {
	return func(o *options) { o.missHook = h }
}

// WithReportHook sets the hook invoked once per stage execution with the
// execution summary.
func WithReportHook(h ReportHook) Option {
	return func(o *options) { o.reportHook = h }
}

// FromFiles constructs a pipeline by reading the given source files in
// order. Any unreadable file fails the whole construction.
func FromFiles(cacheRoot string, paths []string, opts ...Option) (*Pipeline, error) {
	artifacts := make([]artifact.Artifact, 0, len(paths))
	for _, path := range paths {
		a, err := artifact.FromFile(path)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return FromArtifacts(cacheRoot, artifacts, opts...)
}

// FromArtifacts constructs a pipeline from already-loaded artifacts.
func FromArtifacts(cacheRoot string, artifacts []artifact.Artifact, opts ...Option) (*Pipeline, error) {
	store, err := cache.NewStore(cacheRoot)
	if err != nil {
		return nil, err
	}

	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}
	if o.log == nil {
		o.log = logger.Get("pipeline")
	}

	snapshot := make([]artifact.Artifact, len(artifacts))
	copy(snapshot, artifacts)

	return &Pipeline{artifacts: snapshot, store: store, opts: o}, nil
}

// FromConfig constructs a pipeline from source files using a loaded
// configuration for the cache root and worker-pool size.
func FromConfig(cfg *config.Config, paths []string, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.MissingArgument("config")
	}
	base := []Option{WithWorkers(cfg.Workers)}
	return FromFiles(cfg.CacheRoot, paths, append(base, opts...)...)
}

// derive creates a new pipeline sharing this pipeline's store and options.
func (p *Pipeline) derive(artifacts []artifact.Artifact) *Pipeline {
	return &Pipeline{artifacts: artifacts, store: p.store, opts: p.opts}
}

// Len returns the number of artifacts in the pipeline.
func (p *Pipeline) Len() int { return len(p.artifacts) }

// CacheRoot returns the absolute cache root this pipeline is bound to.
func (p *Pipeline) CacheRoot() string { return p.store.Root() }

// Artifacts returns a snapshot of the pipeline's artifacts in order.
func (p *Pipeline) Artifacts() []artifact.Artifact {
	snapshot := make([]artifact.Artifact, len(p.artifacts))
	copy(snapshot, p.artifacts)
	return snapshot
}

// Payloads returns the current payload of every artifact in order.
func (p *Pipeline) Payloads() [][]byte {
	payloads := make([][]byte, len(p.artifacts))
	for i, a := range p.artifacts {
		payloads[i] = a.Payload
	}
	return payloads
}
