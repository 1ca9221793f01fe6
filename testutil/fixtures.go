package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/fingerprint"
)

// WriteFixture writes one fixture file under dir and returns its path.
func WriteFixture(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// WriteFixtures writes the given name-to-content files under dir and
// returns their paths in the order of names.
func WriteFixtures(t *testing.T, dir string, names []string, contents map[string][]byte) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = WriteFixture(t, dir, name, contents[name])
	}
	return paths
}

// CountingTransform wraps a transform function and counts invocations.
// Use it to assert cache behavior: a cache hit must not increment the
// counter.
type CountingTransform struct {
	Transform *fingerprint.Transform
	calls     atomic.Int64
}

// NewCountingTransform builds a counting transform with the given version
// token around fn.
func NewCountingTransform(t *testing.T, version string, fn fingerprint.Func) *CountingTransform {
	t.Helper()
	ct := &CountingTransform{}
	tr, err := fingerprint.New(version, func(a artifact.Artifact) ([]byte, string, error) {
		ct.calls.Add(1)
		return fn(a)
	})
	if err != nil {
		t.Fatalf("building counting transform: %v", err)
	}
	ct.Transform = tr
	return ct
}

// Calls returns the number of times the wrapped function was invoked.
func (ct *CountingTransform) Calls() int {
	return int(ct.calls.Load())
}

// MissCounter counts cache-miss hook invocations. Safe for concurrent
// use, so it works with parallel stage execution.
type MissCounter struct {
	misses atomic.Int64
}

// Record increments the counter. Pass it as the pipeline's miss hook.
func (mc *MissCounter) Record(_ context.Context, _ string, _ artifact.Artifact) {
	mc.misses.Add(1)
}

// Count returns the number of recorded misses.
func (mc *MissCounter) Count() int {
	return int(mc.misses.Load())
}
