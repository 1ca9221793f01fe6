package pipeline

import (
	"context"
	"regexp"
	"sync"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/errors"
)

// BranchFunc processes one branch of a partition and returns the
// resulting pipeline.
type BranchFunc func(ctx context.Context, p *Pipeline) (*Pipeline, error)

// GroupRun pairs a group key with the branch function to run over that
// group in SplitByRun.
type GroupRun struct {
	Key string
	Fn  BranchFunc
}

// Where returns a pipeline keeping only the artifacts for which the
// predicate holds, preserving order.
func (p *Pipeline) Where(predicate func(a artifact.Artifact) bool) (*Pipeline, error) {
	if predicate == nil {
		return nil, errors.MissingArgument("predicate")
	}
	kept := make([]artifact.Artifact, 0, len(p.artifacts))
	for _, a := range p.artifacts {
		if predicate(a) {
			kept = append(kept, a)
		}
	}
	return p.derive(kept), nil
}

// Concat returns a pipeline with this pipeline's artifacts followed by
// the other pipeline's artifacts. Both pipelines must share the same
// cache root.
func (p *Pipeline) Concat(other *Pipeline) (*Pipeline, error) {
	if other == nil {
		return nil, errors.MissingArgument("other")
	}
	if p.store.Root() != other.store.Root() {
		return nil, errors.InvalidOperation("cannot concatenate pipelines with different cache roots").
			WithDetail("left", p.store.Root()).
			WithDetail("right", other.store.Root())
	}
	combined := make([]artifact.Artifact, 0, len(p.artifacts)+len(other.artifacts))
	combined = append(combined, p.artifacts...)
	combined = append(combined, other.artifacts...)
	return p.derive(combined), nil
}

// Split partitions the pipeline by a case-insensitive name pattern into
// the matching and non-matching pipelines, each preserving relative
// order.
func (p *Pipeline) Split(pattern string) (match, rest *Pipeline, err error) {
	re, err := compileNamePattern(pattern)
	if err != nil {
		return nil, nil, err
	}

	var matching, remaining []artifact.Artifact
	for _, a := range p.artifacts {
		if re.MatchString(a.Identity.Name) {
			matching = append(matching, a)
		} else {
			remaining = append(remaining, a)
		}
	}
	return p.derive(matching), p.derive(remaining), nil
}

// SplitRun partitions by pattern, runs matchFn over the matching branch
// and restFn over the non-matching branch concurrently, waits for both,
// and returns matchFn's result concatenated with restFn's result in that
// fixed order. A branch failure propagates after both branches settle.
func (p *Pipeline) SplitRun(ctx context.Context, pattern string, matchFn, restFn BranchFunc) (*Pipeline, error) {
	if matchFn == nil {
		return nil, errors.MissingArgument("matchFn")
	}
	if restFn == nil {
		return nil, errors.MissingArgument("restFn")
	}

	match, rest, err := p.Split(pattern)
	if err != nil {
		return nil, err
	}

	branches := []*Pipeline{match, rest}
	fns := []BranchFunc{matchFn, restFn}
	results := make([]*Pipeline, len(branches))
	errs := make([]error, len(branches))

	var wg sync.WaitGroup
	for i := range branches {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fns[i](ctx, branches[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results[0].Concat(results[1])
}

// SplitBy groups artifacts into named buckets using the key function.
// Group membership order matches input order; an empty key result lands
// in the empty-string bucket.
func (p *Pipeline) SplitBy(keySelector func(a artifact.Artifact) string) (map[string]*Pipeline, error) {
	if keySelector == nil {
		return nil, errors.MissingArgument("keySelector")
	}

	grouped := make(map[string][]artifact.Artifact)
	for _, a := range p.artifacts {
		key := keySelector(a)
		grouped[key] = append(grouped[key], a)
	}

	groups := make(map[string]*Pipeline, len(grouped))
	for key, artifacts := range grouped {
		groups[key] = p.derive(artifacts)
	}
	return groups, nil
}

// SplitByRun groups artifacts by key, then runs each supplied (key, fn)
// pair's function over its group concurrently with the other pairs.
// Results are concatenated in the order the pairs were supplied. A pair
// referencing a key with no group fails with NOT_FOUND before any branch
// runs; a branch failure propagates after all branches settle.
func (p *Pipeline) SplitByRun(ctx context.Context, keySelector func(a artifact.Artifact) string, runs ...GroupRun) (*Pipeline, error) {
	groups, err := p.SplitBy(keySelector)
	if err != nil {
		return nil, err
	}

	branches := make([]*Pipeline, len(runs))
	for i, run := range runs {
		if run.Fn == nil {
			return nil, errors.MissingArgument("fn").WithDetail("key", run.Key)
		}
		group, ok := groups[run.Key]
		if !ok {
			return nil, errors.NotFound("group", run.Key)
		}
		branches[i] = group
	}

	results := make([]*Pipeline, len(runs))
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = runs[i].Fn(ctx, branches[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		return p.derive(nil), nil
	}
	combined := results[0]
	for _, result := range results[1:] {
		combined, err = combined.Concat(result)
		if err != nil {
			return nil, err
		}
	}
	return combined, nil
}

// compileNamePattern compiles a case-insensitive artifact-name pattern.
func compileNamePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, errors.MissingArgument("pattern")
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, errors.InvalidArgument("pattern", "must be a valid regular expression").WithCause(err)
	}
	return re, nil
}
