package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/stagekit/artifact"
	"github.com/kbukum/stagekit/errors"
)

func TestWhere_FiltersPreservingOrder(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "b.bin", "c.txt"}, map[string][]byte{
		"a.txt": []byte("A"), "b.bin": []byte("B"), "c.txt": []byte("C"),
	})

	out, err := p.Where(func(a artifact.Artifact) bool {
		return a.Identity.Extension == ".txt"
	})
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(names(out), []string{"a.txt", "c.txt"}) {
		t.Errorf("expected [a.txt c.txt], got %v", names(out))
	}
}

func TestWhere_NilPredicate(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt"}, map[string][]byte{"a.txt": []byte("A")})
	_, err := p.Where(nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestConcat_LeftThenRight(t *testing.T) {
	root := t.TempDir()
	left, err := FromArtifacts(root, []artifact.Artifact{
		artifact.New("a.txt", []byte("A")),
	})
	if err != nil {
		t.Fatal(err)
	}
	right, err := FromArtifacts(root, []artifact.Artifact{
		artifact.New("b.txt", []byte("B")),
		artifact.New("c.txt", []byte("C")),
	})
	if err != nil {
		t.Fatal(err)
	}

	out, err := left.Concat(right)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(names(out), []string{"a.txt", "b.txt", "c.txt"}) {
		t.Errorf("expected left-then-right order, got %v", names(out))
	}
}

func TestConcat_DifferentCacheRoots(t *testing.T) {
	left, _ := FromArtifacts(t.TempDir(), nil)
	right, _ := FromArtifacts(t.TempDir(), nil)

	_, err := left.Concat(right)
	if !errors.HasCode(err, errors.ErrCodeInvalidOperation) {
		t.Errorf("expected INVALID_OPERATION, got %v", err)
	}
}

func TestConcat_NilOther(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), nil)
	_, err := p.Concat(nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestSplit_PartitionComplete(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "b.bin", "c.txt", "d.dat"}, map[string][]byte{
		"a.txt": []byte("A"), "b.bin": []byte("B"), "c.txt": []byte("C"), "d.dat": []byte("D"),
	})

	match, rest, err := p.Split(`\.txt$`)
	if err != nil {
		t.Fatal(err)
	}
	if match.Len()+rest.Len() != p.Len() {
		t.Errorf("expected partition counts to sum to %d, got %d+%d", p.Len(), match.Len(), rest.Len())
	}
	if !equalStrings(names(match), []string{"a.txt", "c.txt"}) {
		t.Errorf("unexpected matching branch: %v", names(match))
	}
	if !equalStrings(names(rest), []string{"b.bin", "d.dat"}) {
		t.Errorf("unexpected non-matching branch: %v", names(rest))
	}
}

func TestSplit_CaseInsensitive(t *testing.T) {
	p := newFilePipeline(t, []string{"PHOTO.JPG", "doc.txt"}, map[string][]byte{
		"PHOTO.JPG": []byte("P"), "doc.txt": []byte("D"),
	})

	match, _, err := p.Split(`\.jpg$`)
	if err != nil {
		t.Fatal(err)
	}
	if match.Len() != 1 || match.Artifacts()[0].Identity.Name != "PHOTO.JPG" {
		t.Errorf("expected case-insensitive match, got %v", names(match))
	}
}

func TestSplit_EmptyPattern(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), nil)
	_, _, err := p.Split("")
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestSplit_InvalidPattern(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), nil)
	_, _, err := p.Split("(unclosed")
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestSplitRun_BranchesRecombineInOrder(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "b.bin"}, map[string][]byte{
		"a.txt": []byte("A"), "b.bin": []byte("B"),
	})

	upper := upperTransform(t)
	lower := lowerTransform(t)

	out, err := p.SplitRun(context.Background(), `\.txt$`,
		func(ctx context.Context, branch *Pipeline) (*Pipeline, error) {
			return branch.Select(ctx, "s1", upper)
		},
		func(ctx context.Context, branch *Pipeline) (*Pipeline, error) {
			return branch.Select(ctx, "s2", lower)
		})
	if err != nil {
		t.Fatal(err)
	}

	// Match branch result first, then non-match branch result.
	if !equalStrings(names(out), []string{"a.txt", "b.bin"}) {
		t.Errorf("expected match-then-rest order, got %v", names(out))
	}
	if !equalStrings(payloads(out), []string{"A", "b"}) {
		t.Errorf("expected [A b], got %v", payloads(out))
	}
}

func TestSplitRun_NilBranchFn(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), nil)
	passthrough := func(_ context.Context, branch *Pipeline) (*Pipeline, error) { return branch, nil }

	_, err := p.SplitRun(context.Background(), `\.txt$`, nil, passthrough)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for nil matchFn, got %v", err)
	}
	_, err = p.SplitRun(context.Background(), `\.txt$`, passthrough, nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT for nil restFn, got %v", err)
	}
}

func TestSplitRun_BranchFailurePropagates(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "b.bin"}, map[string][]byte{
		"a.txt": []byte("A"), "b.bin": []byte("B"),
	})

	otherRan := false
	_, err := p.SplitRun(context.Background(), `\.txt$`,
		func(_ context.Context, _ *Pipeline) (*Pipeline, error) {
			return nil, errors.New(errors.ErrCodeTransformFailure, "branch failed")
		},
		func(_ context.Context, branch *Pipeline) (*Pipeline, error) {
			otherRan = true
			return branch, nil
		})
	if !errors.HasCode(err, errors.ErrCodeTransformFailure) {
		t.Errorf("expected TRANSFORM_FAILURE, got %v", err)
	}
	if !otherRan {
		t.Error("expected sibling branch to settle before the failure propagates")
	}
}

func TestSplitBy_GroupsByKey(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "b.txt", "c.bin"}, map[string][]byte{
		"a.txt": []byte("A"), "b.txt": []byte("B"), "c.bin": []byte("C"),
	})

	groups, err := p.SplitBy(func(a artifact.Artifact) string {
		return strings.TrimPrefix(a.Identity.Extension, ".")
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if !equalStrings(names(groups["txt"]), []string{"a.txt", "b.txt"}) {
		t.Errorf("expected txt group in input order, got %v", names(groups["txt"]))
	}
	if !equalStrings(names(groups["bin"]), []string{"c.bin"}) {
		t.Errorf("unexpected bin group: %v", names(groups["bin"]))
	}
}

func TestSplitBy_EmptyKeyBucket(t *testing.T) {
	p := newFilePipeline(t, []string{"README", "a.txt"}, map[string][]byte{
		"README": []byte("R"), "a.txt": []byte("A"),
	})

	groups, err := p.SplitBy(func(a artifact.Artifact) string {
		return strings.TrimPrefix(a.Identity.Extension, ".")
	})
	if err != nil {
		t.Fatal(err)
	}
	if groups[""].Len() != 1 {
		t.Errorf("expected extensionless file in empty-string bucket, got %v", groups)
	}
}

func TestSplitBy_NilKeySelector(t *testing.T) {
	p, _ := FromArtifacts(t.TempDir(), nil)
	_, err := p.SplitBy(nil)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestSplitByRun_ResultsInPairOrder(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "b.txt", "c.bin"}, map[string][]byte{
		"a.txt": []byte("aa"), "b.txt": []byte("bb"), "c.bin": []byte("cc"),
	})

	byExtension := func(a artifact.Artifact) string {
		return strings.TrimPrefix(a.Identity.Extension, ".")
	}
	upper := upperTransform(t)

	out, err := p.SplitByRun(context.Background(), byExtension,
		GroupRun{Key: "bin", Fn: func(ctx context.Context, group *Pipeline) (*Pipeline, error) {
			return group.Select(ctx, "f1", upper)
		}},
		GroupRun{Key: "txt", Fn: func(ctx context.Context, group *Pipeline) (*Pipeline, error) {
			return group, nil
		}},
	)
	if err != nil {
		t.Fatal(err)
	}

	// bin pair was supplied first, so its results lead.
	if !equalStrings(names(out), []string{"c.bin", "a.txt", "b.txt"}) {
		t.Errorf("expected pair-supply order, got %v", names(out))
	}
	if !equalStrings(payloads(out), []string{"CC", "aa", "bb"}) {
		t.Errorf("expected [CC aa bb], got %v", payloads(out))
	}
}

func TestSplitByRun_MissingKey(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt"}, map[string][]byte{"a.txt": []byte("A")})

	ran := false
	_, err := p.SplitByRun(context.Background(),
		func(a artifact.Artifact) string { return "txt" },
		GroupRun{Key: "missing", Fn: func(_ context.Context, group *Pipeline) (*Pipeline, error) {
			ran = true
			return group, nil
		}},
	)
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if ran {
		t.Error("expected no branch to run when a key is missing")
	}
}

func TestSplitByRun_NilFn(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt"}, map[string][]byte{"a.txt": []byte("A")})
	_, err := p.SplitByRun(context.Background(),
		func(a artifact.Artifact) string { return "txt" },
		GroupRun{Key: "txt", Fn: nil},
	)
	if !errors.HasCode(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestSplitByRun_BranchFailureAfterSettle(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt", "c.bin"}, map[string][]byte{
		"a.txt": []byte("A"), "c.bin": []byte("C"),
	})

	byExtension := func(a artifact.Artifact) string {
		return strings.TrimPrefix(a.Identity.Extension, ".")
	}
	siblingRan := false
	_, err := p.SplitByRun(context.Background(), byExtension,
		GroupRun{Key: "txt", Fn: func(_ context.Context, _ *Pipeline) (*Pipeline, error) {
			return nil, fmt.Errorf("txt branch failed")
		}},
		GroupRun{Key: "bin", Fn: func(_ context.Context, group *Pipeline) (*Pipeline, error) {
			siblingRan = true
			return group, nil
		}},
	)
	if err == nil || !strings.Contains(err.Error(), "txt branch failed") {
		t.Errorf("expected txt branch failure, got %v", err)
	}
	if !siblingRan {
		t.Error("expected sibling branch to settle")
	}
}

func TestSplitByRun_NoPairs(t *testing.T) {
	p := newFilePipeline(t, []string{"a.txt"}, map[string][]byte{"a.txt": []byte("A")})
	out, err := p.SplitByRun(context.Background(), func(a artifact.Artifact) string { return "txt" })
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("expected empty result for zero pairs, got %d", out.Len())
	}
}
