// Package pipeline implements a staged, content-addressed transformation
// pipeline over batches of file artifacts.
//
// A Pipeline is an immutable, ordered collection of artifacts bound to
// one cache root. Select applies a named transformation stage to every
// artifact, memoizing each result on disk keyed by a fingerprint of the
// input payload, the artifact name, and the transform's identity, so
// re-running the same pipeline over the same inputs is a cache hit
// rather than recomputation. SelectParallel does the same work across a
// worker pool while preserving input order in the output.
//
//	upper, _ := fingerprint.New("upper-v1", upperFunc)
//	p, _ := pipeline.FromFiles(cacheRoot, []string{"a.txt", "b.txt"})
//	p, _ = p.Select(ctx, "upper", upper)
//
// Combinators compose pipelines: Where filters, Concat merges two
// pipelines sharing a cache root, Split partitions by a case-insensitive
// name pattern, and SplitBy partitions by a caller-supplied key. SplitRun
// and SplitByRun fan the branches out to concurrent branch functions and
// recombine the results in a deterministic order.
//
// Failed operations return an error and no pipeline; there is no partial
// success. Stage execution runs to completion or failure; the context
// passed to Select flows to observability hooks, not to cancellation.
package pipeline
