// Package errors provides unified error handling for the pipeline engine.
// It implements a structured error type with machine-readable error codes,
// detail maps carrying stage and artifact context, and retryable detection.
package errors
