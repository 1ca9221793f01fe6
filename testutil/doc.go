// Package testutil provides fixtures for testing pipeline code: fixture
// file writers, invocation-counting transforms, and a concurrent-safe
// cache-miss counter.
package testutil
