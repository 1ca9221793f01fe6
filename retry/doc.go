// Package retry provides generic retry with exponential backoff and
// jitter. The default policy retries only errors the errors package
// marks retryable, so validation and transform failures fail fast while
// transient IO failures get another chance. The cache store uses it for
// entry publication.
package retry
