// Package artifact defines the value type that moves through the pipeline:
// an immutable origin-file identity plus the current payload bytes and an
// opaque side-channel string produced by the previous stage.
package artifact
