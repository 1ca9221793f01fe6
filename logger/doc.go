// Package logger provides structured logging for the pipeline engine,
// built on zerolog.
//
// Initialize once from config, then use the global logger or a
// component-tagged child:
//
//	logger.Init(logger.Config{Level: "debug", Format: "console"})
//	log := logger.WithComponent("cache")
//	log.Debug("entry written", logger.Fields("stage", "resize", "fingerprint", hex))
//
// Field key constants in fields.go keep stage, artifact, and cache fields
// consistent across packages.
package logger
