package logger

import (
	"time"
)

// Standard field key constants for structured logging.
const (
	FieldComponent   = "component"
	FieldStage       = "stage"
	FieldArtifact    = "artifact"
	FieldFingerprint = "fingerprint"
	FieldCacheResult = "cache_result"
	FieldCount       = "count"
	FieldHits        = "hits"
	FieldMisses      = "misses"
	FieldWorkers     = "workers"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldBytes       = "bytes"
	FieldPath        = "path"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("stage done", logger.Fields("stage", "resize", "count", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// StageFields creates fields for a stage execution summary.
func StageFields(stage string, count, hits, misses int, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldStage:    stage,
		FieldCount:    count,
		FieldHits:     hits,
		FieldMisses:   misses,
		FieldDuration: d.Milliseconds(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
