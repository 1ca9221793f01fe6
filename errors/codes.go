package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument and usage errors
const (
	// ErrCodeInvalidArgument indicates a required argument is missing or invalid.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidOperation indicates an operation is not valid for the
	// pipelines involved, such as concatenating across cache roots.
	ErrCodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	// ErrCodeNotFound indicates a requested group or resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Execution errors
const (
	// ErrCodeIOFailure indicates a filesystem read or write failed.
	ErrCodeIOFailure ErrorCode = "IO_FAILURE"
	// ErrCodeTransformFailure indicates a caller-supplied transformation
	// function failed.
	ErrCodeTransformFailure ErrorCode = "TRANSFORM_FAILURE"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeIOFailure:        true,
	ErrCodeInvalidArgument:  false,
	ErrCodeInvalidOperation: false,
	ErrCodeNotFound:         false,
	ErrCodeTransformFailure: false,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
