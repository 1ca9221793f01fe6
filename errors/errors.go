package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type for pipeline operations.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// MissingArgument creates a new AppError for a required argument that was
// not supplied.
func MissingArgument(name string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("Missing required argument: %s", name),
		Retryable: false,
		Details:   map[string]any{"argument": name},
	}
}

// InvalidArgument creates a new AppError for an argument with an invalid value.
func InvalidArgument(name, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("Invalid argument %s: %s", name, reason),
		Retryable: false,
		Details:   map[string]any{"argument": name},
	}
}

// InvalidOperation creates a new AppError for an operation that is not valid
// for the pipelines involved.
func InvalidOperation(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidOperation, Message: reason,
		Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Retryable: false, Details: details,
	}
}

// IOFailure creates a new AppError for a failed filesystem operation.
func IOFailure(operation, path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeIOFailure, Message: fmt.Sprintf("Filesystem operation %s failed for %s.", operation, path),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation, "path": path},
	}
}

// TransformFailure creates a new AppError for a caller-supplied
// transformation that failed for one artifact within a stage.
func TransformFailure(stage, artifact string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransformFailure, Message: fmt.Sprintf("Transformation %q failed for artifact %q.", stage, artifact),
		Retryable: false, Cause: cause,
		Details: map[string]any{"stage": stage, "artifact": artifact},
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: message,
		Retryable: false,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err is an AppError marked retryable.
// Errors outside the taxonomy are never retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}
