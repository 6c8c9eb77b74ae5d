// Package errors provides structured error handling for the iterator
// runtime: machine-readable codes, retryable detection, and cause chains.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the structured error type shared by every component.
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

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
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

// --- Common Error Constructors ---

// InvalidSource creates an AppError for a nil or unrecognized source.
func InvalidSource(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidSource, Message: reason,
	}
}

// DestinationClaimed creates an AppError for a source whose destination
// binding is already owned.
func DestinationClaimed() *AppError {
	return &AppError{
		Code: ErrCodeDestinationClaimed, Message: "source already has a destination bound",
	}
}

// SourceAlreadySet creates an AppError for rebinding an iterator's source.
func SourceAlreadySet() *AppError {
	return &AppError{
		Code: ErrCodeSourceAlreadySet, Message: "source cannot be changed once set",
	}
}

// DoneCalledTwice creates an AppError for a completion callback invoked
// more than once.
func DoneCalledTwice(operation string) *AppError {
	return &AppError{
		Code: ErrCodeDoneCalledTwice, Message: fmt.Sprintf("done callback invoked more than once in %s", operation),
		Details: map[string]any{"operation": operation},
	}
}

// UnsupportedWrap creates an AppError for a value Wrap cannot adapt.
func UnsupportedWrap(typeName string) *AppError {
	e := &AppError{
		Code: ErrCodeUnsupportedWrap, Message: "wrap does not support this value's type",
	}
	if typeName != "" {
		e.Details = map[string]any{"type": typeName}
	}
	return e
}

// Upstream creates an AppError wrapping an error forwarded from a source.
func Upstream(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUpstream, Message: "upstream iterator reported an error",
		Retryable: true, Cause: cause,
	}
}

// TransformFailed creates an AppError for a failed transform stage.
func TransformFailed(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTransformFailed, Message: fmt.Sprintf("transform stage %s failed", stage),
		Retryable: true, Cause: cause,
		Details: map[string]any{"stage": stage},
	}
}

// IteratorDestroyed creates an AppError for use of a destroyed iterator.
func IteratorDestroyed() *AppError {
	return &AppError{
		Code: ErrCodeIteratorDestroyed, Message: "iterator has been destroyed",
	}
}

// InvalidConfig creates an AppError for a configuration value that failed
// validation.
func InvalidConfig(field, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("invalid configuration: %s", reason),
		Details: map[string]any{"field": field},
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}
