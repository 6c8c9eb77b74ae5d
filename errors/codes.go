package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Contract violations: raised synchronously against the offending caller,
// never delivered through an iterator's error event.
const (
	// ErrCodeInvalidSource indicates a source that is nil or does not
	// implement a recognized iterator protocol.
	ErrCodeInvalidSource ErrorCode = "INVALID_SOURCE"
	// ErrCodeDestinationClaimed indicates a source whose destination
	// binding is already owned by another iterator.
	ErrCodeDestinationClaimed ErrorCode = "DESTINATION_CLAIMED"
	// ErrCodeSourceAlreadySet indicates an attempt to rebind an
	// iterator's source after it was set.
	ErrCodeSourceAlreadySet ErrorCode = "SOURCE_ALREADY_SET"
	// ErrCodeDoneCalledTwice indicates a begin/fill/flush/destroy
	// completion callback invoked more than once.
	ErrCodeDoneCalledTwice ErrorCode = "DONE_CALLED_TWICE"
	// ErrCodeUnsupportedWrap indicates a value handed to Wrap whose type
	// has no iterator adaptation.
	ErrCodeUnsupportedWrap ErrorCode = "UNSUPPORTED_WRAP"
)

// Stream runtime errors: delivered through the error event.
const (
	// ErrCodeUpstream indicates an error forwarded from a source iterator.
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrCodeTransformFailed indicates a transform stage failed on an item.
	ErrCodeTransformFailed ErrorCode = "TRANSFORM_FAILED"
	// ErrCodeIteratorDestroyed indicates an operation against an iterator
	// that was already destroyed.
	ErrCodeIteratorDestroyed ErrorCode = "ITERATOR_DESTROYED"
)

// Configuration and internal errors.
const (
	// ErrCodeInvalidConfig indicates a configuration value that failed
	// validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstream:        true,
	ErrCodeTransformFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable
// error — one where re-reading after the upstream recovers may succeed.
// Contract violations are never retryable: the call itself is wrong.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
