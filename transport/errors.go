package transport

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes failures raised by the transport itself.
type ErrorType string

const (
	NetworkError    ErrorType = "network"
	TimeoutError    ErrorType = "timeout"
	ValidationError ErrorType = "validation"
)

// ClientError is the error contract for transport failures. Callers can
// branch on Type or use errors.As/Is as usual.
type ClientError interface {
	error
	Type() ErrorType
}

type clientError struct {
	typ     ErrorType
	message string
	wrapped error
	timeout time.Duration
}

func (e *clientError) Error() string {
	switch {
	case e.typ == TimeoutError && e.timeout > 0:
		return fmt.Sprintf("%s error: %s (timeout: %v)", e.typ, e.message, e.timeout)
	case e.wrapped != nil:
		return fmt.Sprintf("%s error: %s: %v", e.typ, e.message, e.wrapped)
	default:
		return fmt.Sprintf("%s error: %s", e.typ, e.message)
	}
}

func (e *clientError) Type() ErrorType { return e.typ }

func (e *clientError) Unwrap() error { return e.wrapped }

// NewNetworkError creates a transport-level network failure.
func NewNetworkError(message string, wrapped error) ClientError {
	return &clientError{typ: NetworkError, message: message, wrapped: wrapped}
}

// NewTimeoutError creates a request timeout failure.
func NewTimeoutError(message string, timeout time.Duration, wrapped error) ClientError {
	return &clientError{typ: TimeoutError, message: message, timeout: timeout, wrapped: wrapped}
}

// NewValidationError creates a request validation failure.
func NewValidationError(message string) ClientError {
	return &clientError{typ: ValidationError, message: message}
}

// IsErrorType reports whether err (or anything it wraps) is a ClientError of
// the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var ce ClientError
	return errors.As(err, &ce) && ce.Type() == errorType
}
