package longpoll

import (
	"errors"
	"fmt"
)

// ErrorType categorizes long-request failures.
type ErrorType string

const (
	// ErrTypeInterrupted marks a backoff wait cancelled before completion.
	ErrTypeInterrupted ErrorType = "interrupted"
	// ErrTypeStatus marks a terminal response outside the allow-list.
	ErrTypeStatus ErrorType = "status"
	// ErrTypeDecode marks a body that failed to deserialize.
	ErrTypeDecode ErrorType = "decode"
)

// PollError is the error contract for this package. Transport failures from
// the attempt itself are not wrapped; they propagate unchanged.
type PollError interface {
	error
	Type() ErrorType
}

// responseError formats a failure around a received response:
// "<context>: [<status> <phrase>] <body>". Both failure modes share the
// shape so logs correlate on one pattern.
func responseError(context string, statusCode int, reasonPhrase string, body []byte) string {
	return fmt.Sprintf("%s: [%d %s] %s", context, statusCode, reasonPhrase, body)
}

// InterruptedError reports a cancelled backoff wait. The polling loop never
// resumes after one of these.
type InterruptedError struct {
	Operation string
	cause     error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("long request %q interrupted: %v", e.Operation, e.cause)
}

func (e *InterruptedError) Type() ErrorType { return ErrTypeInterrupted }

func (e *InterruptedError) Unwrap() error { return e.cause }

// StatusError reports a terminal status code outside the caller's
// allow-list. The raw body is kept for diagnosis; it is never decoded.
type StatusError struct {
	statusCode   int
	reasonPhrase string
	body         []byte
}

func (e *StatusError) Error() string {
	return responseError("invalid status code", e.statusCode, e.reasonPhrase, e.body)
}

func (e *StatusError) Type() ErrorType { return ErrTypeStatus }

// StatusCode returns the offending HTTP status code.
func (e *StatusError) StatusCode() int { return e.statusCode }

// ReasonPhrase returns the status line reason phrase.
func (e *StatusError) ReasonPhrase() string { return e.reasonPhrase }

// Body returns the raw response body.
func (e *StatusError) Body() []byte { return e.body }

// DecodeError reports a body that failed to deserialize despite an
// acceptable status code.
type DecodeError struct {
	statusCode   int
	reasonPhrase string
	body         []byte
	cause        error
}

func (e *DecodeError) Error() string {
	return responseError("failed to deserialize response body", e.statusCode, e.reasonPhrase, e.body)
}

func (e *DecodeError) Type() ErrorType { return ErrTypeDecode }

func (e *DecodeError) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status code of the undecodable response.
func (e *DecodeError) StatusCode() int { return e.statusCode }

// Body returns the raw response body.
func (e *DecodeError) Body() []byte { return e.body }

// IsErrorType reports whether err (or anything it wraps) is a PollError of
// the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var pe PollError
	return errors.As(err, &pe) && pe.Type() == errorType
}
