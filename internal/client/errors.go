// ABOUTME: Typed errors returned by the campus events API client
// ABOUTME: Every failure carries a Kind so callers can branch without string matching

package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a client failure
type ErrorKind int

const (
	// KindTransport means the request never produced a response
	KindTransport ErrorKind = iota + 1
	// KindCanceled means the caller's context was canceled
	KindCanceled
	// KindTimeout means the request deadline passed
	KindTimeout
	// KindHTTP is a non-2xx response whose body carried a message
	KindHTTP
	// KindHTTPStatus is a non-2xx response without a usable message
	KindHTTPStatus
	// KindDecode is a 2xx response whose body could not be parsed
	KindDecode
	// KindNotFound is a 404 where the caller treats absence specially
	KindNotFound
	// KindValidation is a client-side input error; no request was sent
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindCanceled:
		return "canceled"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindHTTPStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the single error type produced by Client methods.
// Message is what a user should see; Err is the underlying cause, if any.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && (e.Kind == KindTransport || e.Kind == KindDecode) {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err (or anything it wraps) is a *Error of kind k
func IsKind(err error, k ErrorKind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == k
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}

// ValidationError builds a KindValidation error
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func statusError(status int) *Error {
	return &Error{
		Kind:    KindHTTPStatus,
		Status:  status,
		Message: fmt.Sprintf("HTTP error! status: %d", status),
	}
}
