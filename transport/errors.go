package transport

import (
	"fmt"
	"time"
)

// ErrorKind classifies a TransportError.
type ErrorKind int

const (
	// ConnectionFailed means the request never produced an HTTP response: connection
	// refused, DNS failure, connection reset, or a body that could not be read.
	ConnectionFailed ErrorKind = iota
	// Timeout means the request did not complete within its timeout.
	Timeout
	// Cancelled means the whole run was cancelled while the request was in flight.
	Cancelled
)

func (k ErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case Cancelled:
		return "cancelled"
	default:
		return "connection failed"
	}
}

// TransportError is returned by Client.Send when no usable HTTP response was obtained.
// An unexpected status code is never a TransportError.
type TransportError struct {
	Kind    ErrorKind
	Method  string
	URL     string
	Timeout time.Duration
	Cause   error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case Timeout:
		return fmt.Sprintf("%s %s timed out after %s", e.Method, e.URL, e.Timeout)
	case Cancelled:
		return fmt.Sprintf("%s %s was abandoned because the run was cancelled", e.Method, e.URL)
	default:
		return fmt.Sprintf("%s %s failed: %s", e.Method, e.URL, e.Cause)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DecodeError describes why a response body could not be decoded as JSON.
type DecodeError struct {
	Cause   error
	Snippet string
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return "response body was empty"
	}
	return fmt.Sprintf("response body is not valid JSON (%s): %q", e.Cause, e.Snippet)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
