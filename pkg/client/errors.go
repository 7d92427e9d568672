package client

import (
	"errors"
	"fmt"
)

// ErrorClass represents a classification of fetch errors.
type ErrorClass string

const (
	// ErrorClassTransport represents failed HTTP calls and non-2xx responses.
	ErrorClassTransport ErrorClass = "transport"

	// ErrorClassProtocol represents responses that are not valid JSON or lack
	// the required search page keys.
	ErrorClassProtocol ErrorClass = "protocol"
)

// TransportError is returned when the HTTP call fails or the server answers
// with a non-success status. It is never retried; the failing page aborts the
// whole fetch.
type TransportError struct {
	StatusCode int
	URL        string
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transport error for %s: unexpected status %d", e.URL, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when a page response cannot be interpreted as a
// search page: the body is not valid JSON, or the required keys "results" and
// "pages" are absent or malformed.
type ProtocolError struct {
	Page    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error on page %d: %s: %v", e.Page, e.Message, e.Err)
	}
	return fmt.Sprintf("protocol error on page %d: %s", e.Page, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Classify returns the error class of err for metrics and logging, or the
// empty class for errors that are neither transport nor protocol failures.
func Classify(err error) ErrorClass {
	var te *TransportError
	var pe *ProtocolError

	switch {
	case errors.As(err, &te):
		return ErrorClassTransport
	case errors.As(err, &pe):
		return ErrorClassProtocol
	default:
		return ""
	}
}
