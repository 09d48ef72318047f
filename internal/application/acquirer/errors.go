package acquirer

import (
	"errors"
	"fmt"
)

type FailureKind string

const (
	// FailureClient means the acquirer rejected the request (4xx, declined card).
	FailureClient FailureKind = "client"
	// FailureServer means the acquirer failed while handling the request.
	FailureServer FailureKind = "server"
	// FailureConnectivity covers timeouts and transport errors; the acquirer
	// may or may not have seen the request.
	FailureConnectivity FailureKind = "connectivity"
	FailureUnknown      FailureKind = "unknown"
)

// Error is returned by adapters for every failed approval.
type Error struct {
	Adapter    string
	Kind       FailureKind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("acquirer %s: %s failure", e.Adapter, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the caller may reasonably retry the approval.
func (e *Error) Retryable() bool {
	return e.Kind == FailureServer || e.Kind == FailureConnectivity
}

// AsError extracts the adapter failure from err, if any.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
