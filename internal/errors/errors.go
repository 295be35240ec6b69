// Package errors defines the gateway's domain error types. Callback
// rejections map onto HTTP statuses in the handlers, so each stage of the
// verification pipeline gets its own kind.
package errors

import (
	"fmt"
	"strings"
)

// DomainError is a stable, code-carrying error for API consumers.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError reports a callback payload with missing or empty
// fields. The Missing list is surfaced verbatim for diagnostics.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or empty parameters: %s", strings.Join(e.Missing, ", "))
}

// TransportError wraps a network or timeout failure talking to the
// processor. Callers may retry; it never indicates a payment outcome.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("processor request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProcessorError carries a non-success status returned by Duitku.
type ProcessorError struct {
	StatusCode    string
	StatusMessage string
}

func (e *ProcessorError) Error() string {
	if e.StatusMessage == "" {
		return fmt.Sprintf("processor rejected request (status %s)", e.StatusCode)
	}
	return e.StatusMessage
}
