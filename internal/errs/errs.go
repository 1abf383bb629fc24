// Package errs defines the error taxonomy shared by every tool operation.
// Errors cross the tool boundary as data (an Envelope), never as faults.
package errs

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// Kind classifies an operation failure.
type Kind string

const (
	Validation    Kind = "ValidationError"
	RemoteService Kind = "RemoteServiceError"
	Timeout       Kind = "TimeoutError"
	Internal      Kind = "InternalError"
)

// Error carries a failure kind and, for per-group failures inside aggregate
// operations, the log group it came from.
type Error struct {
	Kind     Kind
	LogGroup string
	Err      error
}

func (e *Error) Error() string {
	if e.LogGroup != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.LogGroup, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Validationf reports malformed or contradictory caller input.
func Validationf(format string, args ...any) error {
	return &Error{Kind: Validation, Err: fmt.Errorf(format, args...)}
}

// Remotef reports a backend rejection or failure.
func Remotef(format string, args ...any) error {
	return &Error{Kind: RemoteService, Err: fmt.Errorf(format, args...)}
}

// Timeoutf reports a local deadline exceeded without backend completion.
func Timeoutf(format string, args ...any) error {
	return &Error{Kind: Timeout, Err: fmt.Errorf(format, args...)}
}

// Internalf reports an unexpected invariant violation.
func Internalf(format string, args ...any) error {
	return &Error{Kind: Internal, Err: fmt.Errorf(format, args...)}
}

// WithGroup tags err with the log group an aggregate sub-operation was
// working on. The kind is preserved when err already carries one.
func WithGroup(logGroup string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), LogGroup: logGroup, Err: err}
}

// KindOf extracts the failure kind from err, mapping context deadline errors
// to Timeout and anything unclassified to Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Envelope is the structured error payload returned across the tool boundary.
type Envelope struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
	LogGroup  string `json:"logGroup,omitempty"`
}

// ToEnvelope renders err as a boundary envelope.
func ToEnvelope(err error) *Envelope {
	env := &Envelope{ErrorKind: string(KindOf(err)), Message: err.Error()}
	var e *Error
	if errors.As(err, &e) {
		env.LogGroup = e.LogGroup
		env.Message = e.Err.Error()
	}
	return env
}

// transientCodes are backend error codes worth retrying with backoff.
// Everything else (access denied, malformed query, missing group) fails
// immediately.
var transientCodes = map[string]struct{}{
	"ThrottlingException":         {},
	"Throttling":                  {},
	"LimitExceededException":      {},
	"ServiceUnavailableException": {},
	"RequestTimeout":              {},
	"RequestTimeoutException":     {},
	"InternalServerError":         {},
	"ServiceUnavailable":          {},
}

// IsTransient reports whether err is a retryable backend error.
func IsTransient(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		_, ok := transientCodes[apiErr.ErrorCode()]
		return ok
	}
	return false
}
