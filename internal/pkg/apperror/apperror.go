// Package apperror defines the closed set of failure kinds returned by the
// service layer. Controllers translate kinds into HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict_error"
	case KindNotFound:
		return "not_found_error"
	case KindRemote:
		return "remote_error"
	default:
		return "internal_error"
	}
}

// Error carries the kind, the operation that failed and, for remote
// failures, the type reported by the payments platform.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Type is the remote error type (e.g. "invalid_request_error"); empty for local errors.
	Type string
	// Status overrides the HTTP status derived from Kind when non-zero.
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return fmt.Sprintf("[%s] %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithStatus sets the HTTP status override and returns e.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Validation returns a KindValidation error.
func Validation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

// Conflict returns a KindConflict error.
func Conflict(op, msg string) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

// Remote wraps an error returned by the payments platform.
func Remote(op, remoteType string, err error) *Error {
	return &Error{Kind: KindRemote, Op: op, Type: remoteType, Err: err}
}

// Internal wraps an unexpected local failure.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Err: err}
}

// KindOf returns the kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// StatusOf returns the status override of err, 0 when none is set.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// TypeOf returns a short type label for err: the remote type for remote
// errors, the kind name for other *Error values, or the Go type otherwise.
func TypeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Type != "" {
			return e.Type
		}
		return e.Kind.String()
	}
	return fmt.Sprintf("%T", err)
}
