package errors

import (
	"errors"
	"fmt"
)

// Exit codes reported by the planner CLI for each error class.
const (
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitUnusable   = 4
)

// Error represents a typed planner error carrying a stable code and the CLI exit status.
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	ExitCode int    `json:"-"`
	Err      error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so Clone'd values compare equal to their template.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}

// New creates a new Error instance.
func New(code string, exitCode int, message string) *Error {
	return &Error{Code: code, ExitCode: exitCode, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, template *Error, message string) *Error {
	return &Error{Code: template.Code, ExitCode: template.ExitCode, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation         = New("VALIDATION_ERROR", ExitValidation, "validation failed")
	ErrNotFound           = New("NOT_FOUND", ExitNotFound, "resource not found")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", ExitUnusable, "precondition failed")
	ErrUnsupportedFormat  = New("UNSUPPORTED_FORMAT", ExitValidation, "unsupported format")
	ErrCacheMiss          = New("CACHE_MISS", ExitInternal, "cache miss")
	ErrInternal           = New("INTERNAL_ERROR", ExitInternal, "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
