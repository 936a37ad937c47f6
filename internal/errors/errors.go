package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an application error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
	// ErrUnavailable marks connectivity-class failures: the upstream
	// scoreboard could not be reached. Writes that fail this way are
	// eligible for the offline queue.
	ErrUnavailable
)

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(msg string, err error) *Error {
	return &Error{Kind: ErrUnavailable, Message: msg, Err: err}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Is reports whether err (or anything it wraps) is an application
// error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsUnavailable reports whether err is a connectivity-class failure.
func IsUnavailable(err error) bool {
	return Is(err, ErrUnavailable)
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}
