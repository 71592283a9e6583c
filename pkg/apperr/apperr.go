// Package apperr defines the error taxonomy shared by services and handlers.
// An *Error carries the HTTP status it should be rendered with and a list of
// human-readable details.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error independent of its message.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindDuplicateEmail     Kind = "DuplicateEmail"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindForbidden          Kind = "Forbidden"
	KindNotFound           Kind = "NotFound"
	KindInternal           Kind = "InternalError"
)

// Sentinels for errors.Is comparisons against a kind.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrDuplicateEmail     = &Error{Kind: KindDuplicateEmail}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInternal           = &Error{Kind: KindInternal}
)

type Detail struct {
	Message string `json:"message"`
}

type Error struct {
	Kind       Kind
	StatusCode int
	Errors     []Detail
	cause      error
}

func (e *Error) Error() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	return "Something went wrong"
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind so callers can write errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, status int, messages ...string) *Error {
	details := make([]Detail, 0, len(messages))
	for _, m := range messages {
		details = append(details, Detail{Message: m})
	}
	return &Error{Kind: kind, StatusCode: status, Errors: details}
}

func Validation(messages ...string) *Error {
	return newError(KindValidation, http.StatusBadRequest, messages...)
}

func DuplicateEmail(message string) *Error {
	return newError(KindDuplicateEmail, http.StatusBadRequest, message)
}

// InvalidCredentials always carries the same message so that unknown email and
// wrong password are indistinguishable to the caller.
func InvalidCredentials() *Error {
	return newError(KindInvalidCredentials, http.StatusUnauthorized, "Invalid credentials")
}

func Unauthenticated(message string) *Error {
	return newError(KindUnauthenticated, http.StatusUnauthorized, message)
}

func Forbidden() *Error {
	return newError(KindForbidden, http.StatusForbidden, "Forbidden")
}

func NotFound(message string) *Error {
	return newError(KindNotFound, http.StatusNotFound, message)
}

// Internal wraps an unexpected failure. The cause is kept for logging only.
func Internal(message string, cause error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, message)
	e.cause = cause
	return e
}

// From returns err as an *Error, converting unknown errors to InternalError.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("Internal server error", err)
}
