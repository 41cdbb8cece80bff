// Package apperror classifies failures so the HTTP layer can turn them into status codes
// without knowing where they came from.
package apperror

import (
	"errors"
	"net/http"
)

// Kind is the category of an application error.
type Kind int

const (
	KindInfrastructure Kind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "infrastructure"
	}
}

// StatusCode returns the HTTP status for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error. Message is safe to show to clients; Err is the cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFound(msg string) error { return newError(KindNotFound, msg, nil) }

func Conflict(msg string, cause error) error { return newError(KindConflict, msg, cause) }

func Validation(msg string, cause error) error { return newError(KindValidation, msg, cause) }

func Unauthorized(msg string) error { return newError(KindUnauthorized, msg, nil) }

func Forbidden(msg string) error { return newError(KindForbidden, msg, nil) }

func Infrastructure(msg string, cause error) error {
	return newError(KindInfrastructure, msg, cause)
}

// KindOf reports the kind of err. Unclassified errors are infrastructure errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the client-facing message for err. Infrastructure causes are hidden.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInfrastructure {
		return appErr.Message
	}
	return "internal server error"
}
