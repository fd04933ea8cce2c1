// Package apperr defines the error taxonomy shared by all services.
// Every operation returns either nil or an *Error whose Kind tells the
// HTTP layer which status class to render.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// KindValidation - malformed or missing input, user-fixable.
	KindValidation Kind = iota
	// KindForbidden - authenticated but not authorized for this action.
	KindForbidden
	// KindNotFound - entity absent or not visible to the caller.
	KindNotFound
	// KindConflict - valid request, but current entity state disallows it.
	KindConflict
	// KindStorage - transaction or commit failure, not user-actionable.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "storage"
	}
}

// Error carries a stable kind plus a human-readable message. The wrapped
// cause (if any) is for logs only and never rendered to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a database/commit failure.
func Storage(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from any error chain. Unclassified errors are
// treated as storage failures so they surface as 5xx.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorage
}

// HTTPStatus maps an error to the status code the route layer renders.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage returns the message safe to show to the caller. Storage
// errors hide their cause behind a generic string.
func UserMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == KindStorage {
			return "internal error"
		}
		return ae.Message
	}
	return "internal error"
}
