// Package apperr defines the application error taxonomy and its mapping to
// HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error for HTTP status mapping.
type Kind int

const (
	// KindValidation - 400: malformed or out-of-range input.
	KindValidation Kind = iota
	// KindAuth - 401: bad admin password.
	KindAuth
	// KindNotFound - 404: missing admin or registration.
	KindNotFound
	// KindConflict - 400: duplicate admin.
	KindConflict
	// KindInternal - 500: unexpected persistence or transport failure.
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// StatusOf maps any error to an HTTP status. Non-apperr errors are 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status()
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
