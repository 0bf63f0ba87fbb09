package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type Kind string

const (
	NotFound         Kind = "not_found"
	Conflict         Kind = "conflict"
	Unauthorized     Kind = "unauthorized"
	Forbidden        Kind = "forbidden"
	ValidationFailed Kind = "validation_failed"
	UpstreamFailure  Kind = "upstream_failure"
	Timeout          Kind = "timeout"
	Internal         Kind = "internal"
)

// Error is the (kind, message) pair the HTTP layer maps to a status code.
// ID is only set for Internal, UpstreamFailure and Timeout errors.
type Error struct {
	Kind    Kind
	Message string
	ID      string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string, err error) *Error {
	e := &Error{Kind: kind, Message: msg, Err: err}
	switch kind {
	case Internal, UpstreamFailure, Timeout:
		e.ID = NewID("ERR")
	}
	return e
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...), nil)
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, fmt.Sprintf(format, args...), nil)
}

func Validationf(format string, args ...any) *Error {
	return New(ValidationFailed, fmt.Sprintf(format, args...), nil)
}

func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, fmt.Sprintf(format, args...), nil)
}

func Forbiddenf(format string, args ...any) *Error {
	return New(Forbidden, fmt.Sprintf(format, args...), nil)
}

// Wrap classifies err. Wrapping as Internal keeps a more specific
// classification already present in err's chain.
func Wrap(kind Kind, msg string, err error) *Error {
	var inner *Error
	if kind == Internal && errors.As(err, &inner) {
		return inner
	}
	return New(kind, msg, err)
}

// NewID returns an opaque correlation id such as "ERR_1f0c9a2b".
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// As extracts an *Error from err. Anything else becomes an Internal error
// carrying err as its cause.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(Internal, "An unexpected error occurred. Please try again later.", err)
}

func Status(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case ValidationFailed:
		return http.StatusBadRequest
	case UpstreamFailure:
		return http.StatusBadGateway
	case Timeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
