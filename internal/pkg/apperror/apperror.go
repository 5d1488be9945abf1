package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindNotAvailable
	KindAlreadyDone
	KindInvalidArgument
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotAvailable:
		return "NOT_AVAILABLE"
	case KindAlreadyDone:
		return "ALREADY_DONE"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindConflict:
		return "CONFLICT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus returns the status code a handler should answer with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindNotAvailable, KindAlreadyDone, KindInvalidArgument:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AppError is a custom error type that includes a failure kind, its HTTP status code and an optional cause.
type AppError struct {
	Kind    Kind   // Failure class (e.g., KindNotFound)
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kind.HTTPStatus(),
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    kind.HTTPStatus(),
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError        { return New(KindNotFound, message) }
func Forbidden(message string) *AppError       { return New(KindForbidden, message) }
func NotAvailable(message string) *AppError    { return New(KindNotAvailable, message) }
func AlreadyDone(message string) *AppError     { return New(KindAlreadyDone, message) }
func InvalidArgument(message string) *AppError { return New(KindInvalidArgument, message) }
func Conflict(message string) *AppError        { return New(KindConflict, message) }
func Unauthorized(message string) *AppError    { return New(KindUnauthorized, message) }

// KindOf reports the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
