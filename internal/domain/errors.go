package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError for callers that branch on the failure
// category rather than the HTTP status.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindBadRequest      ErrorKind = "bad_request"
	KindNotFound        ErrorKind = "not_found"
	KindValidation      ErrorKind = "validation"
	KindPaymentRequired ErrorKind = "payment_required"
	KindNotConfigured   ErrorKind = "not_configured"
	KindInternal        ErrorKind = "internal"
)

// AppError is a structured application error with HTTP status code.
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error constructors.

func ErrUnauthenticated(msg string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthenticated, Message: msg}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: msg}
}

func ErrNotFound(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: msg}
}

func ErrBadRequest(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: msg}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: msg}
}

func ErrPaymentRequired(msg string) *AppError {
	return &AppError{Code: http.StatusPaymentRequired, Kind: KindPaymentRequired, Message: msg}
}

// ErrNotConfigured reports a missing operator setting (price id, secret, bucket).
func ErrNotConfigured(msg string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindNotConfigured, Message: msg}
}

// ErrInternal wraps an upstream failure. Only msg is ever shown to the caller.
func ErrInternal(msg string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: msg, Err: err}
}

// AsAppError attempts to extract an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Kind == kind
}
