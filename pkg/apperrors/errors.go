package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable, client-visible error identifier.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "validation_error"
	ErrConflict     ErrorCode = "conflict"
	ErrNotFound     ErrorCode = "not_found"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrForbidden    ErrorCode = "forbidden"
	ErrTooMany      ErrorCode = "too_many_requests"
	ErrInternal     ErrorCode = "internal_error"
)

// AppError pairs a client-safe message with an HTTP status and code.
type AppError struct {
	err        error
	message    string
	code       ErrorCode
	httpStatus int
}

// New creates a new AppError with supplied details.
func New(message string, status int, code ErrorCode, err error) *AppError {
	return &AppError{err: err, message: message, httpStatus: status, code: code}
}

// Unauthorized is the 401 flavour: the caller has to identify itself first.
func Unauthorized(message string) *AppError {
	return New(message, http.StatusUnauthorized, ErrUnauthorized, nil)
}

// Forbidden is the 403 flavour: the caller is known but not allowed.
func Forbidden(message string) *AppError {
	return New(message, http.StatusForbidden, ErrForbidden, nil)
}

// NotFound is the 404 flavour. cause may be nil.
func NotFound(message string, cause error) *AppError {
	return New(message, http.StatusNotFound, ErrNotFound, cause)
}

// TooManyRequests is the 429 flavour.
func TooManyRequests(message string) *AppError {
	return New(message, http.StatusTooManyRequests, ErrTooMany, nil)
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Message returns a safe error message for clients.
func (e *AppError) Message() string {
	return e.message
}

// StatusCode returns the HTTP status to use for this error.
func (e *AppError) StatusCode() int {
	return e.httpStatus
}

// Code returns the application level error code.
func (e *AppError) Code() ErrorCode {
	return e.code
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// As extracts the AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// Wrap converts a standard error into an AppError if needed.
func Wrap(err error, message string, status int, code ErrorCode) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return New(message, status, code, err)
}
