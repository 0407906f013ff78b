package utils

import (
	"errors"
)

// AppError is the typed error returned by every boundary operation.
// Storage failures are wrapped into one of the standard codes at the layer
// where they occur; nothing is logged-and-swallowed.
type AppError struct {
	Code    string
	Message string
	Origin  error // original error that caused this one, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	ErrNotFound     = "NOT_FOUND"
	ErrForbidden    = "FORBIDDEN"
	ErrInvalidInput = "INVALID_INPUT"
	ErrConflict     = "CONFLICT" // concurrent update detected; caller should retry
	ErrDatabase     = "DATABASE_ERROR"
)

// NewAppError creates a typed error with an optional origin
func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// NotFound creates a NOT_FOUND error
func NotFound(message string) *AppError {
	return NewAppError(ErrNotFound, message, nil)
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *AppError {
	return NewAppError(ErrForbidden, message, nil)
}

// InvalidInput creates an INVALID_INPUT error
func InvalidInput(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, nil)
}

// Database wraps a storage failure
func Database(message string, origin error) *AppError {
	return NewAppError(ErrDatabase, message, origin)
}

// CodeOf extracts the application error code, if err is an AppError
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
