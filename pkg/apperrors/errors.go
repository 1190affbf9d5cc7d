package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError independently of its message.
type ErrorCode string

const (
	ErrUnavailable ErrorCode = "service_unavailable"
	ErrInternal    ErrorCode = "internal_error"
)

// AppError pairs a client-safe message and HTTP status with the underlying cause.
type AppError struct {
	err        error
	message    string
	code       ErrorCode
	httpStatus int
}

// New creates an AppError. err may be nil.
func New(message string, status int, code ErrorCode, err error) *AppError {
	return &AppError{err: err, message: message, httpStatus: status, code: code}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *AppError) Unwrap() error { return e.err }

// Message returns the client-safe message.
func (e *AppError) Message() string { return e.message }

// StatusCode returns the HTTP status to use for this error.
func (e *AppError) StatusCode() int { return e.httpStatus }

// Code returns the classification code.
func (e *AppError) Code() ErrorCode { return e.code }

// Status returns the HTTP status carried by err, or fallback when err is not an AppError.
func Status(err error, fallback int) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.httpStatus != 0 {
		return appErr.httpStatus
	}
	return fallback
}

// Is reports whether any AppError in err's chain has the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.code == code
}
