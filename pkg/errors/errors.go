package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
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

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrRateLimited
	ErrExternalSource
	ErrInternal
)

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

// RateLimited signals that the outbound call budget for a key is exhausted.
// Callers treat it as a hard stop for the operation, never a silent degrade.
func RateLimited(key string) *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: "rate limit exceeded",
		Err:     fmt.Errorf("budget exhausted for %s", key),
	}
}

// ExternalSource wraps a non-success response or malformed payload from an
// upstream API.
func ExternalSource(source string, err error) *AppError {
	return &AppError{
		Code:    ErrExternalSource,
		Message: fmt.Sprintf("%s request failed", source),
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// IsRateLimited reports whether err is (or wraps) a rate limit rejection.
func IsRateLimited(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == ErrRateLimited
	}
	return false
}

// Code extracts the error code from err, defaulting to ErrInternal.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
