package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure on the wire.
type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeNotEligible       Code = "NOT_ELIGIBLE"
	CodeConflict          Code = "CONFLICT"
	CodeRateLimited       Code = "RATE_LIMITED"
	CodeInternal          Code = "INTERNAL_ERROR"
)

var httpStatus = map[Code]int{
	CodeValidation:        http.StatusBadRequest,
	CodeUnauthenticated:   http.StatusUnauthorized,
	CodeForbidden:         http.StatusForbidden,
	CodeNotFound:          http.StatusNotFound,
	CodeInvalidTransition: http.StatusConflict,
	CodeNotEligible:       http.StatusConflict,
	CodeConflict:          http.StatusConflict,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeInternal:          http.StatusInternalServerError,
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error type every service returns to the transport layer.
type AppError struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError carrying the same code, so callers can write
// errors.Is(err, apperrors.ErrForbidden).
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// HTTPStatus maps the code to a response status.
func (e *AppError) HTTPStatus() int {
	if s, ok := httpStatus[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation        = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthenticated   = &AppError{Code: CodeUnauthenticated, Message: "authentication required"}
	ErrForbidden         = &AppError{Code: CodeForbidden, Message: "access denied"}
	ErrNotFound          = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrInvalidTransition = &AppError{Code: CodeInvalidTransition, Message: "invalid status transition"}
	ErrNotEligible       = &AppError{Code: CodeNotEligible, Message: "not eligible"}
	ErrConflict          = &AppError{Code: CodeConflict, Message: "conflict"}
	ErrRateLimited       = &AppError{Code: CodeRateLimited, Message: "too many requests"}
	ErrInternal          = &AppError{Code: CodeInternal, Message: "internal server error"}
)

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(details ...FieldError) *AppError {
	return &AppError{Code: CodeValidation, Message: "validation failed", Details: details}
}

// Field is shorthand for a single-field validation error.
func Field(field, message string) *AppError {
	return Validation(FieldError{Field: field, Message: message})
}

func Unauthenticated(message string) *AppError {
	return New(CodeUnauthenticated, message)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

func InvalidTransition(message string) *AppError {
	return New(CodeInvalidTransition, message)
}

func NotEligible(message string) *AppError {
	return New(CodeNotEligible, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Internal(err error) *AppError {
	return Wrap(err, CodeInternal, "internal server error")
}

// From converts any error into an *AppError. Unknown errors become internal
// errors that keep the cause for logging.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
