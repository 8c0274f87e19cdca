// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error taxonomy shared by every Agora package.

Services and stores return an [*AppError] for every failure a client can
act on. The HTTP boundary (respond.Error) turns it into a status code and
the {error, code, details} envelope; anything else becomes INTERNAL_ERROR.

Taxonomy:

	INVALID_ARGUMENT  400  malformed input rejected before any I/O
	VALIDATION_ERROR  400  one or more request fields failed validation
	UNAUTHORIZED      401  missing, wrong, or revoked credentials
	FORBIDDEN         403  authenticated but not allowed (role, locked topic)
	NOT_FOUND         404  unknown category, topic, user, or token
	CONFLICT          409  duplicate email, username, or slug
	RATE_LIMITED      429  credential endpoint budget exhausted
	INTERNAL_ERROR    500  everything else; the cause is logged, never sent
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Codes

const (
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeRateLimited     = "RATE_LIMITED"
	CodeInternal        = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeInvalidArgument: http.StatusBadRequest,
	CodeValidation:      http.StatusBadRequest,
	CodeUnauthorized:    http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusConflict,
	CodeRateLimited:     http.StatusTooManyRequests,
	CodeInternal:        http.StatusInternalServerError,
}

// AppError is a classified failure.
//
// # Security
//
// Cause is for server-side logging only and never reaches the client, so
// SQL text and driver messages cannot leak through the API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`

	// Details lists the failing fields of a VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`

	// RetryAfterSeconds is sent as the Retry-After header when positive.
	RetryAfterSeconds int `json:"-"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes Cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// New builds an [AppError] for code. Unknown codes map to 500.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound reports an unknown resource, e.g. NotFound("Topic") -> "Topic not found".
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

// InvalidArgument rejects malformed caller input before any I/O happens.
func InvalidArgument(msg string) *AppError {
	return New(CodeInvalidArgument, msg)
}

func Unauthorized(msg string) *AppError {
	return New(CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return New(CodeForbidden, msg)
}

// Conflict reports a duplicate, usually a unique constraint violation.
func Conflict(msg string) *AppError {
	return New(CodeConflict, msg)
}

// ValidationError carries the per-field failures collected by a validator.
func ValidationError(msg string, details ...FieldError) *AppError {
	err := New(CodeValidation, msg)
	err.Details = details
	return err
}

// RateLimited tells the client when it may retry.
func RateLimited(retryAfterSeconds int) *AppError {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	err := New(CodeRateLimited, fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
	err.RetryAfterSeconds = retryAfterSeconds
	return err
}

// # Server Errors (5xx)

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	err := New(CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Helpers

// As extracts the [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// Is reports whether err's chain holds an [*AppError] with code.
func Is(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound is shorthand for Is(err, CodeNotFound).
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}
