// Package apperror defines the domain error taxonomy shared by every layer.
//
// The service layer returns these errors; the HTTP layer translates them into
// responses (404 page, re-rendered form, login redirect). Keeping the taxonomy
// here means neither layer imports the other's concerns.
//
// Note what is missing: there is no Forbidden error and no 403 anywhere in
// this application. When an authenticated user touches a resource they do not
// own, the answer is NotFound — a non-owner cannot learn whether the resource
// exists at all.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel (for errors.Is checks), a human-readable
// message, and optionally the form field the error belongs to.
type AppError struct {
	Err     error  // sentinel: ErrNotFound, ErrValidation, ...
	Message string // human-readable, safe to show the user
	Field   string // set for validation errors attached to one form field
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource does not exist — or that the caller is not
// allowed to know whether it exists.
func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// ValidationFailed attaches a message to a single form field.
// Handlers re-render the originating form with this message next to the field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation from the storage layer.
// The service layer usually converts it into a field-level validation error.
func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// Unauthorized reports failed authentication (bad credentials, not a missing
// session — missing sessions are handled by the middleware redirect).
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// FieldOf returns the form field an error is attached to, or "" if the error
// is not a field-level validation error.
func FieldOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// MessageOf returns the user-safe message of a domain error, or a generic
// fallback for unknown errors so internals never leak into a page.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}
