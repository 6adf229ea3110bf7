// Package apperror defines the error taxonomy shared by every layer.
//
// Lower layers return an *AppError wrapping one of the sentinels below; the
// HTTP layer inspects the sentinel with errors.Is and picks a status code.
// Nothing below the handler package knows about HTTP.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpstream marks a failure of an external collaborator (the AI model,
	// object storage) that the caller chose to surface instead of masking.
	ErrUpstream = errors.New("upstream failure")
)

// AppError carries a sentinel plus a message that is safe to show a user.
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable message
	Field   string // input field at fault, validation errors only
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s %q already exists", resource, id),
	}
}

// Forbidden is mapped to 403 by the HTTP layer.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized is mapped to 401 by the HTTP layer.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Upstream wraps the cause of an external failure. The cause is kept in the
// chain for logging but the message is what the client sees.
func Upstream(message string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrUpstream, cause),
		Message: message,
	}
}
