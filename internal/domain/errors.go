package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates an event, tag, version or approval was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input. Field names the offending
	// request field when known (e.g. "time.precision").
	ValidationError struct {
		Message string
		Field   string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the actor's role lacks a capability
	ForbiddenError struct {
		Message string
	}

	// PayloadTooLargeError indicates a request body over the configured limit
	PayloadTooLargeError struct {
		Limit int64
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int        { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int    { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int       { return http.StatusForbidden }
func (e *PayloadTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

// Is implementations so errors.Is matches the sentinels below
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// PayloadTooLargeError is validation-class: it matches both sentinels.
func (e *PayloadTooLargeError) Is(target error) bool {
	return target == ErrPayloadTooLarge || target == ErrValidation
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// ConflictError represents a state conflict, such as deciding an approval
// that is no longer pending.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (approval, event, tag)
	ResourceID   string // ID of the conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewValidationError builds a ValidationError with a field hint.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Field: field}
}

// NewNotFoundError builds a NotFoundError for the given resource kind and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// FieldOf returns the field hint carried by a ValidationError in err's chain.
func FieldOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
