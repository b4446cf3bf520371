package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface lets the handler layer translate errors without a type switch.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is(). Every typed error below matches exactly one of them,
// which gives callers a stable discriminant independent of the message text.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTopology   = errors.New("invalid topology")
	ErrInvalidRange      = errors.New("invalid range")
	ErrReferenceNotFound = errors.New("reference not found")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource does not exist or belongs to another user
	NotFoundError struct {
		Message string
	}

	// InvalidTopologyError indicates a folder move that would create a cycle
	InvalidTopologyError struct {
		Message string
	}

	// InvalidRangeError indicates a temporal ordering violation
	InvalidRangeError struct {
		Message string
	}

	// ReferenceNotFoundError indicates a positional reference (e.g. after_folder_id)
	// that does not match any current sibling
	ReferenceNotFoundError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string          { return e.Message }
func (e *InvalidTopologyError) Error() string   { return e.Message }
func (e *InvalidRangeError) Error() string      { return e.Message }
func (e *ReferenceNotFoundError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int          { return http.StatusNotFound }
func (e *InvalidTopologyError) StatusCode() int   { return http.StatusUnprocessableEntity }
func (e *InvalidRangeError) StatusCode() int      { return http.StatusBadRequest }
func (e *ReferenceNotFoundError) StatusCode() int { return http.StatusUnprocessableEntity }

// Is implementations tie each typed error to its sentinel
func (e *NotFoundError) Is(target error) bool          { return target == ErrNotFound }
func (e *InvalidTopologyError) Is(target error) bool   { return target == ErrInvalidTopology }
func (e *InvalidRangeError) Is(target error) bool      { return target == ErrInvalidRange }
func (e *ReferenceNotFoundError) Is(target error) bool { return target == ErrReferenceNotFound }

// ConflictError represents a resource conflict with details about the existing resource
// Implements HTTPError interface for extensible error handling
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, category, chart)
	ResourceID   string // ID of the existing/conflicting resource
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
