package domain

import (
	"errors"
	"fmt"

	"formcraft/internal/domain/models/form"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
	ErrNotLoaded  = errors.New("no form loaded")
	ErrLastPage   = errors.New("cannot delete the last page")
)

// Domain error types
type (
	// NotFoundError indicates a mutation or lookup targeted a missing entity
	NotFoundError struct {
		Resource string // form, page, block, rule
		ID       string
	}

	// ValidationError indicates a document or request failed structural validation
	ValidationError struct {
		Message string
	}
)

// NewNotFound builds a NotFoundError for the given resource kind and identifier
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is allows errors.Is() to match against ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *ValidationError) Error() string { return e.Message }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (form, draft)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string { return e.Message }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// PublishBlockedError is returned when a form fails pre-publish checks
type PublishBlockedError struct {
	FormID   string
	Findings []form.ValidationError
}

func (e *PublishBlockedError) Error() string {
	return fmt.Sprintf("form %q cannot be published: %d validation problem(s)", e.FormID, len(e.Findings))
}

// Is allows errors.Is() to match against ErrValidation
func (e *PublishBlockedError) Is(target error) bool { return target == ErrValidation }
