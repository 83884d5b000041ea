package anatomy

import (
	"errors"
	"fmt"
)

// ErrorClass classifies the few genuinely erroneous conditions in the
// anatomy model. Insufficient power and full storage are reported through
// return values, not errors, so the taxonomy here is small.
type ErrorClass string

const (
	// ErrorClassValidation indicates caller misuse: an unknown organelle
	// kind, applying before loading a program, and similar.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassNotFound indicates a lookup miss for a named entity
	// (program, tissue, organelle).
	ErrorClassNotFound ErrorClass = "not-found"
)

// AnatomyError is a classified error with cell and operation context.
//
//nolint:revive // named to distinguish from standard errors
type AnatomyError struct {
	// Class is the error classification.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Cell is the cell ID the error relates to, if any.
	Cell string `json:"cell,omitempty"`

	// Operation is the operation being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AnatomyError) Error() string {
	switch {
	case e.Cell != "" && e.Operation != "":
		return fmt.Sprintf("[%s] %s (cell=%s, operation=%s)", e.Class, e.Message, e.Cell, e.Operation)
	case e.Cell != "":
		return fmt.Sprintf("[%s] %s (cell=%s)", e.Class, e.Message, e.Cell)
	default:
		return fmt.Sprintf("[%s] %s", e.Class, e.Message)
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *AnatomyError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *AnatomyError {
	return &AnatomyError{Class: ErrorClassValidation, Message: message}
}

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(message string) *AnatomyError {
	return &AnatomyError{Class: ErrorClassNotFound, Message: message}
}

// WithCell adds cell context to an error.
func (e *AnatomyError) WithCell(cellID string) *AnatomyError {
	e.Cell = cellID
	return e
}

// WithOperation adds operation context to an error.
func (e *AnatomyError) WithOperation(operation string) *AnatomyError {
	e.Operation = operation
	return e
}

// IsValidation returns true if the error is classified as validation.
func IsValidation(err error) bool {
	var e *AnatomyError
	if errors.As(err, &e) {
		return e.Class == ErrorClassValidation
	}
	return false
}

// IsNotFound returns true if the error is classified as not-found.
func IsNotFound(err error) bool {
	var e *AnatomyError
	if errors.As(err, &e) {
		return e.Class == ErrorClassNotFound
	}
	return false
}
