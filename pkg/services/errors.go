// Package services holds the use cases behind the HTTP API and the CLI.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flowforge/flowforge/pkg/workflow"
)

// Business logic errors. Validation errors map to 400, conflicts to 409.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWorkflowNil        = errors.New("workflow cannot be nil")
	ErrInvalidWorkflow    = errors.New("invalid workflow")
	ErrDuplicateBlockID   = errors.New("duplicate block id")
	ErrDanglingConnection = errors.New("connection references an unknown block")
	ErrWorkflowInactive   = errors.New("workflow is not active")
	ErrCancelUnsupported  = errors.New("cancellation is not available in this dispatch mode")
)

// ErrExecutionNotRunning is returned when cancelling a finished execution.
var ErrExecutionNotRunning = workflow.ErrExecutionNotRunning

// ValidationError carries every problem found in one request.
type ValidationError struct {
	Op      string   // Operation name
	Code    string   // Error code for API responses
	Details []string // One entry per problem
	Err     error    // Underlying error
}

func (e *ValidationError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s", e.Op, strings.Join(e.Details, "; "))
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code string, err error, details ...string) *ValidationError {
	return &ValidationError{
		Op:      op,
		Code:    code,
		Details: details,
		Err:     err,
	}
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	var validationErr *ValidationError

	return errors.As(err, &validationErr) ||
		errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNil)
}

// IsConflictError checks if an error is a state conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrExecutionNotRunning) ||
		errors.Is(err, ErrCancelUnsupported) ||
		errors.Is(err, ErrWorkflowInactive)
}
