package schema

import (
	"errors"
	"fmt"

	"github.com/aretw0/sprig/pkg/domain"
)

// ValidationError represents a single tree validation failure.
type ValidationError struct {
	NodeID string // Offending node, empty for document-level problems
	Field  string // Field name (e.g., "options", "children")
	Reason string // Human-readable reason for failure
}

func (e *ValidationError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("node %q field %q: %s", e.NodeID, e.Field, e.Reason)
}

// Is makes every ValidationError match domain.ErrMalformedTree.
func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrMalformedTree
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Is makes every AggregateError match domain.ErrMalformedTree.
func (e *AggregateError) Is(target error) bool {
	return target == domain.ErrMalformedTree
}

// Unwrap exposes the individual failures to errors.Is / errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err wraps an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
