package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced donation or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor lacks the relationship the operation
	// requires (not the owning donor, not the assigned volunteer).
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed or missing input. Caller's fault, never
// retried automatically.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// InvalidTransitionError reports a status precondition violation, including
// losing a race to another volunteer. Both sides are carried so the caller
// can render a precise message without re-querying.
type InvalidTransitionError struct {
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.Current, e.Requested)
}

// StoreFailureError wraps an underlying persistence error. Safe to retry for
// pure reads only.
type StoreFailureError struct {
	Op  string
	Err error
}

func (e *StoreFailureError) Error() string {
	return fmt.Sprintf("%s: store failure: %v", e.Op, e.Err)
}

func (e *StoreFailureError) Unwrap() error {
	return e.Err
}

func storeFailure(op string, err error) error {
	return &StoreFailureError{Op: op, Err: err}
}
