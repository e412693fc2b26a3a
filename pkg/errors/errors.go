package errors

import (
	"errors"
	"fmt"
)

// ConstraintViolationError reports that a write was rejected by a uniqueness rule.
type ConstraintViolationError struct {
	Resource string
	Field    string
	Err      error
}

// NewConstraintViolationError creates a new constraint violation error
func NewConstraintViolationError(resource, field string, err error) *ConstraintViolationError {
	return &ConstraintViolationError{
		Resource: resource,
		Field:    field,
		Err:      err,
	}
}

// Error implements the error interface
func (e *ConstraintViolationError) Error() string {
	msg := fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
	if e.Field == "" {
		msg = fmt.Sprintf("%s already exists", e.Resource)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

// StoreUnavailableError reports that the pool could not hand out a connection.
type StoreUnavailableError struct {
	Op  string
	Err error
}

// NewStoreUnavailableError creates a new store unavailable error
func NewStoreUnavailableError(op string, err error) *StoreUnavailableError {
	return &StoreUnavailableError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface
func (e *StoreUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: store unavailable", e.Op)
}

// Unwrap returns the wrapped error
func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// QueryFailedError represents any other statement-level failure.
type QueryFailedError struct {
	Op  string
	Err error
}

// NewQueryFailedError creates a new query failed error
func NewQueryFailedError(op string, err error) *QueryFailedError {
	return &QueryFailedError{
		Op:  op,
		Err: err,
	}
}

// Error implements the error interface
func (e *QueryFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: query failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: query failed", e.Op)
}

// Unwrap returns the wrapped error
func (e *QueryFailedError) Unwrap() error {
	return e.Err
}

// IsConstraintViolation reports whether err is, or wraps, a *ConstraintViolationError.
func IsConstraintViolation(err error) bool {
	var target *ConstraintViolationError
	return errors.As(err, &target)
}

// IsStoreUnavailable reports whether err is, or wraps, a *StoreUnavailableError.
func IsStoreUnavailable(err error) bool {
	var target *StoreUnavailableError
	return errors.As(err, &target)
}

// IsQueryFailed reports whether err is, or wraps, a *QueryFailedError.
func IsQueryFailed(err error) bool {
	var target *QueryFailedError
	return errors.As(err, &target)
}
