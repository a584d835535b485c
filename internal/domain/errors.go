package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a caller error detected before any store round-trip.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidSearchParameters signals that a query-required path was called without a query.
	ErrInvalidSearchParameters = fmt.Errorf("%w: query is required for this search", ErrValidation)
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInternal signals an infrastructure failure (store unavailable, timeout, bad row shape).
	ErrInternal = errors.New("internal error")
)

// ValidationError describes a rejected request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
