package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an operation rejected by the current state.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ReferentialError reports an id that does not resolve to an existing record.
type ReferentialError struct {
	Entity string // book, member, transaction
	ID     string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *ReferentialError) Is(target error) bool {
	return target == ErrNotFound
}
