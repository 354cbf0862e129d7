package store

import (
	"errors"
	"fmt"

	"lumina/internal/entity"
)

var (
	// ErrDuplicateID is returned when adding a record whose id is taken.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id", entity.ErrConflict)
	// ErrReferenced is returned when removing a book or member that an
	// active transaction still points at.
	ErrReferenced = fmt.Errorf("%w: referenced by an active transaction", entity.ErrConflict)
	// ErrInvariant is returned when a commit would leave the collections
	// in an inconsistent state.
	ErrInvariant = fmt.Errorf("%w: invariant violated", entity.ErrConflict)
	// ErrImmutableReference is returned when a transaction update tries to
	// repoint its book or member.
	ErrImmutableReference = errors.New("transaction book and member cannot change")
)

// InvariantError describes which consistency rule a commit broke.
type InvariantError struct {
	Rule string
	ID   string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant %s violated by %q", e.Rule, e.ID)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
