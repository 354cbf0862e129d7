package book

import (
	"context"

	"lumina/internal/store"
)

// Store defines the contract for book data storage.
type Store interface {
	Snapshot() *store.Snapshot
	Apply(ctx context.Context, fn func(*store.Writer) error) (*store.Snapshot, error)
}
