package member

import (
	"context"

	"lumina/internal/store"
)

type Store interface {
	Snapshot() *store.Snapshot
	Apply(ctx context.Context, fn func(*store.Writer) error) (*store.Snapshot, error)
}
