package advisory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"lumina/internal/platform/openlibrary"
)

// ISBNLookup resolves catalog metadata for an ISBN.
type ISBNLookup interface {
	LookupISBN(ctx context.Context, isbn string) (openlibrary.Edition, error)
}

// Prefill is metadata for the inventory form. Edition is nil when nothing
// was found or the lookup failed.
type Prefill struct {
	Edition  *openlibrary.Edition `json:"edition"`
	Degraded bool                 `json:"degraded"`
}

// WithISBNLookup enables PrefillISBN.
func (a *Adapter) WithISBNLookup(l ISBNLookup) *Adapter {
	a.isbn = l
	return a
}

// PrefillISBN looks up an ISBN. A miss is not a failure; an unreachable
// catalog is.
func (a *Adapter) PrefillISBN(ctx context.Context, isbn string) Prefill {
	if a.isbn == nil {
		a.degrade("isbn", fmt.Errorf("%w: no catalog configured", ErrAdvisoryUnavailable))
		return Prefill{Degraded: true}
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	e, err := a.isbn.LookupISBN(ctx, isbn)
	switch {
	case errors.Is(err, openlibrary.ErrNotFound):
		a.logger.Debug("isbn not in catalog", zap.String("isbn", isbn))
		return Prefill{}
	case err != nil:
		a.degrade("isbn", fmt.Errorf("%w: %w", ErrAdvisoryUnavailable, err))
		return Prefill{Degraded: true}
	}
	return Prefill{Edition: &e}
}
