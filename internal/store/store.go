// Package store holds the in-memory entity collections of the library.
//
// Readers take the current Snapshot and never block. Writers go through
// Apply, which hands the callback a copy-on-write draft, checks the
// consistency rules on the result and only then publishes it. A failed
// callback or a rule violation leaves the published snapshot untouched.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"lumina/internal/entity"
)

// Store holds the current Snapshot. Readers load it without locking and
// writers are serialized through Apply.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New builds a store from injected initial data. The data must already
// satisfy the consistency rules.
func New(initial Snapshot) (*Store, error) {
	snap := &Snapshot{
		Books:        slices.Clone(initial.Books),
		Members:      slices.Clone(initial.Members),
		Transactions: slices.Clone(initial.Transactions),
		Version:      initial.Version,
	}
	if err := verify(snap); err != nil {
		return nil, fmt.Errorf("initial data: %w", err)
	}
	s := &Store{}
	s.current.Store(snap)
	return s, nil
}

// Snapshot returns the latest published snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Apply runs fn against a draft of the current state and publishes the draft
// if fn succeeds and the result is consistent. Writers are serialized.
func (s *Store) Apply(ctx context.Context, fn func(*Writer) error) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.current.Load()
	w := newWriter(base)
	if err := fn(w); err != nil {
		return nil, err
	}
	if !w.booksCopied && !w.membersCopied && !w.txCopied {
		return base, nil
	}
	if err := verify(&w.draft); err != nil {
		return nil, err
	}

	next := w.draft
	next.Version = base.Version + 1
	s.current.Store(&next)
	return &next, nil
}

// AddBook inserts a book with a new id.
func (s *Store) AddBook(ctx context.Context, b entity.Book) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.AddBook(b) })
	return err
}

// UpdateBook replaces the book with the same id.
func (s *Store) UpdateBook(ctx context.Context, b entity.Book) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.UpdateBook(b) })
	return err
}

// RemoveBook deletes a book that is not on an active loan.
func (s *Store) RemoveBook(ctx context.Context, id string) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.RemoveBook(id) })
	return err
}

// AddMember inserts a member with a new id.
func (s *Store) AddMember(ctx context.Context, m entity.Member) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.AddMember(m) })
	return err
}

// UpdateMember replaces the member with the same id.
func (s *Store) UpdateMember(ctx context.Context, m entity.Member) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.UpdateMember(m) })
	return err
}

// RemoveMember deletes a member with no active loans.
func (s *Store) RemoveMember(ctx context.Context, id string) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.RemoveMember(id) })
	return err
}

// AddTransaction records a new loan.
func (s *Store) AddTransaction(ctx context.Context, t entity.Transaction) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.AddTransaction(t) })
	return err
}

// UpdateTransaction replaces the transaction with the same id.
func (s *Store) UpdateTransaction(ctx context.Context, t entity.Transaction) error {
	_, err := s.Apply(ctx, func(w *Writer) error { return w.UpdateTransaction(t) })
	return err
}
