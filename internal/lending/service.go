// Package lending implements the borrow and return workflow.
package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lumina/internal/entity"
	"lumina/internal/store"
)

// DefaultLoanPeriod is how long a member may keep a book.
const DefaultLoanPeriod = 14 * 24 * time.Hour

// Store is the part of the entity store lending needs.
type Store interface {
	Snapshot() *store.Snapshot
	Apply(ctx context.Context, fn func(*store.Writer) error) (*store.Snapshot, error)
}

// Service borrows and returns books against the entity store.
type Service struct {
	store      Store
	now        func() time.Time
	newID      func() string
	loanPeriod time.Duration
	logger     *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLoanPeriod overrides DefaultLoanPeriod. Non-positive values are ignored.
func WithLoanPeriod(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.loanPeriod = d
		}
	}
}

// WithIDGenerator overrides how transaction ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService returns a Service with a 14-day loan period and the wall clock.
func NewService(st Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		now:        time.Now,
		newID:      uuid.NewString,
		loanPeriod: DefaultLoanPeriod,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now reports the service clock, used by readers to classify overdue loans.
func (s *Service) Now() time.Time {
	return s.now()
}

// Borrow lends a book to a member. On success the book is Borrowed and a new
// active transaction is recorded, both in one commit.
func (s *Service) Borrow(ctx context.Context, bookID, memberID string) (entity.Transaction, error) {
	var tx entity.Transaction
	_, err := s.store.Apply(ctx, func(w *store.Writer) error {
		book, bookFound := w.Book(bookID)
		_, memberFound := w.Member(memberID)

		d, err := decideBorrow(bookID, memberID, book, bookFound, memberFound, s.newID(), s.now(), s.loanPeriod)
		if err != nil {
			return err
		}
		if err := w.UpdateBook(d.book); err != nil {
			return err
		}
		if err := w.AddTransaction(d.tx); err != nil {
			return err
		}
		tx = d.tx
		return nil
	})
	if err != nil {
		s.logger.Debug("borrow rejected",
			zap.String("book_id", bookID),
			zap.String("member_id", memberID),
			zap.Error(err),
		)
		return entity.Transaction{}, err
	}

	s.logger.Info("book borrowed",
		zap.String("transaction_id", tx.ID),
		zap.String("book_id", tx.BookID),
		zap.String("member_id", tx.MemberID),
		zap.Time("due_date", tx.DueDate),
	)
	return tx, nil
}

// Return closes an active loan and puts the book back on the shelf.
func (s *Service) Return(ctx context.Context, txID string) (entity.Transaction, error) {
	var tx entity.Transaction
	_, err := s.store.Apply(ctx, func(w *store.Writer) error {
		cur, txFound := w.Transaction(txID)
		book, bookFound := w.Book(cur.BookID)

		d, err := decideReturn(txID, cur, txFound, book, bookFound, s.now())
		if err != nil {
			return err
		}
		if d.book != nil {
			if err := w.UpdateBook(*d.book); err != nil {
				return err
			}
		}
		if err := w.UpdateTransaction(d.tx); err != nil {
			return err
		}
		tx = d.tx
		return nil
	})
	if err != nil {
		s.logger.Debug("return rejected", zap.String("transaction_id", txID), zap.Error(err))
		return entity.Transaction{}, err
	}

	s.logger.Info("book returned",
		zap.String("transaction_id", tx.ID),
		zap.String("book_id", tx.BookID),
	)
	return tx, nil
}

// Get returns a transaction by id.
func (s *Service) Get(_ context.Context, txID string) (entity.Transaction, error) {
	tx, ok := s.store.Snapshot().Transaction(txID)
	if !ok {
		return entity.Transaction{}, &entity.ReferentialError{Entity: "transaction", ID: txID}
	}
	return tx, nil
}

// Snapshot exposes the current state for read views.
func (s *Service) Snapshot() *store.Snapshot {
	return s.store.Snapshot()
}
