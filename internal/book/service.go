package book

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lumina/internal/entity"
	"lumina/internal/httpx"
	"lumina/internal/query"
	"lumina/internal/store"
)

// Service provides catalog reads and inventory writes.
type Service struct {
	store  Store
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// NewService creates a new book service.
func NewService(st Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, now: time.Now, newID: uuid.NewString, logger: logger}
}

// List returns the books matching f, in catalog order.
func (s *Service) List(_ context.Context, f query.BookFilter) []entity.Book {
	return query.SearchBooks(s.store.Snapshot(), f)
}

// Available returns the books that can be lent.
func (s *Service) Available(_ context.Context) []entity.Book {
	return query.AvailableBooks(s.store.Snapshot())
}

// Categories returns distinct categories in first-seen order.
func (s *Service) Categories(_ context.Context) []string {
	return query.Categories(s.store.Snapshot())
}

// Get returns a book by id.
func (s *Service) Get(_ context.Context, id string) (entity.Book, error) {
	b, ok := s.store.Snapshot().Book(id)
	if !ok {
		return entity.Book{}, &entity.ReferentialError{Entity: "book", ID: id}
	}
	return b, nil
}

// Create adds a book to the inventory. New books are always Available.
func (s *Service) Create(ctx context.Context, in CreateInput) (entity.Book, error) {
	now := s.now()
	b := entity.Book{
		ID:        s.newID(),
		Status:    entity.BookAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(&b, in)

	if _, err := s.store.Apply(ctx, func(w *store.Writer) error { return w.AddBook(b) }); err != nil {
		return entity.Book{}, err
	}
	s.logger.Info("book created", zap.String("book_id", b.ID), zap.String("isbn", b.ISBN))
	return b, nil
}

// Update replaces the editable fields of a book. The status of a book on loan
// cannot be changed here; returning it is the lending workflow's job.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (entity.Book, error) {
	var updated entity.Book
	_, err := s.store.Apply(ctx, func(w *store.Writer) error {
		cur, ok := w.Book(id)
		if !ok {
			return &entity.ReferentialError{Entity: "book", ID: id}
		}
		if in.Status == entity.BookBorrowed {
			return &entity.ValidationError{Field: "status", Message: "status must be Available or Maintenance"}
		}
		if in.Status != "" && in.Status != cur.Status {
			if cur.Status == entity.BookBorrowed {
				return ErrBookOnLoan
			}
			cur.Status = in.Status
		}
		applyInput(&cur, in.CreateInput)
		cur.UpdatedAt = s.now()
		updated = cur
		return w.UpdateBook(cur)
	})
	if err != nil {
		return entity.Book{}, err
	}
	s.logger.Info("book updated", zap.String("book_id", id), zap.String("status", string(updated.Status)))
	return updated, nil
}

// Delete removes a book. Books on an active loan are kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.store.Apply(ctx, func(w *store.Writer) error { return w.RemoveBook(id) })
	if err != nil {
		if errors.Is(err, store.ErrReferenced) {
			s.logger.Debug("book delete blocked", zap.String("book_id", id))
		}
		return err
	}
	s.logger.Info("book deleted", zap.String("book_id", id))
	return nil
}

func applyInput(b *entity.Book, in CreateInput) {
	b.Title = strings.TrimSpace(in.Title)
	b.Author = strings.TrimSpace(in.Author)
	b.ISBN = httpx.NormalizeISBN(in.ISBN)
	b.Category = strings.TrimSpace(in.Category)
	b.PublishedYear = in.PublishedYear
	b.Description = strings.TrimSpace(in.Description)
	b.CoverImage = strings.TrimSpace(in.CoverImage)
	if b.CoverImage == "" {
		seed := b.ISBN
		if seed == "" {
			seed = b.ID
		}
		b.CoverImage = PlaceholderCover(seed)
	}
}
