package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lumina/internal/entity"
)

// PostgresSource imports a dataset from the seed_* tables created by
// cmd/migrate. The import is read-only; the running service never writes
// entity state back.
type PostgresSource struct {
	db *pgxpool.Pool
}

func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) Load(ctx context.Context) (Dataset, error) {
	var ds Dataset
	var err error
	if ds.Books, err = s.books(ctx); err != nil {
		return Dataset{}, fmt.Errorf("load seed books: %w", err)
	}
	if ds.Members, err = s.members(ctx); err != nil {
		return Dataset{}, fmt.Errorf("load seed members: %w", err)
	}
	if ds.Transactions, err = s.transactions(ctx); err != nil {
		return Dataset{}, fmt.Errorf("load seed transactions: %w", err)
	}
	return ds, nil
}

func (s *PostgresSource) books(ctx context.Context) ([]entity.Book, error) {
	const query = `
		SELECT id, title, author, isbn, category, status, published_year, description, cover_image
		FROM seed_books
		ORDER BY position, id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		var b entity.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.Status,
			&b.PublishedYear, &b.Description, &b.CoverImage); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (s *PostgresSource) members(ctx context.Context) ([]MemberRecord, error) {
	const query = `
		SELECT id, name, email, phone, join_date, avatar, borrowed_count
		FROM seed_members
		ORDER BY position, id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberRecord
	for rows.Next() {
		var m MemberRecord
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.JoinDate, &m.Avatar, &m.BorrowedCount); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *PostgresSource) transactions(ctx context.Context) ([]entity.Transaction, error) {
	const query = `
		SELECT id, book_id, member_id, borrow_date, due_date, return_date, status
		FROM seed_transactions
		ORDER BY borrow_date, id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.BookID, &t.MemberID, &t.BorrowDate, &t.DueDate, &t.ReturnDate, &t.Status); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// PostgresWriter replaces the content of the seed tables.
type PostgresWriter struct {
	db *pgxpool.Pool
}

func NewPostgresWriter(db *pgxpool.Pool) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// Write truncates the seed tables and bulk-loads ds with COPY in a single
// transaction. Row order is kept in the position column.
func (w *PostgresWriter) Write(ctx context.Context, ds Dataset) error {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE seed_transactions, seed_members, seed_books`); err != nil {
		return fmt.Errorf("truncate seed tables: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"seed_books"},
		[]string{"position", "id", "title", "author", "isbn", "category", "status", "published_year", "description", "cover_image"},
		pgx.CopyFromSlice(len(ds.Books), func(i int) ([]any, error) {
			b := ds.Books[i]
			return []any{i, b.ID, b.Title, b.Author, b.ISBN, b.Category, string(b.Status), b.PublishedYear, b.Description, b.CoverImage}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy seed books: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"seed_members"},
		[]string{"position", "id", "name", "email", "phone", "join_date", "avatar", "borrowed_count"},
		pgx.CopyFromSlice(len(ds.Members), func(i int) ([]any, error) {
			m := ds.Members[i]
			return []any{i, m.ID, m.Name, m.Email, m.Phone, m.JoinDate, m.Avatar, m.BorrowedCount}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy seed members: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"seed_transactions"},
		[]string{"id", "book_id", "member_id", "borrow_date", "due_date", "return_date", "status"},
		pgx.CopyFromSlice(len(ds.Transactions), func(i int) ([]any, error) {
			t := ds.Transactions[i]
			return []any{t.ID, t.BookID, t.MemberID, t.BorrowDate.UTC(), t.DueDate.UTC(), utcPtr(t.ReturnDate), string(t.Status)}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy seed transactions: %w", err)
	}

	return tx.Commit(ctx)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
