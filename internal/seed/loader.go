package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lumina/internal/book"
	"lumina/internal/entity"
	"lumina/internal/lending"
	"lumina/internal/member"
	"lumina/internal/store"
)

// Loader turns a Source's dataset into a snapshot that satisfies the store
// invariants. Rows that cannot be repaired are skipped; everything else is
// normalized and recorded in the Report.
type Loader struct {
	src        Source
	now        func() time.Time
	loanPeriod time.Duration
	logger     *zap.Logger
}

type LoaderOption func(*Loader)

func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

func WithLoanPeriod(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.loanPeriod = d
		}
	}
}

func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		src:        src,
		now:        time.Now,
		loanPeriod: lending.DefaultLoanPeriod,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the source and returns the normalized snapshot with a report of
// every change made to the input.
func (l *Loader) Load(ctx context.Context) (store.Snapshot, Report, error) {
	ds, err := l.src.Load(ctx)
	if err != nil {
		return store.Snapshot{}, Report{}, fmt.Errorf("seed source %s: %w", l.src.Name(), err)
	}
	snap, report := l.normalize(ds)
	report.Source = l.src.Name()

	l.logger.Info("seed loaded",
		zap.String("source", report.Source),
		zap.Int("books", report.BooksLoaded),
		zap.Int("members", report.MembersLoaded),
		zap.Int("transactions", report.TransactionsLoaded),
		zap.Int("normalized", report.Normalized),
		zap.Int("skipped", report.Skipped),
	)
	for _, n := range report.Notes {
		l.logger.Debug("seed note", zap.String("note", n))
	}
	return snap, report, nil
}

func (l *Loader) normalize(ds Dataset) (store.Snapshot, Report) {
	var r Report
	now := l.now().UTC()

	books := l.books(ds.Books, now, &r)
	members, counts := l.members(ds.Members, now, &r)
	txs := l.transactions(ds.Transactions, books, members, &r)

	onLoan := make(map[string]bool)
	held := make(map[string]int)
	for _, t := range txs {
		if t.IsActive() {
			onLoan[t.BookID] = true
			held[t.MemberID]++
		}
	}
	for i := range books {
		b := &books[i]
		switch {
		case onLoan[b.ID] && b.Status != entity.BookBorrowed:
			r.normalize("book %s: status %s set to Borrowed, it has an active loan", b.ID, b.Status)
			b.Status = entity.BookBorrowed
		case !onLoan[b.ID] && b.Status == entity.BookBorrowed:
			r.normalize("book %s: status Borrowed set to Available, it has no active loan", b.ID)
			b.Status = entity.BookAvailable
		}
	}
	for _, m := range members {
		if want, ok := counts[m.ID]; ok && want != held[m.ID] {
			r.note("member %s: stored borrowed_count %d ignored, live count is %d", m.ID, want, held[m.ID])
		}
	}

	r.BooksLoaded = len(books)
	r.MembersLoaded = len(members)
	r.TransactionsLoaded = len(txs)
	return store.Snapshot{Books: books, Members: members, Transactions: txs}, r
}

func (l *Loader) books(in []entity.Book, now time.Time, r *Report) []entity.Book {
	out := make([]entity.Book, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, b := range in {
		if b.ID == "" {
			r.skip("book at index %d has no id", i)
			continue
		}
		if seen[b.ID] {
			r.skip("duplicate book id %s", b.ID)
			continue
		}
		seen[b.ID] = true

		if !b.Status.Valid() {
			r.normalize("book %s: unknown status %q set to Available", b.ID, b.Status)
			b.Status = entity.BookAvailable
		}
		if b.CoverImage == "" {
			b.CoverImage = book.PlaceholderCover(firstNonEmpty(b.ISBN, b.ID))
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = b.CreatedAt
		}
		out = append(out, b)
	}
	return out
}

func (l *Loader) members(in []MemberRecord, now time.Time, r *Report) ([]entity.Member, map[string]int) {
	out := make([]entity.Member, 0, len(in))
	counts := make(map[string]int)
	seen := make(map[string]bool, len(in))
	for i, rec := range in {
		m := rec.Member
		if m.ID == "" {
			r.skip("member at index %d has no id", i)
			continue
		}
		if seen[m.ID] {
			r.skip("duplicate member id %s", m.ID)
			continue
		}
		seen[m.ID] = true

		if m.JoinDate == "" {
			m.JoinDate = now.Format(entity.JoinDateLayout)
		} else if _, err := time.Parse(entity.JoinDateLayout, m.JoinDate); err != nil {
			r.normalize("member %s: join date %q is not YYYY-MM-DD, set to today", m.ID, m.JoinDate)
			m.JoinDate = now.Format(entity.JoinDateLayout)
		}
		if m.Avatar == "" {
			m.Avatar = member.PlaceholderAvatar(firstNonEmpty(m.Email, m.ID))
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = m.CreatedAt
		}
		if rec.BorrowedCount != nil {
			counts[m.ID] = *rec.BorrowedCount
		}
		out = append(out, m)
	}
	return out, counts
}

func (l *Loader) transactions(in []entity.Transaction, books []entity.Book, members []entity.Member, r *Report) []entity.Transaction {
	bookIDs := make(map[string]bool, len(books))
	for _, b := range books {
		bookIDs[b.ID] = true
	}
	memberIDs := make(map[string]bool, len(members))
	for _, m := range members {
		memberIDs[m.ID] = true
	}

	out := make([]entity.Transaction, 0, len(in))
	seen := make(map[string]bool, len(in))
	loaned := make(map[string]string)
	for i, t := range in {
		if t.ID == "" {
			r.skip("transaction at index %d has no id", i)
			continue
		}
		if seen[t.ID] {
			r.skip("duplicate transaction id %s", t.ID)
			continue
		}

		switch t.Status {
		case entity.TxActive, entity.TxCompleted:
		case entity.TxOverdue:
			r.normalize("transaction %s: stored status overdue set to active", t.ID)
			t.Status = entity.TxActive
		default:
			r.skip("transaction %s has unknown status %q", t.ID, t.Status)
			continue
		}

		if t.BorrowDate.IsZero() {
			r.skip("transaction %s has no borrow date", t.ID)
			continue
		}
		if t.IsActive() {
			if !bookIDs[t.BookID] || !memberIDs[t.MemberID] {
				r.skip("active transaction %s references unknown book %s or member %s", t.ID, t.BookID, t.MemberID)
				continue
			}
			if prev, ok := loaned[t.BookID]; ok {
				r.skip("active transaction %s: book %s is already on loan in %s", t.ID, t.BookID, prev)
				continue
			}
		}
		if t.DueDate.IsZero() {
			r.normalize("transaction %s: missing due date derived from borrow date", t.ID)
			t.DueDate = lending.DueDate(t.BorrowDate, l.loanPeriod)
		}

		if t.IsActive() {
			if t.ReturnDate != nil {
				r.normalize("transaction %s: return date cleared on active loan", t.ID)
				t.ReturnDate = nil
			}
			loaned[t.BookID] = t.ID
		} else if t.ReturnDate == nil {
			r.normalize("transaction %s: completed without return date, using due date", t.ID)
			d := t.DueDate
			t.ReturnDate = &d
		}

		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
