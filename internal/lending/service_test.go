package lending

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lumina/internal/entity"
	"lumina/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock0 = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func seqIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("tx-%d", n.Add(1)) }
}

func newTestService(t *testing.T) (*Service, *store.Store, *fakeClock) {
	t.Helper()
	st, err := store.New(store.Snapshot{
		Books: []entity.Book{
			{ID: "b1", Title: "Dune", Status: entity.BookAvailable},
			{ID: "b2", Title: "Emma", Status: entity.BookMaintenance},
			{ID: "b3", Title: "Ulysses", Status: entity.BookAvailable},
		},
		Members: []entity.Member{
			{ID: "m1", Name: "Ann"},
			{ID: "m2", Name: "Bob"},
		},
	})
	require.NoError(t, err)
	clock := &fakeClock{t: clock0}
	svc := NewService(st, WithClock(clock.Now), WithIDGenerator(seqIDs()))
	return svc, st, clock
}

// assertLoanInvariant checks Borrowed iff exactly one active transaction.
func assertLoanInvariant(t *testing.T, snap *store.Snapshot) {
	t.Helper()
	for _, b := range snap.Books {
		active := 0
		for _, tx := range snap.Transactions {
			if tx.BookID == b.ID && tx.Status == entity.TxActive {
				active++
			}
		}
		assert.Equal(t, b.Status == entity.BookBorrowed, active == 1, "book %s status %s with %d active loans", b.ID, b.Status, active)
		assert.LessOrEqual(t, active, 1)
	}
}

func TestBorrowThenReturn(t *testing.T) {
	ctx := context.Background()
	svc, st, clock := newTestService(t)

	tx, err := svc.Borrow(ctx, "b1", "m1")
	require.NoError(t, err)

	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, entity.TxActive, tx.Status)
	assert.Equal(t, clock0, tx.BorrowDate)
	assert.Equal(t, clock0.AddDate(0, 0, 14), tx.DueDate)
	assert.Nil(t, tx.ReturnDate)

	book, _ := st.Snapshot().Book("b1")
	assert.Equal(t, entity.BookBorrowed, book.Status)
	assertLoanInvariant(t, st.Snapshot())

	clock.Advance(3 * 24 * time.Hour)
	returned, err := svc.Return(ctx, tx.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TxCompleted, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, clock.Now(), *returned.ReturnDate)

	snap := st.Snapshot()
	book, _ = snap.Book("b1")
	assert.Equal(t, entity.BookAvailable, book.Status)
	require.Len(t, snap.Transactions, 1)
	assert.Equal(t, entity.TxCompleted, snap.Transactions[0].Status)
	assert.NotNil(t, snap.Transactions[0].ReturnDate)
	assertLoanInvariant(t, snap)
}

func TestBorrow_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		bookID   string
		memberID string
		check    func(t *testing.T, err error)
	}{
		{"missing book selection", "", "m1", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrInvalidBorrowRequest)
			assert.ErrorIs(t, err, entity.ErrValidation)
		}},
		{"missing member selection", "b1", "", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrInvalidBorrowRequest)
		}},
		{"unknown book", "b404", "m1", func(t *testing.T, err error) {
			var re *entity.ReferentialError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "book", re.Entity)
		}},
		{"unknown member", "b1", "m404", func(t *testing.T, err error) {
			var re *entity.ReferentialError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, "member", re.Entity)
		}},
		{"book in maintenance", "b2", "m1", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrBookUnavailable)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, _ := newTestService(t)
			before := st.Snapshot()

			_, err := svc.Borrow(ctx, tt.bookID, tt.memberID)
			tt.check(t, err)

			// nothing was committed
			assert.Same(t, before, st.Snapshot())
		})
	}
}

func TestBorrow_TwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)

	_, err := svc.Borrow(ctx, "b1", "m1")
	require.NoError(t, err)
	before := st.Snapshot()

	_, err = svc.Borrow(ctx, "b1", "m2")
	assert.ErrorIs(t, err, ErrBookUnavailable)

	after := st.Snapshot()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("rejected borrow mutated state (-before +after):\n%s", diff)
	}
	active := 0
	for _, tx := range after.Transactions {
		if tx.BookID == "b1" && tx.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestReturn_Twice(t *testing.T) {
	ctx := context.Background()
	svc, st, clock := newTestService(t)

	tx, err := svc.Borrow(ctx, "b1", "m1")
	require.NoError(t, err)
	first, err := svc.Return(ctx, tx.ID)
	require.NoError(t, err)
	afterFirst := st.Snapshot()

	clock.Advance(time.Hour)
	_, err = svc.Return(ctx, tx.ID)
	assert.ErrorIs(t, err, ErrTransactionNotActive)
	assert.Same(t, afterFirst, st.Snapshot())

	stored, _ := st.Snapshot().Transaction(tx.ID)
	assert.Equal(t, *first.ReturnDate, *stored.ReturnDate)
}

func TestReturn_Unknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Return(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestReturn_BookLentAgain(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newTestService(t)

	tx1, err := svc.Borrow(ctx, "b1", "m1")
	require.NoError(t, err)
	_, err = svc.Return(ctx, tx1.ID)
	require.NoError(t, err)
	tx2, err := svc.Borrow(ctx, "b1", "m2")
	require.NoError(t, err)

	// the first loan is closed and must not release the second
	_, err = svc.Return(ctx, tx1.ID)
	assert.ErrorIs(t, err, ErrTransactionNotActive)
	book, _ := st.Snapshot().Book("b1")
	assert.Equal(t, entity.BookBorrowed, book.Status)
	assert.NotEqual(t, tx1.ID, tx2.ID)
	assertLoanInvariant(t, st.Snapshot())
}

func TestBorrow_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	st, err := store.New(store.Snapshot{
		Books:   []entity.Book{{ID: "b1", Status: entity.BookAvailable}},
		Members: []entity.Member{{ID: "m1"}, {ID: "m2"}, {ID: "m3"}, {ID: "m4"}},
	})
	require.NoError(t, err)
	svc := NewService(st)

	var wg sync.WaitGroup
	var wins atomic.Int32
	for _, m := range []string{"m1", "m2", "m3", "m4"} {
		wg.Add(1)
		go func(memberID string) {
			defer wg.Done()
			if _, err := svc.Borrow(ctx, "b1", memberID); err == nil {
				wins.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrBookUnavailable)
			}
		}(m)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assertLoanInvariant(t, st.Snapshot())
}

func TestWithLoanPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)
	WithLoanPeriod(7 * 24 * time.Hour)(svc)
	WithLoanPeriod(0)(svc)

	tx, err := svc.Borrow(context.Background(), "b3", "m2")
	require.NoError(t, err)
	assert.Equal(t, clock0.AddDate(0, 0, 7), tx.DueDate)
}

func TestWithLogger_NilKeepsNop(t *testing.T) {
	svc, _, _ := newTestService(t)
	WithLogger(nil)(svc)
	require.NotNil(t, svc.logger)

	_, err := svc.Borrow(context.Background(), "b3", "m2")
	assert.NoError(t, err)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	tx, err := svc.Borrow(ctx, "b1", "m1")
	require.NoError(t, err)

	got, err := svc.Get(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx, got)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
