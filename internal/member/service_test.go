package member

import (
	"context"
	"testing"
	"time"

	"lumina/internal/entity"
	"lumina/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 8, 9, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	returned := fixedNow.AddDate(0, 0, -20)
	st, err := store.New(store.Snapshot{
		Books: []entity.Book{
			{ID: "1", Title: "Sapiens", Status: entity.BookBorrowed},
			{ID: "2", Title: "Dune", Status: entity.BookAvailable},
		},
		Members: []entity.Member{
			{ID: "m1", Name: "สมชาย รักเรียน", Email: "somchai@example.com", Phone: "081-234-5678", JoinDate: "2023-01-15"},
			{ID: "m2", Name: "สมศรี มีความรู้", Email: "somsri@example.com", Phone: "082-345-6789", JoinDate: "2023-03-20"},
		},
		Transactions: []entity.Transaction{
			{ID: "t1", BookID: "1", MemberID: "m1", BorrowDate: fixedNow.AddDate(0, 0, -20), DueDate: fixedNow.AddDate(0, 0, -6), Status: entity.TxActive},
			{ID: "t0", BookID: "2", MemberID: "m1", BorrowDate: fixedNow.AddDate(0, 0, -40), DueDate: fixedNow.AddDate(0, 0, -26), ReturnDate: &returned, Status: entity.TxCompleted},
		},
	})
	require.NoError(t, err)
	svc := NewService(st, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "m-new" }
	return svc, st
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc, st := newTestService(t)
		m, err := svc.Register(ctx, Input{Name: " มานะ ขยันอ่าน ", Email: "mana@example.com"})
		require.NoError(t, err)

		assert.Equal(t, "m-new", m.ID)
		assert.Equal(t, "มานะ ขยันอ่าน", m.Name)
		assert.Equal(t, "2024-08-09", m.JoinDate)
		assert.Equal(t, "https://picsum.photos/seed/mana@example.com/100/100", m.Avatar)
		_, ok := st.Snapshot().Member("m-new")
		assert.True(t, ok)
	})

	t.Run("explicit join date", func(t *testing.T) {
		svc, _ := newTestService(t)
		m, err := svc.Register(ctx, Input{Name: "x", Email: "x@example.com", JoinDate: "2023-05-10"})
		require.NoError(t, err)
		assert.Equal(t, "2023-05-10", m.JoinDate)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(ctx, Input{Name: "x", Email: "SOMCHAI@example.com"})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	m, err := svc.Update(ctx, "m2", Input{Name: "สมศรี", Email: "somsri@example.com", Phone: "099-000-1111"})
	require.NoError(t, err)
	assert.Equal(t, "099-000-1111", m.Phone)
	assert.Equal(t, "2023-03-20", m.JoinDate, "join date is kept when not supplied")

	_, err = svc.Update(ctx, "m2", Input{Name: "x", Email: "somchai@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Update(ctx, "m9", Input{Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	assert.ErrorIs(t, svc.Delete(ctx, "m1"), store.ErrReferenced)
	require.NoError(t, svc.Delete(ctx, "m2"))
	assert.ErrorIs(t, svc.Delete(ctx, "m2"), entity.ErrNotFound)
}

func TestService_BorrowedCountIsLive(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	views := svc.List(ctx, "")
	require.Len(t, views, 2)
	assert.Equal(t, 1, views[0].BorrowedCount)
	assert.Equal(t, 0, views[1].BorrowedCount)

	// close the loan directly in the store
	_, err := st.Apply(ctx, func(w *store.Writer) error {
		tx, _ := w.Transaction("t1")
		ret := fixedNow
		tx.Status, tx.ReturnDate = entity.TxCompleted, &ret
		b, _ := w.Book("1")
		b.Status = entity.BookAvailable
		if err := w.UpdateBook(b); err != nil {
			return err
		}
		return w.UpdateTransaction(tx)
	})
	require.NoError(t, err)

	m, err := svc.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 0, m.BorrowedCount)
}

func TestService_Transactions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	loans, err := svc.Transactions(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, "t1", loans[0].ID)
	assert.Equal(t, entity.TxOverdue, loans[0].Status)
	assert.Equal(t, entity.TxCompleted, loans[1].Status)

	_, err = svc.Transactions(ctx, "ghost")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
