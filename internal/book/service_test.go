package book

import (
	"context"
	"testing"
	"time"

	"lumina/internal/entity"
	"lumina/internal/query"
	"lumina/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.New(store.Snapshot{
		Books: []entity.Book{
			{ID: "1", Title: "ความสุขของกะทิ", Author: "งามพรรณ เวชชาชีวะ", ISBN: "9789749697344", Category: "วรรณกรรมเยาวชน", Status: entity.BookAvailable},
			{ID: "2", Title: "1984", Author: "George Orwell", ISBN: "9786165123456", Category: "ดิสโทเปีย", Status: entity.BookBorrowed},
		},
		Members: []entity.Member{{ID: "m1", Name: "Ann"}},
		Transactions: []entity.Transaction{
			{ID: "t1", BookID: "2", MemberID: "m1", BorrowDate: fixedNow, DueDate: fixedNow.AddDate(0, 0, 14), Status: entity.TxActive},
		},
	})
	require.NoError(t, err)
	svc := NewService(st, nil)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "new-id" }
	return svc, st
}

func validInput() CreateInput {
	return CreateInput{
		Title:         "  เจ้าชายน้อย ",
		Author:        "อ็องตวน เดอ แซ็งเตกซูว์เปรี",
		ISBN:          "978-616-183-3114",
		Category:      "วรรณกรรมแปล",
		PublishedYear: 2486,
	}
}

func TestService_Create(t *testing.T) {
	svc, st := newTestService(t)

	b, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "new-id", b.ID)
	assert.Equal(t, "เจ้าชายน้อย", b.Title)
	assert.Equal(t, "9786161833114", b.ISBN)
	assert.Equal(t, entity.BookAvailable, b.Status)
	assert.Equal(t, "https://picsum.photos/seed/9786161833114/400/600", b.CoverImage)
	assert.Equal(t, fixedNow, b.CreatedAt)

	got, ok := st.Snapshot().Book("new-id")
	require.True(t, ok)
	assert.Equal(t, b, got)
}

func TestService_CreateLowercaseCheckDigit(t *testing.T) {
	svc, _ := newTestService(t)
	in := validInput()
	in.ISBN = "0-8044-2957-x"

	b, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "080442957X", b.ISBN)
}

func TestService_CreateKeepsGivenCover(t *testing.T) {
	svc, _ := newTestService(t)
	in := validInput()
	in.CoverImage = "data:image/png;base64,AAAA"

	b, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.CoverImage, b.CoverImage)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("to maintenance", func(t *testing.T) {
		svc, _ := newTestService(t)
		b, err := svc.Update(ctx, "1", UpdateInput{CreateInput: validInput(), Status: entity.BookMaintenance})
		require.NoError(t, err)
		assert.Equal(t, entity.BookMaintenance, b.Status)
		assert.Equal(t, "เจ้าชายน้อย", b.Title)
	})

	t.Run("empty status keeps current", func(t *testing.T) {
		svc, _ := newTestService(t)
		b, err := svc.Update(ctx, "2", UpdateInput{CreateInput: validInput()})
		require.NoError(t, err)
		assert.Equal(t, entity.BookBorrowed, b.Status)
	})

	t.Run("on loan status change", func(t *testing.T) {
		svc, st := newTestService(t)
		before := st.Snapshot()
		_, err := svc.Update(ctx, "2", UpdateInput{CreateInput: validInput(), Status: entity.BookAvailable})
		assert.ErrorIs(t, err, ErrBookOnLoan)
		assert.Same(t, before, st.Snapshot())
	})

	t.Run("cannot set borrowed", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Update(ctx, "1", UpdateInput{CreateInput: validInput(), Status: entity.BookBorrowed})
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("unknown", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Update(ctx, "404", UpdateInput{CreateInput: validInput()})
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	assert.ErrorIs(t, svc.Delete(ctx, "2"), store.ErrReferenced)
	require.NoError(t, svc.Delete(ctx, "1"))
	_, ok := st.Snapshot().Book("1")
	assert.False(t, ok)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), entity.ErrNotFound)
}

func TestService_Reads(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	assert.Len(t, svc.List(ctx, query.BookFilter{}), 2)
	assert.Len(t, svc.List(ctx, query.BookFilter{Search: "ORWELL"}), 1)
	assert.Len(t, svc.Available(ctx), 1)
	assert.Equal(t, []string{"วรรณกรรมเยาวชน", "ดิสโทเปีย"}, svc.Categories(ctx))

	_, err := svc.Get(ctx, "1")
	assert.NoError(t, err)
	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
