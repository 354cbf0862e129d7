// Package testutil holds fixtures and request helpers shared by handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lumina/internal/entity"
	"lumina/internal/httpx"
	"lumina/internal/store"
)

// Now is the reference clock for fixtures.
var Now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// TestBook is an available book.
var TestBook = entity.Book{
	ID:            "b1",
	Title:         "ความสุขของกะทิ",
	Author:        "งามพรรณ เวชชาชีวะ",
	ISBN:          "9789749697344",
	Category:      "วรรณกรรมเยาวชน",
	Status:        entity.BookAvailable,
	PublishedYear: 2546,
	CreatedAt:     Now.Add(-48 * time.Hour),
	UpdatedAt:     Now.Add(-48 * time.Hour),
}

// TestLoanedBook is on loan to TestMember through TestLoan.
var TestLoanedBook = entity.Book{
	ID:            "b2",
	Title:         "เจ้าชายน้อย",
	Author:        "อ็องตวน เดอ แซ็งเตกซูว์เปรี",
	ISBN:          "9786161833114",
	Category:      "วรรณกรรมแปล",
	Status:        entity.BookBorrowed,
	PublishedYear: 2486,
	CreatedAt:     Now.Add(-24 * time.Hour),
	UpdatedAt:     Now.Add(-24 * time.Hour),
}

var TestMember = entity.Member{
	ID:       "m1",
	Name:     "สมชาย รักเรียน",
	Email:    "somchai@example.com",
	Phone:    "081-234-5678",
	JoinDate: "2023-01-15",
}

var TestLoan = entity.Transaction{
	ID:         "t1",
	BookID:     "b2",
	MemberID:   "m1",
	BorrowDate: Now.Add(-72 * time.Hour),
	DueDate:    Now.Add(-72*time.Hour + 14*24*time.Hour),
	Status:     entity.TxActive,
}

// Snapshot returns a consistent initial dataset built from the fixtures.
func Snapshot() store.Snapshot {
	return store.Snapshot{
		Books:        []entity.Book{TestBook, TestLoanedBook},
		Members:      []entity.Member{TestMember},
		Transactions: []entity.Transaction{TestLoan},
	}
}

// NewStore builds a store seeded with Snapshot.
func NewStore(t testing.TB) *store.Store {
	t.Helper()
	st, err := store.New(Snapshot())
	require.NoError(t, err)
	return st
}

// NewRequest creates a request with body encoded as JSON when non-nil.
func NewRequest(method, path string, body any) *http.Request {
	var r *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// Envelope is the decoded shape of every JSON response.
type Envelope struct {
	Success bool                    `json:"success"`
	Data    json.RawMessage         `json:"data"`
	Meta    map[string]any          `json:"meta"`
	Error   httpx.ErrorResponseBody `json:"error"`
}

// Decode reads the recorded response as an Envelope and, when data is
// non-nil, unmarshals the data member into it.
func Decode(t testing.TB, w *httptest.ResponseRecorder, data any) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env), "body: %s", w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// Serve runs r through h and returns the recorder.
func Serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
