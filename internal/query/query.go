// Package query derives read views from an entity store snapshot.
//
// Every function here is pure: it reads the snapshot it is given and
// allocates its result. Nothing is cached between calls.
package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"lumina/internal/entity"
	"lumina/internal/store"
)

// CategoryAll disables the category filter in SearchBooks.
const CategoryAll = "all"

// AvailableBooks returns the books that can be lent right now.
func AvailableBooks(s *store.Snapshot) []entity.Book {
	out := make([]entity.Book, 0, len(s.Books))
	for _, b := range s.Books {
		if b.Status == entity.BookAvailable {
			out = append(out, b)
		}
	}
	return out
}

// ActiveTransactions returns loans that have not been returned, overdue ones
// included.
func ActiveTransactions(s *store.Snapshot) []entity.Transaction {
	out := make([]entity.Transaction, 0)
	for _, t := range s.Transactions {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out
}

// OverdueTransactions returns active loans whose due date is before now.
func OverdueTransactions(s *store.Snapshot, now time.Time) []entity.Transaction {
	out := make([]entity.Transaction, 0)
	for _, t := range s.Transactions {
		if t.EffectiveStatus(now) == entity.TxOverdue {
			out = append(out, t)
		}
	}
	return out
}

// TransactionsByStatus filters by effective status. An empty status or "all"
// returns every transaction.
func TransactionsByStatus(s *store.Snapshot, status string, now time.Time) []entity.Transaction {
	if status == "" || status == "all" {
		return slices.Clone(s.Transactions)
	}
	out := make([]entity.Transaction, 0)
	for _, t := range s.Transactions {
		eff := t.EffectiveStatus(now)
		// overdue loans are still active
		if string(eff) == status || (status == string(entity.TxActive) && eff == entity.TxOverdue) {
			out = append(out, t)
		}
	}
	return out
}

// TransactionsForMember returns a member's loan history, newest first.
func TransactionsForMember(s *store.Snapshot, memberID string) []entity.Transaction {
	out := make([]entity.Transaction, 0)
	for _, t := range s.Transactions {
		if t.MemberID == memberID {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b entity.Transaction) int {
		return b.BorrowDate.Compare(a.BorrowDate)
	})
	return out
}

// BorrowedCount is the number of active loans held by a member.
func BorrowedCount(s *store.Snapshot, memberID string) int {
	n := 0
	for _, t := range s.Transactions {
		if t.IsActive() && t.MemberID == memberID {
			n++
		}
	}
	return n
}

// LoanDetail is a transaction joined with its book and member. Book and
// Member are nil when the record no longer exists. Status carries the
// effective status, so an active loan past due reads as overdue.
type LoanDetail struct {
	entity.Transaction
	Book   *entity.Book   `json:"book"`
	Member *entity.Member `json:"member"`
}

// WithDetails joins tx with its book and member.
func WithDetails(s *store.Snapshot, tx entity.Transaction, now time.Time) LoanDetail {
	d := LoanDetail{Transaction: tx}
	d.Status = tx.EffectiveStatus(now)
	if b, ok := s.Book(tx.BookID); ok {
		d.Book = &b
	}
	if m, ok := s.Member(tx.MemberID); ok {
		d.Member = &m
	}
	return d
}

// AllWithDetails joins every transaction in txs.
func AllWithDetails(s *store.Snapshot, txs []entity.Transaction, now time.Time) []LoanDetail {
	out := make([]LoanDetail, len(txs))
	for i, t := range txs {
		out[i] = WithDetails(s, t, now)
	}
	return out
}

// MemberView is a member with the live count of books on loan.
type MemberView struct {
	entity.Member
	BorrowedCount int `json:"borrowed_count"`
}

// MemberViews decorates members with their borrowed count.
func MemberViews(s *store.Snapshot, members []entity.Member) []MemberView {
	active := make(map[string]int)
	for _, t := range s.Transactions {
		if t.IsActive() {
			active[t.MemberID]++
		}
	}
	out := make([]MemberView, len(members))
	for i, m := range members {
		out[i] = MemberView{Member: m, BorrowedCount: active[m.ID]}
	}
	return out
}

// BookFilter narrows SearchBooks. Zero values match everything.
type BookFilter struct {
	// Search matches title or author case-insensitively, or ISBN as a substring.
	Search   string
	Category string
	Status   entity.BookStatus
}

// SearchBooks returns the books matching every non-empty field of f, in
// inventory order.
func SearchBooks(s *store.Snapshot, f BookFilter) []entity.Book {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]entity.Book, 0, len(s.Books))
	for _, b := range s.Books {
		if term != "" &&
			!strings.Contains(strings.ToLower(b.Title), term) &&
			!strings.Contains(strings.ToLower(b.Author), term) &&
			!strings.Contains(strings.ToLower(b.ISBN), term) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && b.Category != f.Category {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}
	return out
}

// SearchMembers matches name or email case-insensitively, or phone as a substring.
func SearchMembers(s *store.Snapshot, search string) []entity.Member {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return slices.Clone(s.Members)
	}
	out := make([]entity.Member, 0)
	for _, m := range s.Members {
		if strings.Contains(strings.ToLower(m.Name), term) ||
			strings.Contains(strings.ToLower(m.Email), term) ||
			strings.Contains(m.Phone, term) {
			out = append(out, m)
		}
	}
	return out
}

// Categories lists distinct book categories in the order they first appear.
func Categories(s *store.Snapshot) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, b := range s.Books {
		if b.Category == "" {
			continue
		}
		if _, ok := seen[b.Category]; ok {
			continue
		}
		seen[b.Category] = struct{}{}
		out = append(out, b.Category)
	}
	return out
}

// RecentBooks returns up to n books, most recently created first. Books
// created at the same instant keep catalog order.
func RecentBooks(s *store.Snapshot, n int) []entity.Book {
	books := slices.Clone(s.Books)
	slices.SortStableFunc(books, func(a, b entity.Book) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if n >= 0 && len(books) > n {
		books = books[:n]
	}
	return books
}

// Paginate returns the window [offset, offset+limit) of items, clamped to
// the slice bounds.
func Paginate[T any](items []T, offset, limit int) []T {
	offset = min(max(offset, 0), len(items))
	end := len(items)
	if limit > 0 {
		end = min(offset+limit, len(items))
	}
	return items[offset:end]
}

func countBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	out := make(map[K]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
