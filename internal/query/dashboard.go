package query

import (
	"time"

	"lumina/internal/entity"
	"lumina/internal/store"
)

const recentBooksOnDashboard = 4

type CategoryCount struct {
	Category string `json:"category"`
	Books    int    `json:"books"`
}

// Dashboard is the overview shown on the landing page.
type Dashboard struct {
	TotalBooks       int             `json:"total_books"`
	AvailableBooks   int             `json:"available_books"`
	BorrowedBooks    int             `json:"borrowed_books"`
	MaintenanceBooks int             `json:"maintenance_books"`
	TotalMembers     int             `json:"total_members"`
	ActiveLoans      int             `json:"active_loans"`
	OverdueLoans     int             `json:"overdue_loans"`
	Categories       []CategoryCount `json:"categories"`
	RecentBooks      []entity.Book   `json:"recent_books"`
	Version          uint64          `json:"version"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

func BuildDashboard(s *store.Snapshot, now time.Time) Dashboard {
	byStatus := countBy(s.Books, func(b entity.Book) entity.BookStatus { return b.Status })
	byCategory := countBy(s.Books, func(b entity.Book) string { return b.Category })
	delete(byCategory, "")

	cats := make([]CategoryCount, 0, len(byCategory))
	for _, c := range sortedKeys(byCategory) {
		cats = append(cats, CategoryCount{Category: c, Books: byCategory[c]})
	}

	return Dashboard{
		TotalBooks:       len(s.Books),
		AvailableBooks:   byStatus[entity.BookAvailable],
		BorrowedBooks:    byStatus[entity.BookBorrowed],
		MaintenanceBooks: byStatus[entity.BookMaintenance],
		TotalMembers:     len(s.Members),
		ActiveLoans:      len(ActiveTransactions(s)),
		OverdueLoans:     len(OverdueTransactions(s, now)),
		Categories:       cats,
		RecentBooks:      RecentBooks(s, recentBooksOnDashboard),
		Version:          s.Version,
		GeneratedAt:      now,
	}
}
