package entity

import "time"

// BookStatus is the shelf state of a book.
type BookStatus string

const (
	BookAvailable   BookStatus = "Available"
	BookBorrowed    BookStatus = "Borrowed"
	BookMaintenance BookStatus = "Maintenance"
)

// Valid reports whether s is one of the known book statuses.
func (s BookStatus) Valid() bool {
	switch s {
	case BookAvailable, BookBorrowed, BookMaintenance:
		return true
	}
	return false
}

type Book struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Author        string     `json:"author" yaml:"author"`
	ISBN          string     `json:"isbn" yaml:"isbn"`
	Category      string     `json:"category" yaml:"category"`
	Status        BookStatus `json:"status" yaml:"status"`
	PublishedYear int        `json:"published_year" yaml:"published_year"`
	Description   string     `json:"description" yaml:"description"`
	CoverImage    string     `json:"cover_image" yaml:"cover_image"`
	CreatedAt     time.Time  `json:"created_at" yaml:"-"`
	UpdatedAt     time.Time  `json:"updated_at" yaml:"-"`
}
