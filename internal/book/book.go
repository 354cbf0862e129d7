package book

import (
	"fmt"
	"net/url"

	"lumina/internal/entity"
)

// ErrBookOnLoan is returned when an inventory edit tries to change the status
// of a book that is currently lent out.
var ErrBookOnLoan = fmt.Errorf("%w: book is on loan", entity.ErrConflict)

// CreateInput is the inventory form for a new book.
type CreateInput struct {
	Title         string `json:"title" validate:"required,max=300"`
	Author        string `json:"author" validate:"required,max=200"`
	ISBN          string `json:"isbn" validate:"required,isbn"`
	Category      string `json:"category" validate:"max=100"`
	PublishedYear int    `json:"published_year" validate:"gte=0,lte=9999"`
	Description   string `json:"description" validate:"max=5000"`
	CoverImage    string `json:"cover_image" validate:"omitempty,max=2000000"`
}

// UpdateInput replaces the editable fields of a book. An empty Status keeps
// the current one.
type UpdateInput struct {
	CreateInput
	Status entity.BookStatus `json:"status" validate:"omitempty,book_status"`
}

// PlaceholderCover is the cover used when none is supplied.
func PlaceholderCover(seed string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(seed) + "/400/600"
}
