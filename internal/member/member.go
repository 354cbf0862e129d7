package member

import (
	"fmt"
	"net/url"

	"lumina/internal/entity"
)

// ErrEmailTaken is returned when another member already uses the email.
var ErrEmailTaken = fmt.Errorf("%w: email already registered", entity.ErrConflict)

// Input is the registration form. JoinDate defaults to today when empty.
type Input struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	JoinDate string `json:"join_date" validate:"omitempty,join_date"`
	Avatar   string `json:"avatar" validate:"omitempty,url,max=2000"`
}

// PlaceholderAvatar is the avatar used when none is supplied.
func PlaceholderAvatar(seed string) string {
	return "https://picsum.photos/seed/" + url.PathEscape(seed) + "/100/100"
}
