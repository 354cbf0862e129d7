package entity

import "time"

// JoinDateLayout is the calendar-date layout used for Member.JoinDate.
const JoinDateLayout = "2006-01-02"

// Member is a registered library member. The number of books a member
// currently holds is not stored here; it is derived from active transactions.
type Member struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Phone     string    `json:"phone" yaml:"phone"`
	JoinDate  string    `json:"join_date" yaml:"join_date"`
	Avatar    string    `json:"avatar" yaml:"avatar"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}
