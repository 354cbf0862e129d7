package entity

import "time"

// TransactionStatus is the lifecycle state of a loan.
//
// Only TxActive and TxCompleted are ever stored. TxOverdue is a read-side
// classification of an active loan whose due date has passed.
type TransactionStatus string

const (
	TxActive    TransactionStatus = "active"
	TxCompleted TransactionStatus = "completed"
	TxOverdue   TransactionStatus = "overdue"
)

// Stored reports whether s may be persisted in the entity store.
func (s TransactionStatus) Stored() bool {
	return s == TxActive || s == TxCompleted
}

type Transaction struct {
	ID         string            `json:"id" yaml:"id"`
	BookID     string            `json:"book_id" yaml:"book_id"`
	MemberID   string            `json:"member_id" yaml:"member_id"`
	BorrowDate time.Time         `json:"borrow_date" yaml:"borrow_date"`
	DueDate    time.Time         `json:"due_date" yaml:"due_date"`
	ReturnDate *time.Time        `json:"return_date,omitempty" yaml:"return_date,omitempty"`
	Status     TransactionStatus `json:"status" yaml:"status"`
}

// IsActive reports whether the loan has not been returned yet.
func (t Transaction) IsActive() bool {
	return t.Status == TxActive
}

// EffectiveStatus classifies the transaction at now, reporting TxOverdue for
// active loans past their due date.
func (t Transaction) EffectiveStatus(now time.Time) TransactionStatus {
	if t.Status == TxActive && now.After(t.DueDate) {
		return TxOverdue
	}
	return t.Status
}
