package lending

import (
	"fmt"

	"lumina/internal/entity"
)

var (
	// ErrInvalidBorrowRequest is returned when the book or member selection is missing.
	ErrInvalidBorrowRequest = fmt.Errorf("%w: book and member must both be selected", entity.ErrValidation)
	// ErrBookUnavailable is returned when the selected book is not Available.
	ErrBookUnavailable = fmt.Errorf("%w: book is not available", entity.ErrConflict)
	// ErrTransactionNotActive is returned when returning a loan that is already closed.
	ErrTransactionNotActive = fmt.Errorf("%w: transaction is not active", entity.ErrConflict)
)
