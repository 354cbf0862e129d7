package lending

import (
	"time"

	"lumina/internal/entity"
)

// borrowDecision is the outcome of a successful borrow: the loan to record
// and the book as it should read afterwards.
type borrowDecision struct {
	tx   entity.Transaction
	book entity.Book
}

// decideBorrow applies the borrow rules to the current state. It has no side
// effects; the caller commits the result.
//
// Checks run in order and the first failure wins:
//
//	missing book or member selection  -> ErrInvalidBorrowRequest
//	book id does not resolve          -> ReferentialError(book)
//	member id does not resolve        -> ReferentialError(member)
//	book status is not Available      -> ErrBookUnavailable
func decideBorrow(
	bookID, memberID string,
	book entity.Book, bookFound bool,
	memberFound bool,
	txID string, now time.Time, loanPeriod time.Duration,
) (borrowDecision, error) {
	if bookID == "" || memberID == "" {
		return borrowDecision{}, ErrInvalidBorrowRequest
	}
	if !bookFound {
		return borrowDecision{}, &entity.ReferentialError{Entity: "book", ID: bookID}
	}
	if !memberFound {
		return borrowDecision{}, &entity.ReferentialError{Entity: "member", ID: memberID}
	}
	if book.Status != entity.BookAvailable {
		return borrowDecision{}, ErrBookUnavailable
	}

	book.Status = entity.BookBorrowed
	book.UpdatedAt = now
	return borrowDecision{
		tx: entity.Transaction{
			ID:         txID,
			BookID:     bookID,
			MemberID:   memberID,
			BorrowDate: now,
			DueDate:    DueDate(now, loanPeriod),
			Status:     entity.TxActive,
		},
		book: book,
	}, nil
}

// returnDecision is the outcome of a successful return. book is nil when the
// loaned book no longer exists.
type returnDecision struct {
	tx   entity.Transaction
	book *entity.Book
}

func decideReturn(
	txID string,
	tx entity.Transaction, txFound bool,
	book entity.Book, bookFound bool,
	now time.Time,
) (returnDecision, error) {
	if !txFound {
		return returnDecision{}, &entity.ReferentialError{Entity: "transaction", ID: txID}
	}
	if !tx.IsActive() {
		return returnDecision{}, ErrTransactionNotActive
	}

	returned := now
	tx.Status = entity.TxCompleted
	tx.ReturnDate = &returned

	d := returnDecision{tx: tx}
	if bookFound {
		book.Status = entity.BookAvailable
		book.UpdatedAt = now
		d.book = &book
	}
	return d, nil
}

// DueDate adds whole days in calendar terms so a loan spanning a DST change
// still ends at the same wall-clock time.
func DueDate(borrowed time.Time, loanPeriod time.Duration) time.Time {
	days := int(loanPeriod / (24 * time.Hour))
	rest := loanPeriod % (24 * time.Hour)
	return borrowed.AddDate(0, 0, days).Add(rest)
}
