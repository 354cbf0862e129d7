package store

import "lumina/internal/entity"

// verify checks the cross-collection rules every published snapshot obeys:
//
//   - ids are unique within each collection
//   - book status is known; Borrowed iff exactly one active transaction holds the book
//   - transaction status is active or completed; return date iff completed
//   - an active transaction resolves to an existing book and member
func verify(s *Snapshot) error {
	bookIDs := make(map[string]struct{}, len(s.Books))
	for _, b := range s.Books {
		if _, dup := bookIDs[b.ID]; dup {
			return &InvariantError{Rule: "unique-book-id", ID: b.ID}
		}
		bookIDs[b.ID] = struct{}{}
	}
	memberIDs := make(map[string]struct{}, len(s.Members))
	for _, m := range s.Members {
		if _, dup := memberIDs[m.ID]; dup {
			return &InvariantError{Rule: "unique-member-id", ID: m.ID}
		}
		memberIDs[m.ID] = struct{}{}
	}

	activeByBook := make(map[string]int)
	txIDs := make(map[string]struct{}, len(s.Transactions))
	for _, t := range s.Transactions {
		if _, dup := txIDs[t.ID]; dup {
			return &InvariantError{Rule: "unique-transaction-id", ID: t.ID}
		}
		txIDs[t.ID] = struct{}{}

		if !t.Status.Stored() {
			return &InvariantError{Rule: "transaction-status", ID: t.ID}
		}
		if (t.Status == entity.TxCompleted) != (t.ReturnDate != nil) {
			return &InvariantError{Rule: "return-date", ID: t.ID}
		}
		if !t.IsActive() {
			continue
		}
		if _, ok := bookIDs[t.BookID]; !ok {
			return &InvariantError{Rule: "active-book-exists", ID: t.ID}
		}
		if _, ok := memberIDs[t.MemberID]; !ok {
			return &InvariantError{Rule: "active-member-exists", ID: t.ID}
		}
		activeByBook[t.BookID]++
	}

	for _, b := range s.Books {
		if !b.Status.Valid() {
			return &InvariantError{Rule: "book-status", ID: b.ID}
		}
		n := activeByBook[b.ID]
		if n > 1 {
			return &InvariantError{Rule: "single-active-loan", ID: b.ID}
		}
		if (b.Status == entity.BookBorrowed) != (n == 1) {
			return &InvariantError{Rule: "borrowed-iff-active-loan", ID: b.ID}
		}
	}
	return nil
}
