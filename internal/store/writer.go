package store

import (
	"slices"

	"lumina/internal/entity"
)

// Writer is the draft handed to an Apply callback. Each collection is copied
// the first time it is written, so the published snapshot stays untouched
// until the draft commits.
type Writer struct {
	draft         Snapshot
	booksCopied   bool
	membersCopied bool
	txCopied      bool
}

func newWriter(base *Snapshot) *Writer {
	return &Writer{draft: *base}
}

// Book looks up a book in the draft.
func (w *Writer) Book(id string) (entity.Book, bool) { return w.draft.Book(id) }

// Member looks up a member in the draft.
func (w *Writer) Member(id string) (entity.Member, bool) { return w.draft.Member(id) }

// Transaction looks up a transaction in the draft.
func (w *Writer) Transaction(id string) (entity.Transaction, bool) {
	return w.draft.Transaction(id)
}

// Books returns the draft's books. The slice must not be modified.
func (w *Writer) Books() []entity.Book { return w.draft.Books }

// Members returns the draft's members. The slice must not be modified.
func (w *Writer) Members() []entity.Member { return w.draft.Members }

// Transactions returns the draft's transactions. The slice must not be modified.
func (w *Writer) Transactions() []entity.Transaction { return w.draft.Transactions }

// ActiveLoansForBook counts active transactions that reference bookID.
func (w *Writer) ActiveLoansForBook(bookID string) int {
	return activeLoansFor(w.draft.Transactions, func(t entity.Transaction) bool { return t.BookID == bookID })
}

// ActiveLoansForMember counts active transactions that reference memberID.
func (w *Writer) ActiveLoansForMember(memberID string) int {
	return activeLoansFor(w.draft.Transactions, func(t entity.Transaction) bool { return t.MemberID == memberID })
}

func (w *Writer) mutableBooks() []entity.Book {
	if !w.booksCopied {
		w.draft.Books = slices.Clone(w.draft.Books)
		w.booksCopied = true
	}
	return w.draft.Books
}

func (w *Writer) mutableMembers() []entity.Member {
	if !w.membersCopied {
		w.draft.Members = slices.Clone(w.draft.Members)
		w.membersCopied = true
	}
	return w.draft.Members
}

func (w *Writer) mutableTransactions() []entity.Transaction {
	if !w.txCopied {
		w.draft.Transactions = slices.Clone(w.draft.Transactions)
		w.txCopied = true
	}
	return w.draft.Transactions
}

// AddBook appends b. The id must be set and unused.
func (w *Writer) AddBook(b entity.Book) error {
	if b.ID == "" {
		return &entity.ValidationError{Field: "id", Message: "id is required"}
	}
	if indexBook(w.draft.Books, b.ID) >= 0 {
		return ErrDuplicateID
	}
	w.draft.Books = append(w.mutableBooks(), b)
	return nil
}

// UpdateBook replaces the book with b.ID in the draft.
func (w *Writer) UpdateBook(b entity.Book) error {
	i := indexBook(w.draft.Books, b.ID)
	if i < 0 {
		return &entity.ReferentialError{Entity: "book", ID: b.ID}
	}
	w.mutableBooks()[i] = b
	return nil
}

// RemoveBook deletes a book. Books on an active loan cannot be removed.
func (w *Writer) RemoveBook(id string) error {
	i := indexBook(w.draft.Books, id)
	if i < 0 {
		return &entity.ReferentialError{Entity: "book", ID: id}
	}
	if w.ActiveLoansForBook(id) > 0 {
		return ErrReferenced
	}
	w.draft.Books = slices.Delete(w.mutableBooks(), i, i+1)
	return nil
}

// AddMember appends m. The id must be set and unused.
func (w *Writer) AddMember(m entity.Member) error {
	if m.ID == "" {
		return &entity.ValidationError{Field: "id", Message: "id is required"}
	}
	if indexMember(w.draft.Members, m.ID) >= 0 {
		return ErrDuplicateID
	}
	w.draft.Members = append(w.mutableMembers(), m)
	return nil
}

// UpdateMember replaces the member with m.ID in the draft.
func (w *Writer) UpdateMember(m entity.Member) error {
	i := indexMember(w.draft.Members, m.ID)
	if i < 0 {
		return &entity.ReferentialError{Entity: "member", ID: m.ID}
	}
	w.mutableMembers()[i] = m
	return nil
}

// RemoveMember deletes a member. Members holding an active loan cannot be removed.
func (w *Writer) RemoveMember(id string) error {
	i := indexMember(w.draft.Members, id)
	if i < 0 {
		return &entity.ReferentialError{Entity: "member", ID: id}
	}
	if w.ActiveLoansForMember(id) > 0 {
		return ErrReferenced
	}
	w.draft.Members = slices.Delete(w.mutableMembers(), i, i+1)
	return nil
}

// AddTransaction records a new transaction. Its book and member must exist.
func (w *Writer) AddTransaction(t entity.Transaction) error {
	if t.ID == "" {
		return &entity.ValidationError{Field: "id", Message: "id is required"}
	}
	if indexTransaction(w.draft.Transactions, t.ID) >= 0 {
		return ErrDuplicateID
	}
	if indexBook(w.draft.Books, t.BookID) < 0 {
		return &entity.ReferentialError{Entity: "book", ID: t.BookID}
	}
	if indexMember(w.draft.Members, t.MemberID) < 0 {
		return &entity.ReferentialError{Entity: "member", ID: t.MemberID}
	}
	w.draft.Transactions = append(w.mutableTransactions(), t)
	return nil
}

// UpdateTransaction replaces a transaction. The book and member it points at
// are fixed at creation.
func (w *Writer) UpdateTransaction(t entity.Transaction) error {
	i := indexTransaction(w.draft.Transactions, t.ID)
	if i < 0 {
		return &entity.ReferentialError{Entity: "transaction", ID: t.ID}
	}
	cur := w.draft.Transactions[i]
	if cur.BookID != t.BookID || cur.MemberID != t.MemberID {
		return ErrImmutableReference
	}
	w.mutableTransactions()[i] = t
	return nil
}
