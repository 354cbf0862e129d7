package store

import "lumina/internal/entity"

// Snapshot is an immutable view of the three collections at one version.
// Slices held by a published snapshot are never written again; callers that
// want to modify a slice must copy it first.
type Snapshot struct {
	Books        []entity.Book
	Members      []entity.Member
	Transactions []entity.Transaction
	Version      uint64
}

// Book looks up a book by id.
func (s *Snapshot) Book(id string) (entity.Book, bool) {
	if i := indexBook(s.Books, id); i >= 0 {
		return s.Books[i], true
	}
	return entity.Book{}, false
}

// Member looks up a member by id.
func (s *Snapshot) Member(id string) (entity.Member, bool) {
	if i := indexMember(s.Members, id); i >= 0 {
		return s.Members[i], true
	}
	return entity.Member{}, false
}

// Transaction looks up a transaction by id.
func (s *Snapshot) Transaction(id string) (entity.Transaction, bool) {
	if i := indexTransaction(s.Transactions, id); i >= 0 {
		return s.Transactions[i], true
	}
	return entity.Transaction{}, false
}

func indexBook(books []entity.Book, id string) int {
	for i := range books {
		if books[i].ID == id {
			return i
		}
	}
	return -1
}

func indexMember(members []entity.Member, id string) int {
	for i := range members {
		if members[i].ID == id {
			return i
		}
	}
	return -1
}

func indexTransaction(txs []entity.Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}

func activeLoansFor(txs []entity.Transaction, match func(entity.Transaction) bool) int {
	n := 0
	for _, t := range txs {
		if t.IsActive() && match(t) {
			n++
		}
	}
	return n
}
