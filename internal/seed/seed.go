// Package seed provides the initial data injected into the entity store at
// startup. A dataset is read from a Source, normalized by a Loader so that it
// satisfies the store invariants, and handed to store.New as a Snapshot.
package seed

import (
	"context"
	"fmt"

	"lumina/internal/entity"
)

// Dataset is the raw, unvalidated content of a seed source.
type Dataset struct {
	Books        []entity.Book        `yaml:"books"`
	Members      []MemberRecord       `yaml:"members"`
	Transactions []entity.Transaction `yaml:"transactions,omitempty"`
}

// MemberRecord is a member as it appears in seed data. Older datasets carry a
// stored borrowed_count; it is compared against the live count and otherwise
// ignored.
type MemberRecord struct {
	entity.Member `yaml:",inline"`
	BorrowedCount *int `yaml:"borrowed_count,omitempty"`
}

// Source reads a dataset.
type Source interface {
	Name() string
	Load(ctx context.Context) (Dataset, error)
}

// Report summarizes what a Loader did with a dataset.
type Report struct {
	Source             string   `json:"source" yaml:"source"`
	BooksLoaded        int      `json:"books_loaded" yaml:"books_loaded"`
	MembersLoaded      int      `json:"members_loaded" yaml:"members_loaded"`
	TransactionsLoaded int      `json:"transactions_loaded" yaml:"transactions_loaded"`
	Normalized         int      `json:"normalized" yaml:"normalized"`
	Skipped            int      `json:"skipped" yaml:"skipped"`
	Notes              []string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

func (r *Report) normalize(format string, args ...any) {
	r.Normalized++
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

func (r *Report) skip(format string, args ...any) {
	r.Skipped++
	r.Notes = append(r.Notes, "skipped: "+fmt.Sprintf(format, args...))
}

func (r *Report) note(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}
