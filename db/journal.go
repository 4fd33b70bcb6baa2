package db

// journal.go deals with accounting journal database calls.

import (
	"context"
)

// JournalEntry is the concrete type of each row of the journal_entries
// table. The debit and credit accounts are free-form codes, not normalized
// entities.
type JournalEntry struct {
	ID            int64   `db:"id"`
	Date          string  `db:"date_ecriture"` // ISO YYYY-MM-DD
	Label         string  `db:"libelle"`
	DebitAccount  string  `db:"compte_debit"`
	CreditAccount string  `db:"compte_credit"`
	Amount        float64 `db:"montant"`
}

// Journal is the repository for accounting journal entries. Entries are
// append-only: there is no update or delete.
type Journal struct {
	db *DB
}

// NewJournal returns a Journal repository using the provided store.
func NewJournal(db *DB) *Journal {
	return &Journal{db: db}
}

// Create inserts a new journal entry and returns its store-assigned
// identifier. Amounts are expected positive by convention; the store does
// not enforce this.
func (j *Journal) Create(ctx context.Context, date, label, debitAccount, creditAccount string, amount float64) (int64, error) {
	res, err := j.db.exec(ctx, "journal create",
		`INSERT INTO journal_entries (date_ecriture, libelle, compte_debit, compte_credit, montant)
		 VALUES (?, ?, ?, ?, ?)`,
		date, label, debitAccount, creditAccount, amount,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID("journal create", res)
}

// List returns all journal entries in reverse chronological order, with the
// identifier as a descending tie-break so same-day entries show the most
// recently created first.
func (j *Journal) List(ctx context.Context) ([]JournalEntry, error) {
	var entries []JournalEntry
	err := j.db.sel(ctx, "journal list",
		&entries,
		`SELECT id, date_ecriture, libelle, compte_debit, compte_credit, montant
		   FROM journal_entries
		  ORDER BY date_ecriture DESC, id DESC`,
	)
	return entries, err
}
