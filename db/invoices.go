package db

// invoices.go deals with invoice-related database calls.

import (
	"context"
	"fmt"
)

// Status values stored in the statut column. The enumeration is closed; the
// French strings are the on-disk representation inherited from existing
// database files.
const (
	StatusPending = "En attente"
	StatusPaid    = "Payée"
)

// Invoice is the concrete type of each row of the invoices table. Gross is
// derived from Net and VATRate at write time and stored, so historical
// invoices keep the total computed with their original rate.
type Invoice struct {
	ID       int64   `db:"id"`
	ClientID int64   `db:"client_id"`
	Date     string  `db:"date_facture"` // ISO YYYY-MM-DD
	Net      float64 `db:"montant_ht"`
	VATRate  float64 `db:"taux_tva"` // percentage units, e.g. 20.0
	Gross    float64 `db:"montant_ttc"`
	Status   string  `db:"statut"`
}

// InvoiceWithClient is an Invoice carrying the display name of its client.
// The name is a read-only projection for listings and is never stored on
// the invoice row.
type InvoiceWithClient struct {
	Invoice
	ClientName string `db:"client"`
}

// Invoices is the repository for invoice records.
type Invoices struct {
	db *DB
}

// NewInvoices returns an Invoices repository using the provided store.
func NewInvoices(db *DB) *Invoices {
	return &Invoices{db: db}
}

// grossAmount computes the VAT-inclusive total from a net amount and a rate
// in percentage units.
func grossAmount(net, vatRate float64) float64 {
	return net * (1 + vatRate/100)
}

// checkStatus rejects statuses outside the closed enumeration.
func checkStatus(op, status string) error {
	switch status {
	case StatusPending, StatusPaid:
		return nil
	}
	return &ConstraintError{Op: op, Err: fmt.Errorf("unknown status %q", status)}
}

// Create inserts a new invoice and returns its store-assigned identifier.
// The gross amount is computed here, never accepted from the caller. An
// empty status defaults to StatusPending. A clientID not referencing an
// existing client fails with a ConstraintError and inserts nothing.
func (i *Invoices) Create(ctx context.Context, clientID int64, date string, net, vatRate float64, status string) (int64, error) {
	if status == "" {
		status = StatusPending
	}
	if err := checkStatus("invoice create", status); err != nil {
		return 0, err
	}
	res, err := i.db.exec(ctx, "invoice create",
		`INSERT INTO invoices (client_id, date_facture, montant_ht, taux_tva, montant_ttc, statut)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		clientID, date, net, vatRate, grossAmount(net, vatRate), status,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID("invoice create", res)
}

// Update overwrites all fields of the invoice with the given identifier,
// recomputing the gross amount from the new net/rate pair so the stored
// value never drifts from the formula.
func (i *Invoices) Update(ctx context.Context, id, clientID int64, date string, net, vatRate float64, status string) error {
	if err := checkStatus("invoice update", status); err != nil {
		return err
	}
	_, err := i.db.exec(ctx, "invoice update",
		`UPDATE invoices
		    SET client_id = ?, date_facture = ?, montant_ht = ?, taux_tva = ?,
		        montant_ttc = ?, statut = ?
		  WHERE id = ?`,
		clientID, date, net, vatRate, grossAmount(net, vatRate), status, id,
	)
	return err
}

// UpdateStatus changes only the status of an invoice, for quick pay and
// unpay toggling.
func (i *Invoices) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := checkStatus("invoice status update", status); err != nil {
		return err
	}
	_, err := i.db.exec(ctx, "invoice status update",
		`UPDATE invoices SET statut = ? WHERE id = ?`, status, id)
	return err
}

// Delete removes the invoice with the given identifier.
func (i *Invoices) Delete(ctx context.Context, id int64) error {
	_, err := i.db.exec(ctx, "invoice delete",
		`DELETE FROM invoices WHERE id = ?`, id)
	return err
}

// List returns all invoices with their client names, most recent first.
// Same-day invoices are ordered most-recently-created first.
func (i *Invoices) List(ctx context.Context) ([]InvoiceWithClient, error) {
	var invoices []InvoiceWithClient
	err := i.db.sel(ctx, "invoices list",
		&invoices,
		`SELECT f.id,
		        f.client_id,
		        c.nom AS client,
		        f.date_facture,
		        f.montant_ht,
		        f.taux_tva,
		        f.montant_ttc,
		        f.statut
		   FROM invoices AS f
		   JOIN clients AS c ON c.id = f.client_id
		  ORDER BY f.date_facture DESC, f.id DESC`,
	)
	return invoices, err
}

// Get retrieves a single invoice by identifier, returning nil (and no
// error) if no such invoice exists. Unlike List, no client name is joined
// in: the single-record shape feeds an edit form that has its own client
// selector.
func (i *Invoices) Get(ctx context.Context, id int64) (*Invoice, error) {
	var invoice Invoice
	found, err := i.db.get(ctx, "invoice get",
		&invoice,
		`SELECT id, client_id, date_facture, montant_ht, taux_tva, montant_ttc, statut
		   FROM invoices
		  WHERE id = ?`,
		id,
	)
	if err != nil || !found {
		return nil, err
	}
	return &invoice, nil
}
