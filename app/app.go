// Package app is the presentation layer driving the minicompta core. It
// owns everything the repositories deliberately do not: input validation,
// confirmation of destructive operations, status-token mapping and the
// formatting of derived values for display.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rorycl/minicompta/config"
	"github.com/rorycl/minicompta/db"
)

// App is the central orchestrator for the application's business logic. It
// coordinates interactions between configuration, the database store and
// the terminal.
type App struct {
	logger *log.Logger
	out    io.Writer
}

// New creates and returns a new App instance writing to stdout.
func New() *App {
	return &App{
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "minicompta"}),
		out:    os.Stdout,
	}
}

// open loads the configuration and opens the database store. Failure here
// is fatal to the requested operation: the application cannot run without
// its store.
func (a *App) open(cfgPath string) (*db.DB, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("unparseable log level %q: %w", cfg.LogLevel, err)
	}
	a.logger.SetLevel(level)

	dbConn, err := db.NewConnection(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	dbConn.SetLogLevel(level)
	return dbConn, nil
}

// Wipe deletes the local database file, together with any WAL sidecar
// files, for confidentiality.
func (a *App) Wipe(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	a.logger.Info("deleting database file", "path", cfg.DatabasePath)
	if err := os.Remove(cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to delete database file: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(cfg.DatabasePath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete database sidecar file: %w", err)
		}
	}
	a.logger.Info("wipe complete")
	return nil
}

// ---------------------------------------------------------------------
// Clients

// ClientAdd creates a new client record.
func (a *App) ClientAdd(ctx context.Context, cfgPath, name, email, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("a client name is required")
	}
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	id, err := db.NewClients(dbConn).Create(ctx, name, email, phone, address)
	if err != nil {
		return fmt.Errorf("could not create client: %w", err)
	}
	a.logger.Info("client created", "id", id, "name", name)
	fmt.Fprintf(a.out, "created client %d\n", id)
	return nil
}

// ClientEdit overwrites the mutable fields of an existing client.
func (a *App) ClientEdit(ctx context.Context, cfgPath string, id int64, name, email, phone, address string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("a client name is required")
	}
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	clients := db.NewClients(dbConn)
	existing, err := clients.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("no client with id %d", id)
	}
	if err := clients.Update(ctx, id, name, email, phone, address); err != nil {
		return fmt.Errorf("could not update client %d: %w", id, err)
	}
	a.logger.Info("client updated", "id", id, "name", name)
	return nil
}

// ClientRemove deletes a client and, by cascade, all of its invoices. The
// deletion is irreversible, so it must be explicitly confirmed.
func (a *App) ClientRemove(ctx context.Context, cfgPath string, id int64, confirmed bool) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	clients := db.NewClients(dbConn)
	existing, err := clients.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("no client with id %d", id)
	}

	// Count dependent invoices so the confirmation message says what the
	// cascade will take with it.
	listed, err := db.NewInvoices(dbConn).List(ctx)
	if err != nil {
		return err
	}
	var dependents int
	for _, inv := range listed {
		if inv.ClientID == id {
			dependents++
		}
	}

	if !confirmed {
		return fmt.Errorf(
			"deleting client %d (%s) also deletes its %d invoice(s); rerun with --yes to confirm",
			id, existing.Name, dependents,
		)
	}
	if err := clients.Delete(ctx, id); err != nil {
		return fmt.Errorf("could not delete client %d: %w", id, err)
	}
	a.logger.Info("client deleted", "id", id, "name", existing.Name, "invoices", dependents)
	return nil
}

// ClientList prints all clients, alphabetically by name.
func (a *App) ClientList(ctx context.Context, cfgPath string) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	clients, err := db.NewClients(dbConn).List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tADDRESS")
	for _, c := range clients {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.Address)
	}
	return tw.Flush()
}

// ClientShow prints a single client record.
func (a *App) ClientShow(ctx context.Context, cfgPath string, id int64) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	client, err := db.NewClients(dbConn).Get(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return fmt.Errorf("no client with id %d", id)
	}
	fmt.Fprintf(a.out, "id:      %d\n", client.ID)
	fmt.Fprintf(a.out, "name:    %s\n", client.Name)
	fmt.Fprintf(a.out, "email:   %s\n", client.Email)
	fmt.Fprintf(a.out, "phone:   %s\n", client.Phone)
	fmt.Fprintf(a.out, "address: %s\n", client.Address)
	return nil
}

// ---------------------------------------------------------------------
// Invoices

// checkInvoiceInputs applies the presentation-layer checks for invoice
// creation and editing. The stored status value is returned.
func checkInvoiceInputs(clientID int64, date string, net, rate float64, statusToken string) (string, error) {
	if clientID < 1 {
		return "", errors.New("a client id is required")
	}
	if err := checkDate(date); err != nil {
		return "", err
	}
	if net < 0 {
		return "", fmt.Errorf("the net amount may not be negative, got %v", net)
	}
	if rate < 0 {
		return "", fmt.Errorf("the VAT rate may not be negative, got %v", rate)
	}
	return parseStatus(statusToken)
}

// InvoiceAdd creates a new invoice. The gross amount is computed and stored
// by the repository; an empty status defaults to pending.
func (a *App) InvoiceAdd(ctx context.Context, cfgPath string, clientID int64, date string, net, rate float64, statusToken string) error {
	status, err := checkInvoiceInputs(clientID, date, net, rate, statusToken)
	if err != nil {
		return err
	}
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	id, err := db.NewInvoices(dbConn).Create(ctx, clientID, date, net, rate, status)
	if db.IsConstraint(err) {
		return fmt.Errorf("invoice rejected, does client %d exist? (%w)", clientID, err)
	}
	if err != nil {
		return fmt.Errorf("could not create invoice: %w", err)
	}
	a.logger.Info("invoice created", "id", id, "client", clientID, "net", net, "rate", rate)
	fmt.Fprintf(a.out, "created invoice %d\n", id)
	return nil
}

// InvoiceEdit overwrites all fields of an existing invoice, recomputing the
// gross amount.
func (a *App) InvoiceEdit(ctx context.Context, cfgPath string, id, clientID int64, date string, net, rate float64, statusToken string) error {
	status, err := checkInvoiceInputs(clientID, date, net, rate, statusToken)
	if err != nil {
		return err
	}
	if status == "" {
		return errors.New("a status of 'pending' or 'paid' is required when editing")
	}
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	invoices := db.NewInvoices(dbConn)
	existing, err := invoices.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("no invoice with id %d", id)
	}
	err = invoices.Update(ctx, id, clientID, date, net, rate, status)
	if db.IsConstraint(err) {
		return fmt.Errorf("invoice rejected, does client %d exist? (%w)", clientID, err)
	}
	if err != nil {
		return fmt.Errorf("could not update invoice %d: %w", id, err)
	}
	a.logger.Info("invoice updated", "id", id)
	return nil
}

// InvoiceSetStatus toggles an invoice between pending and paid.
func (a *App) InvoiceSetStatus(ctx context.Context, cfgPath string, id int64, statusToken string) error {
	status, err := parseStatus(statusToken)
	if err != nil {
		return err
	}
	if status == "" {
		return errors.New("a status of 'pending' or 'paid' is required")
	}
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	invoices := db.NewInvoices(dbConn)
	existing, err := invoices.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("no invoice with id %d", id)
	}
	if err := invoices.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("could not update status of invoice %d: %w", id, err)
	}
	a.logger.Info("invoice status updated", "id", id, "status", status)
	return nil
}

// InvoiceRemove deletes a single invoice.
func (a *App) InvoiceRemove(ctx context.Context, cfgPath string, id int64) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := db.NewInvoices(dbConn).Delete(ctx, id); err != nil {
		return fmt.Errorf("could not delete invoice %d: %w", id, err)
	}
	a.logger.Info("invoice deleted", "id", id)
	return nil
}

// InvoiceList prints all invoices with their client names, most recent
// first.
func (a *App) InvoiceList(ctx context.Context, cfgPath string) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	invoices, err := db.NewInvoices(dbConn).List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCLIENT\tNET\tVAT\tGROSS\tSTATUS")
	for _, inv := range invoices {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.ID, inv.Date, inv.ClientName,
			formatEUR(inv.Net), formatRate(inv.VATRate), formatEUR(inv.Gross),
			inv.Status,
		)
	}
	return tw.Flush()
}

// InvoiceShow prints a single invoice record.
func (a *App) InvoiceShow(ctx context.Context, cfgPath string, id int64) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	inv, err := db.NewInvoices(dbConn).Get(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("no invoice with id %d", id)
	}
	fmt.Fprintf(a.out, "id:     %d\n", inv.ID)
	fmt.Fprintf(a.out, "client: %d\n", inv.ClientID)
	fmt.Fprintf(a.out, "date:   %s\n", inv.Date)
	fmt.Fprintf(a.out, "net:    %s\n", formatEUR(inv.Net))
	fmt.Fprintf(a.out, "vat:    %s\n", formatRate(inv.VATRate))
	fmt.Fprintf(a.out, "gross:  %s\n", formatEUR(inv.Gross))
	fmt.Fprintf(a.out, "status: %s\n", inv.Status)
	return nil
}

// ---------------------------------------------------------------------
// Journal

// JournalAdd records a new accounting journal entry.
func (a *App) JournalAdd(ctx context.Context, cfgPath, date, label, debit, credit string, amount float64) error {
	if err := checkDate(date); err != nil {
		return err
	}
	if strings.TrimSpace(label) == "" {
		return errors.New("a label is required")
	}
	if strings.TrimSpace(debit) == "" || strings.TrimSpace(credit) == "" {
		return errors.New("both debit and credit accounts are required")
	}
	if amount <= 0 {
		return fmt.Errorf("the amount must be positive, got %v", amount)
	}
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	id, err := db.NewJournal(dbConn).Create(ctx, date, label, debit, credit, amount)
	if err != nil {
		return fmt.Errorf("could not create journal entry: %w", err)
	}
	a.logger.Info("journal entry created", "id", id, "label", label)
	fmt.Fprintf(a.out, "created journal entry %d\n", id)
	return nil
}

// JournalList prints all journal entries, most recent first.
func (a *App) JournalList(ctx context.Context, cfgPath string) error {
	dbConn, err := a.open(cfgPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	entries, err := db.NewJournal(dbConn).List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tLABEL\tDEBIT\tCREDIT\tAMOUNT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, e.Label, e.DebitAccount, e.CreditAccount, formatEUR(e.Amount))
	}
	return tw.Flush()
}

// ---------------------------------------------------------------------
// Helpers

// parseStatus maps the CLI status tokens onto stored status values. The
// empty token is passed through for callers with a default.
func parseStatus(token string) (string, error) {
	switch token {
	case "":
		return "", nil
	case "pending":
		return db.StatusPending, nil
	case "paid":
		return db.StatusPaid, nil
	}
	return "", fmt.Errorf("status must be 'pending' or 'paid', got %q", token)
}

// checkDate requires ISO YYYY-MM-DD dates, the storage format.
func checkDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("dates must be in YYYY-MM-DD format, got %q", date)
	}
	return nil
}

// formatEUR formats a monetary value for display.
func formatEUR(v float64) string {
	return fmt.Sprintf("%.2f €", v)
}

// formatRate formats a VAT rate in percentage units for display.
func formatRate(v float64) string {
	return fmt.Sprintf("%.1f %%", v)
}
