package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"
)

// Applicator defines the interface for the core application logic. This
// allows the CLI to be tested independently of the main app implementation.
type Applicator interface {
	ClientAdd(ctx context.Context, cfgPath, name, email, phone, address string) error
	ClientEdit(ctx context.Context, cfgPath string, id int64, name, email, phone, address string) error
	ClientRemove(ctx context.Context, cfgPath string, id int64, confirmed bool) error
	ClientList(ctx context.Context, cfgPath string) error
	ClientShow(ctx context.Context, cfgPath string, id int64) error

	InvoiceAdd(ctx context.Context, cfgPath string, clientID int64, date string, net, rate float64, status string) error
	InvoiceEdit(ctx context.Context, cfgPath string, id, clientID int64, date string, net, rate float64, status string) error
	InvoiceSetStatus(ctx context.Context, cfgPath string, id int64, status string) error
	InvoiceRemove(ctx context.Context, cfgPath string, id int64) error
	InvoiceList(ctx context.Context, cfgPath string) error
	InvoiceShow(ctx context.Context, cfgPath string, id int64) error

	JournalAdd(ctx context.Context, cfgPath, date, label, debit, credit string, amount float64) error
	JournalList(ctx context.Context, cfgPath string) error

	Wipe(ctx context.Context, cfgPath string) error
}

// parseID parses an identifier flag value.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("a positive integer id is required, got %q", s)
	}
	return id, nil
}

// parseAmount parses a monetary or rate flag value.
func parseAmount(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, s)
	}
	return v, nil
}

// BuildCLI creates the full CLI command structure for the application. It
// injects the core application logic (the Applicator) into the command
// actions.
func BuildCLI(app Applicator) *cli.Command {
	// Define flags that are common across multiple commands.
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Value:   "config.yaml",
		Usage:   "path to the configuration file",
	}

	idFlag := &cli.StringFlag{
		Name:     "id",
		Usage:    "the record identifier",
		Required: true,
	}

	// Client field flags.
	nameFlag := &cli.StringFlag{Name: "name", Usage: "the client name", Required: true}
	emailFlag := &cli.StringFlag{Name: "email", Usage: "the client email address"}
	phoneFlag := &cli.StringFlag{Name: "phone", Usage: "the client phone number"}
	addressFlag := &cli.StringFlag{Name: "address", Usage: "the client postal address"}

	// Invoice field flags.
	clientFlag := &cli.StringFlag{Name: "client", Usage: "the id of the client being invoiced", Required: true}
	dateFlag := &cli.StringFlag{Name: "date", Usage: "the date in YYYY-MM-DD format", Required: true}
	netFlag := &cli.StringFlag{Name: "net", Usage: "the net (tax-exclusive) amount", Required: true}
	rateFlag := &cli.StringFlag{Name: "rate", Usage: "the VAT rate in percent, e.g. 20.0", Required: true}
	statusFlag := &cli.StringFlag{Name: "status", Usage: "the invoice status: 'pending' or 'paid'"}

	clientsCmd := &cli.Command{
		Name:  "clients",
		Usage: "Manage client records",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a new client",
				Flags: []cli.Flag{configFlag, nameFlag, emailFlag, phoneFlag, addressFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					return app.ClientAdd(ctx, c.String("config"),
						c.String("name"), c.String("email"), c.String("phone"), c.String("address"))
				},
			},
			{
				Name:  "edit",
				Usage: "Overwrite the details of an existing client",
				Flags: []cli.Flag{configFlag, idFlag, nameFlag, emailFlag, phoneFlag, addressFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.ClientEdit(ctx, c.String("config"), id,
						c.String("name"), c.String("email"), c.String("phone"), c.String("address"))
				},
			},
			{
				Name:  "rm",
				Usage: "Delete a client and, irreversibly, all of its invoices",
				Flags: []cli.Flag{
					configFlag, idFlag,
					&cli.BoolFlag{Name: "yes", Usage: "confirm the cascading deletion"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.ClientRemove(ctx, c.String("config"), id, c.Bool("yes"))
				},
			},
			{
				Name:  "ls",
				Usage: "List all clients alphabetically",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					return app.ClientList(ctx, c.String("config"))
				},
			},
			{
				Name:  "show",
				Usage: "Show a single client",
				Flags: []cli.Flag{configFlag, idFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.ClientShow(ctx, c.String("config"), id)
				},
			},
		},
	}

	// invoiceAmounts parses the shared numeric invoice flags.
	invoiceAmounts := func(c *cli.Command) (clientID int64, net, rate float64, err error) {
		clientID, err = parseID(c.String("client"))
		if err != nil {
			return 0, 0, 0, fmt.Errorf("client: %w", err)
		}
		net, err = parseAmount("net", c.String("net"))
		if err != nil {
			return 0, 0, 0, err
		}
		rate, err = parseAmount("rate", c.String("rate"))
		if err != nil {
			return 0, 0, 0, err
		}
		return clientID, net, rate, nil
	}

	invoicesCmd := &cli.Command{
		Name:  "invoices",
		Usage: "Manage invoice records",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Create a new invoice; the gross amount is computed from net and rate",
				Flags: []cli.Flag{configFlag, clientFlag, dateFlag, netFlag, rateFlag, statusFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					clientID, net, rate, err := invoiceAmounts(c)
					if err != nil {
						return err
					}
					return app.InvoiceAdd(ctx, c.String("config"),
						clientID, c.String("date"), net, rate, c.String("status"))
				},
			},
			{
				Name:  "edit",
				Usage: "Overwrite all fields of an existing invoice",
				Flags: []cli.Flag{configFlag, idFlag, clientFlag, dateFlag, netFlag, rateFlag, statusFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					clientID, net, rate, err := invoiceAmounts(c)
					if err != nil {
						return err
					}
					return app.InvoiceEdit(ctx, c.String("config"), id,
						clientID, c.String("date"), net, rate, c.String("status"))
				},
			},
			{
				Name:  "pay",
				Usage: "Mark an invoice as paid",
				Flags: []cli.Flag{configFlag, idFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.InvoiceSetStatus(ctx, c.String("config"), id, "paid")
				},
			},
			{
				Name:  "unpay",
				Usage: "Mark an invoice as pending again",
				Flags: []cli.Flag{configFlag, idFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.InvoiceSetStatus(ctx, c.String("config"), id, "pending")
				},
			},
			{
				Name:  "rm",
				Usage: "Delete an invoice",
				Flags: []cli.Flag{configFlag, idFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.InvoiceRemove(ctx, c.String("config"), id)
				},
			},
			{
				Name:  "ls",
				Usage: "List all invoices with client names, most recent first",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					return app.InvoiceList(ctx, c.String("config"))
				},
			},
			{
				Name:  "show",
				Usage: "Show a single invoice",
				Flags: []cli.Flag{configFlag, idFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					id, err := parseID(c.String("id"))
					if err != nil {
						return err
					}
					return app.InvoiceShow(ctx, c.String("config"), id)
				},
			},
		},
	}

	journalCmd := &cli.Command{
		Name:  "journal",
		Usage: "Manage accounting journal entries (append-only)",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Record a new journal entry",
				Flags: []cli.Flag{
					configFlag, dateFlag,
					&cli.StringFlag{Name: "label", Usage: "the entry label", Required: true},
					&cli.StringFlag{Name: "debit", Usage: "the debit account code", Required: true},
					&cli.StringFlag{Name: "credit", Usage: "the credit account code", Required: true},
					&cli.StringFlag{Name: "amount", Usage: "the entry amount", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					amount, err := parseAmount("amount", c.String("amount"))
					if err != nil {
						return err
					}
					return app.JournalAdd(ctx, c.String("config"),
						c.String("date"), c.String("label"), c.String("debit"), c.String("credit"), amount)
				},
			},
			{
				Name:  "ls",
				Usage: "List all journal entries, most recent first",
				Flags: []cli.Flag{configFlag},
				Action: func(ctx context.Context, c *cli.Command) error {
					return app.JournalList(ctx, c.String("config"))
				},
			},
		},
	}

	wipeCmd := &cli.Command{
		Name:  "wipe",
		Usage: "Delete the local database file for confidentiality",
		Flags: []cli.Flag{configFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			return app.Wipe(ctx, c.String("config"))
		},
	}

	// Assemble the root command.
	rootCmd := &cli.Command{
		Name:     "minicompta",
		Usage:    "A single-user client, invoice and journal record manager",
		Commands: []*cli.Command{clientsCmd, invoicesCmd, journalCmd, wipeCmd},
	}

	return rootCmd
}
