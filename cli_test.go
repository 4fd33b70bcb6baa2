package main

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stubApp records the last Applicator call made by the CLI so argument
// parsing and dispatch can be checked without a database.
type stubApp struct {
	method string
	args   []any
}

func (s *stubApp) record(method string, args ...any) {
	s.method = method
	s.args = args
}

func (s *stubApp) ClientAdd(ctx context.Context, cfgPath, name, email, phone, address string) error {
	s.record("ClientAdd", cfgPath, name, email, phone, address)
	return nil
}

func (s *stubApp) ClientEdit(ctx context.Context, cfgPath string, id int64, name, email, phone, address string) error {
	s.record("ClientEdit", cfgPath, id, name, email, phone, address)
	return nil
}

func (s *stubApp) ClientRemove(ctx context.Context, cfgPath string, id int64, confirmed bool) error {
	s.record("ClientRemove", cfgPath, id, confirmed)
	return nil
}

func (s *stubApp) ClientList(ctx context.Context, cfgPath string) error {
	s.record("ClientList", cfgPath)
	return nil
}

func (s *stubApp) ClientShow(ctx context.Context, cfgPath string, id int64) error {
	s.record("ClientShow", cfgPath, id)
	return nil
}

func (s *stubApp) InvoiceAdd(ctx context.Context, cfgPath string, clientID int64, date string, net, rate float64, status string) error {
	s.record("InvoiceAdd", cfgPath, clientID, date, net, rate, status)
	return nil
}

func (s *stubApp) InvoiceEdit(ctx context.Context, cfgPath string, id, clientID int64, date string, net, rate float64, status string) error {
	s.record("InvoiceEdit", cfgPath, id, clientID, date, net, rate, status)
	return nil
}

func (s *stubApp) InvoiceSetStatus(ctx context.Context, cfgPath string, id int64, status string) error {
	s.record("InvoiceSetStatus", cfgPath, id, status)
	return nil
}

func (s *stubApp) InvoiceRemove(ctx context.Context, cfgPath string, id int64) error {
	s.record("InvoiceRemove", cfgPath, id)
	return nil
}

func (s *stubApp) InvoiceList(ctx context.Context, cfgPath string) error {
	s.record("InvoiceList", cfgPath)
	return nil
}

func (s *stubApp) InvoiceShow(ctx context.Context, cfgPath string, id int64) error {
	s.record("InvoiceShow", cfgPath, id)
	return nil
}

func (s *stubApp) JournalAdd(ctx context.Context, cfgPath, date, label, debit, credit string, amount float64) error {
	s.record("JournalAdd", cfgPath, date, label, debit, credit, amount)
	return nil
}

func (s *stubApp) JournalList(ctx context.Context, cfgPath string) error {
	s.record("JournalList", cfgPath)
	return nil
}

func (s *stubApp) Wipe(ctx context.Context, cfgPath string) error {
	s.record("Wipe", cfgPath)
	return nil
}

// TestCLIDispatch checks that CLI arguments are parsed and dispatched to
// the expected Applicator calls with typed values.
func TestCLIDispatch(t *testing.T) {

	tests := []struct {
		name   string
		argv   []string
		method string
		args   []any
		errs   bool
	}{
		{
			name: "clients add",
			argv: []string{
				"minicompta", "clients", "add",
				"--name", "Durand SARL", "--email", "d@example.com",
			},
			method: "ClientAdd",
			args:   []any{"config.yaml", "Durand SARL", "d@example.com", "", ""},
		},
		{
			name: "clients rm with confirmation",
			argv: []string{
				"minicompta", "clients", "rm", "--id", "4", "--yes",
			},
			method: "ClientRemove",
			args:   []any{"config.yaml", int64(4), true},
		},
		{
			name: "invoices add",
			argv: []string{
				"minicompta", "invoices", "add",
				"--config", "other.yaml", "--client", "3",
				"--date", "2024-01-10", "--net", "100.0", "--rate", "20",
			},
			method: "InvoiceAdd",
			args:   []any{"other.yaml", int64(3), "2024-01-10", 100.0, 20.0, ""},
		},
		{
			name: "invoices pay",
			argv: []string{
				"minicompta", "invoices", "pay", "--id", "7",
			},
			method: "InvoiceSetStatus",
			args:   []any{"config.yaml", int64(7), "paid"},
		},
		{
			name: "invoices unpay",
			argv: []string{
				"minicompta", "invoices", "unpay", "--id", "7",
			},
			method: "InvoiceSetStatus",
			args:   []any{"config.yaml", int64(7), "pending"},
		},
		{
			name: "journal add",
			argv: []string{
				"minicompta", "journal", "add",
				"--date", "2024-01-05", "--label", "Vente",
				"--debit", "512000", "--credit", "706000", "--amount", "1200",
			},
			method: "JournalAdd",
			args:   []any{"config.yaml", "2024-01-05", "Vente", "512000", "706000", 1200.0},
		},
		{
			name:   "wipe",
			argv:   []string{"minicompta", "wipe"},
			method: "Wipe",
			args:   []any{"config.yaml"},
		},
		{
			name: "bad id rejected",
			argv: []string{"minicompta", "invoices", "show", "--id", "seven"},
			errs: true,
		},
		{
			name: "bad amount rejected",
			argv: []string{
				"minicompta", "journal", "add",
				"--date", "2024-01-05", "--label", "Vente",
				"--debit", "512000", "--credit", "706000", "--amount", "lots",
			},
			errs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubApp{}
			cmd := BuildCLI(stub)
			err := cmd.Run(context.Background(), tt.argv)
			if tt.errs {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stub.method != tt.method {
				t.Errorf("method: got %q want %q", stub.method, tt.method)
			}
			if diff := cmp.Diff(tt.args, stub.args); diff != "" {
				t.Errorf("arguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
