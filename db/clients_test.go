package db

// tests for client-related database queries

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestClientCreateGet checks that a created client reads back with exactly
// the fields given.
func TestClientCreateGet(t *testing.T) {
	testDB := setupTestDB(t)
	clients := NewClients(testDB)
	ctx := context.Background()

	tests := []struct {
		name    string
		client  Client
	}{
		{
			name: "all fields",
			client: Client{
				Name:    "Durand SARL",
				Email:   "contact@durand.example",
				Phone:   "+33 1 23 45 67 89",
				Address: "12 rue de la Paix, Paris",
			},
		},
		{
			name:   "only required name",
			client: Client{Name: "Petit"},
		},
		{
			name: "unicode and embedded quotes",
			client: Client{
				Name:    `L'Épicerie "Chez Aimée"`,
				Address: "3 rue du Faubourg Saint-Honoré",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := clients.Create(ctx, tt.client.Name, tt.client.Email, tt.client.Phone, tt.client.Address)
			if err != nil {
				t.Fatalf("create error: %v", err)
			}
			got, err := clients.Get(ctx, id)
			if err != nil {
				t.Fatalf("get error: %v", err)
			}
			if got == nil {
				t.Fatalf("client %d not found after create", id)
			}
			want := tt.client
			want.ID = id
			if diff := cmp.Diff(want, *got); diff != "" {
				t.Errorf("client mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestClientGetNotFound checks that a missing client is reported as an
// absent value, not an error.
func TestClientGetNotFound(t *testing.T) {
	testDB := setupTestDB(t)
	clients := NewClients(testDB)

	got, err := clients.Get(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected absent client, got %+v", got)
	}
}

// TestClientListOrdering checks alphabetical listing for arbitrary
// insertion orders, including names with shared prefixes.
func TestClientListOrdering(t *testing.T) {
	testDB := setupTestDB(t)
	clients := NewClients(testDB)
	ctx := context.Background()

	for _, name := range []string{"Martin", "Benoit", "Ben", "Alice", "Benjamin"} {
		if _, err := clients.Create(ctx, name, "", "", ""); err != nil {
			t.Fatalf("create %q error: %v", name, err)
		}
	}

	listed, err := clients.List(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	var got []string
	for _, c := range listed {
		got = append(got, c.Name)
	}
	want := []string{"Alice", "Ben", "Benjamin", "Benoit", "Martin"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing order mismatch (-want +got):\n%s", diff)
	}
}

// TestClientUpdate checks the full-overwrite update, including the
// no-row-affected case for an id that does not exist.
func TestClientUpdate(t *testing.T) {
	testDB := setupTestDB(t)
	clients := NewClients(testDB)
	ctx := context.Background()

	id, err := clients.Create(ctx, "Dupont", "old@example.com", "01 02", "here")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := clients.Update(ctx, id, "Dupont & Fils", "new@example.com", "", ""); err != nil {
		t.Fatalf("update error: %v", err)
	}
	got, err := clients.Get(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	want := Client{ID: id, Name: "Dupont & Fils", Email: "new@example.com"}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("updated client mismatch (-want +got):\n%s", diff)
	}

	// A zero-rows-affected update is not an error.
	if err := clients.Update(ctx, 999, "Nobody", "", "", ""); err != nil {
		t.Errorf("unexpected error updating nonexistent client: %v", err)
	}
}

// TestClientDeleteCascades checks that deleting a client removes it along
// with every invoice referencing it, leaving other clients' invoices alone.
func TestClientDeleteCascades(t *testing.T) {
	testDB := setupTestDB(t)
	clients := NewClients(testDB)
	invoices := NewInvoices(testDB)
	ctx := context.Background()

	doomed, err := clients.Create(ctx, "Doomed", "", "", "")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	survivor, err := clients.Create(ctx, "Survivor", "", "", "")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	var doomedInvoices []int64
	for _, date := range []string{"2024-01-10", "2024-02-11", "2024-03-12"} {
		id, err := invoices.Create(ctx, doomed, date, 100, 20, "")
		if err != nil {
			t.Fatalf("invoice create error: %v", err)
		}
		doomedInvoices = append(doomedInvoices, id)
	}
	kept, err := invoices.Create(ctx, survivor, "2024-01-15", 50, 5.5, "")
	if err != nil {
		t.Fatalf("invoice create error: %v", err)
	}

	if err := clients.Delete(ctx, doomed); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	gone, err := clients.Get(ctx, doomed)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if gone != nil {
		t.Errorf("deleted client still present: %+v", gone)
	}

	remaining, err := invoices.List(ctx)
	if err != nil {
		t.Fatalf("invoice list error: %v", err)
	}
	for _, inv := range remaining {
		for _, id := range doomedInvoices {
			if inv.ID == id {
				t.Errorf("invoice %d survived its client's deletion", id)
			}
		}
	}
	if len(remaining) != 1 || remaining[0].ID != kept {
		t.Errorf("expected only invoice %d to remain, got %+v", kept, remaining)
	}
}
