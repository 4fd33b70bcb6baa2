package db

// clients.go deals with client-related database calls.

import (
	"context"
)

// Client is the concrete type of each row of the clients table. Only the
// identifier is store-assigned; the remaining fields are written as given.
type Client struct {
	ID      int64  `db:"id"`
	Name    string `db:"nom"`
	Email   string `db:"email"`
	Phone   string `db:"telephone"`
	Address string `db:"adresse"`
}

// Clients is the repository for client records.
type Clients struct {
	db *DB
}

// NewClients returns a Clients repository using the provided store.
func NewClients(db *DB) *Clients {
	return &Clients{db: db}
}

// Create inserts a new client and returns its store-assigned identifier.
// The repository does not check that name is non-empty; that check belongs
// to the presentation layer, with the NOT NULL constraint as the last line
// of defense.
func (c *Clients) Create(ctx context.Context, name, email, phone, address string) (int64, error) {
	res, err := c.db.exec(ctx, "client create",
		`INSERT INTO clients (nom, email, telephone, adresse)
		 VALUES (?, ?, ?, ?)`,
		name, email, phone, address,
	)
	if err != nil {
		return 0, err
	}
	return lastInsertID("client create", res)
}

// Update overwrites all four mutable fields of the client with the given
// identifier. Updating a nonexistent client affects zero rows and is not an
// error; callers needing that distinction should Get first.
func (c *Clients) Update(ctx context.Context, id int64, name, email, phone, address string) error {
	_, err := c.db.exec(ctx, "client update",
		`UPDATE clients
		    SET nom = ?, email = ?, telephone = ?, adresse = ?
		  WHERE id = ?`,
		name, email, phone, address, id,
	)
	return err
}

// Delete removes the client with the given identifier. The foreign key
// cascade also removes every invoice referencing the client, so the
// presentation layer must confirm with the user before calling.
func (c *Clients) Delete(ctx context.Context, id int64) error {
	_, err := c.db.exec(ctx, "client delete",
		`DELETE FROM clients WHERE id = ?`, id)
	return err
}

// List returns all clients ordered alphabetically by name.
func (c *Clients) List(ctx context.Context) ([]Client, error) {
	var clients []Client
	err := c.db.sel(ctx, "clients list",
		&clients,
		`SELECT id, nom, email, telephone, adresse
		   FROM clients
		  ORDER BY nom`,
	)
	return clients, err
}

// Get retrieves a single client by identifier, returning nil (and no error)
// if no such client exists.
func (c *Clients) Get(ctx context.Context, id int64) (*Client, error) {
	var client Client
	found, err := c.db.get(ctx, "client get",
		&client,
		`SELECT id, nom, email, telephone, adresse
		   FROM clients
		  WHERE id = ?`,
		id,
	)
	if err != nil || !found {
		return nil, err
	}
	return &client, nil
}
