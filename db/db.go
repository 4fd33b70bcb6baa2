// Package db provides the storage component of minicompta.
//
// The backing store is a single SQLite database file holding three tables:
// clients, invoices and journal_entries. One DB connection is opened at
// process start and shared by the repositories (Clients, Invoices, Journal),
// each of which owns exactly one table. The invoices table carries a foreign
// key to clients with ON DELETE CASCADE; that relationship is enforced by
// SQLite, not by repository code, so foreign key support must be switched on
// when the connection is opened.
//
// Every statement is parameterized and self-contained: each mutation commits
// immediately, so the atomicity unit is exactly one statement.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx" // helper library
	_ "modernc.org/sqlite"    // pure go sqlite driver
)

// DB provides a wrapper around the sql.DB connection for application-specific
// db operations.
type DB struct {
	*sqlx.DB
	logger *log.Logger
}

// NewConnection creates a new connection to an SQLite database at the given
// path, creating the file on first run. It enables foreign key support and
// WAL mode, and guarantees the schema exists before returning.
func NewConnection(dbPath string) (*DB, error) {

	// dataSource is the default setting for file-based databases.
	dataSource := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", dbPath)

	// for in-memory test databases, check the necessary cached setting is
	// used. Foreign key enforcement is still needed for cascades.
	if strings.Contains(dbPath, ":memory:") {
		if !strings.Contains(dbPath, "cache=shared") {
			return nil, fmt.Errorf("in-memory connection %q should contain '?cache=shared'", dbPath)
		}
		dataSource = dbPath + "&_pragma=foreign_keys(1)"
	}

	dbDB, err := sql.Open("sqlite", dataSource)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	if err := dbDB.Ping(); err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	// The application is single-user and synchronous. A pool capped at one
	// connection gives the single shared connection of the design and
	// serializes access should a concurrent front-end ever be layered on.
	dbDB.SetMaxOpenConns(1)

	db := &DB{
		DB:     sqlx.NewDb(dbDB, "sqlite"),
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "db"}),
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates the necessary tables if they don't already exist. It is
// idempotent and safe to call multiple times.
func (db *DB) InitSchema() error {
	_, err := db.ExecContext(context.Background(), createSchema)
	if err != nil {
		return &StorageError{Op: "schema init", Err: err}
	}
	return nil
}

// SetLogLevel sets the logging level of the db logger.
func (db *DB) SetLogLevel(level log.Level) {
	db.logger.SetLevel(level)
}

// exec runs a single parameterized mutating statement. The statement commits
// immediately; failures are classified into the package error taxonomy.
func (db *DB) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		db.logger.Warn("exec failed", "op", op, "error", err)
		return nil, classify(op, err)
	}
	return res, nil
}

// get runs a single-row query, scanning the result into dest. A missing row
// is not an error: the second return value reports whether a row was found.
func (db *DB) get(ctx context.Context, op string, dest any, query string, args ...any) (bool, error) {
	err := db.GetContext(ctx, dest, query, args...)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		db.logger.Warn("get failed", "op", op, "error", err)
		return false, classify(op, err)
	}
	return true, nil
}

// sel runs a multi-row query, scanning the results into the slice pointed to
// by dest. No rows leaves dest empty without error.
func (db *DB) sel(ctx context.Context, op string, dest any, query string, args ...any) error {
	if err := db.SelectContext(ctx, dest, query, args...); err != nil {
		db.logger.Warn("select failed", "op", op, "error", err)
		return classify(op, err)
	}
	return nil
}

// lastInsertID extracts the store-assigned identifier from an insert result.
func lastInsertID(op string, res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StorageError{Op: op, Err: err}
	}
	return id, nil
}
