package db

// createSchema defines the SQL statements to create the application's
// database schema for SQLite. It is designed to be idempotent using
// `CREATE TABLE IF NOT EXISTS`.
//
// The French column names are the on-disk contract of this application's
// database files and are kept stable so existing databases keep working.
const createSchema = `
CREATE TABLE IF NOT EXISTS clients (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    nom         TEXT NOT NULL,
    email       TEXT,
    telephone   TEXT,
    adresse     TEXT
);

CREATE TABLE IF NOT EXISTS invoices (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    client_id       INTEGER NOT NULL,
    date_facture    TEXT NOT NULL,    -- ISO YYYY-MM-DD
    montant_ht      REAL NOT NULL,    -- net amount
    taux_tva        REAL NOT NULL,    -- VAT rate in percentage units
    montant_ttc     REAL NOT NULL,    -- gross amount, computed at write time
    statut          TEXT NOT NULL DEFAULT 'En attente',
    FOREIGN KEY(client_id) REFERENCES clients(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS journal_entries (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    date_ecriture   TEXT NOT NULL,    -- ISO YYYY-MM-DD
    libelle         TEXT NOT NULL,
    compte_debit    TEXT NOT NULL,
    compte_credit   TEXT NOT NULL,
    montant         REAL NOT NULL
);
`
