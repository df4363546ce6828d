package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Each ledger is one row holding its whole JSON snapshot; total_spend and
// transactions are denormalized for listing without decoding.
const schema = `
CREATE TABLE IF NOT EXISTS ledgers (
    name TEXT PRIMARY KEY,
    snapshot TEXT NOT NULL,
    total_spend REAL NOT NULL DEFAULT 0,
    transactions INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledgers_updated_at ON ledgers(updated_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
