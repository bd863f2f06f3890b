// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database type constants, as carried by cliparse.Config.
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects using the driver matching the configured database type.
func Open(dbType, url string) (*sql.DB, error) {
	driver := "sqlite"
	if dbType == TypePostgres {
		driver = "postgres"
	}
	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}
	return conn, nil
}

// CreateSchema creates the key/blob state table.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Full roster state, one JSON blob per conversation
CREATE TABLE IF NOT EXISTS rollcall_state (
    key TEXT PRIMARY KEY,
    blob TEXT NOT NULL
);
`

// Statements holds the state-table SQL for one driver; only the placeholder
// style differs.
type Statements struct {
	Upsert    string
	Delete    string
	SelectAll string
}

// StatementsFor returns the statement set for a database type.
func StatementsFor(dbType string) Statements {
	if dbType == TypePostgres {
		return Statements{
			Upsert:    `INSERT INTO rollcall_state (key, blob) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob`,
			Delete:    `DELETE FROM rollcall_state WHERE key = $1`,
			SelectAll: `SELECT key, blob FROM rollcall_state`,
		}
	}
	return Statements{
		Upsert:    `INSERT INTO rollcall_state (key, blob) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob`,
		Delete:    `DELETE FROM rollcall_state WHERE key = ?`,
		SelectAll: `SELECT key, blob FROM rollcall_state`,
	}
}
