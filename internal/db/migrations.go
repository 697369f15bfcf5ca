package db

import (
	"database/sql"
	"fmt"
)

// Base schema. Row ids are snowflakes, public_id is the shareable feed id and data holds
// the whole feed record as a JSON document, rewritten on every mutation.
const baseSchema = `
CREATE TABLE IF NOT EXISTS feeds (
  id INTEGER PRIMARY KEY,
  public_id TEXT NOT NULL UNIQUE,
  data TEXT NOT NULL,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	// Migration 1: denormalized post count so listings need not decode every record
	exists, err := hasColumn(db, "feeds", "post_count")
	if err != nil {
		return fmt.Errorf("check post_count column: %w", err)
	}
	if !exists {
		if _, err := db.Exec(`ALTER TABLE feeds ADD COLUMN post_count INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add post_count column: %w", err)
		}
	}

	// Migration 2: listing order index
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_feeds_updated_at ON feeds(updated_at)`); err != nil {
		return fmt.Errorf("create idx_feeds_updated_at: %w", err)
	}

	return nil
}

func hasColumn(db *sql.DB, table string, column string) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
