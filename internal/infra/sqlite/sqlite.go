// Package sqlite provides the in-memory analysis store used by evaluation
// runs. Nothing is written to disk; the database lives as long as the DB.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a single-connection in-memory SQLite database.
type DB struct {
	db *sql.DB
}

// OpenMemory opens a fresh in-memory database and applies the schema.
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to ":memory:" is a separate database. Pin to one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the database. Its contents are gone afterwards.
func (db *DB) Close() error {
	return db.db.Close()
}

func (db *DB) migrate() error {
	for _, stmt := range migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// migrations returns the schema statements, one per Exec.
func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS eval_results (
			case_index  INTEGER PRIMARY KEY,
			days        INTEGER NOT NULL,
			miles       REAL    NOT NULL,
			receipts    REAL    NOT NULL,
			expected    REAL    NOT NULL,
			actual      REAL    NOT NULL,
			abs_error   REAL    NOT NULL,
			path        TEXT    NOT NULL,
			lucky_cents INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_error ON eval_results(abs_error DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_path ON eval_results(path)`,
	}
}
