// Package sqlite stores a history of extraction runs in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and applies pending migrations.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	pragmas := []string{"busy_timeout = 5000"}
	// WAL mode is not supported for in-memory databases.
	if db.path != ":memory:" {
		pragmas = append(pragmas, "journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec("PRAGMA " + p); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set %s: %w", p, err)
		}
	}

	db.db = conn

	if err := db.migrate(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// migrations run in order. PRAGMA user_version holds the number applied.
var migrations = []string{
	`CREATE TABLE runs (
		id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		container TEXT NOT NULL DEFAULT '',
		count INTEGER NOT NULL DEFAULT 0,
		content_hash TEXT NOT NULL DEFAULT '',
		records TEXT NOT NULL DEFAULT '[]',
		scraped_at TEXT NOT NULL
	);
	CREATE INDEX idx_runs_source_url ON runs(source_url);
	CREATE INDEX idx_runs_scraped_at ON runs(scraped_at);`,
}

// SchemaVersion returns the number of migrations applied.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.db.QueryRow("PRAGMA user_version").Scan(&version)
	return version, err
}

func (db *DB) migrate() error {
	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
