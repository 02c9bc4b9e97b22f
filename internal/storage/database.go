package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrUnavailable is returned when the database cannot be opened, fails its
// integrity check, or cannot be migrated.
var ErrUnavailable = errors.New("insight store unavailable")

// New opens the SQLite database at path in WAL mode and verifies it.
// A file that is not a database, or one that fails PRAGMA quick_check,
// yields ErrUnavailable. No repair is attempted.
func New(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_synchronous=FULL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: connect %s: %w", ErrUnavailable, path, err)
	}

	if err := quickCheck(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func quickCheck(db *sql.DB) error {
	rows, err := db.Query("PRAGMA quick_check")
	if err != nil {
		return fmt.Errorf("%w: integrity check: %w", ErrUnavailable, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("%w: integrity check: %w", ErrUnavailable, err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: integrity check: %w", ErrUnavailable, err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: integrity check failed: %s", ErrUnavailable, strings.Join(problems, "; "))
	}
	return nil
}

// Migrate creates the insights table and its indexes.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS insights (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			concept TEXT NOT NULL,
			concept_norm TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'general',
			importance REAL NOT NULL CHECK (importance >= 0 AND importance <= 1),
			created_at INTEGER NOT NULL,
			last_recalled_at INTEGER,
			recall_count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_insights_concept_norm ON insights(concept_norm);`,
		`CREATE INDEX IF NOT EXISTS idx_insights_created_at ON insights(created_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%w: migrate: %w", ErrUnavailable, err)
		}
	}

	if err := addColumn(db, "insights", "recall_count", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrUnavailable, err)
	}

	return nil
}

// addColumn adds column to table unless it already exists, upgrading stores
// created before the column was introduced.
func addColumn(db *sql.DB, table, column, definition string) error {
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_ = rows.Close()

	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}
