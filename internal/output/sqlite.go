// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/dechora/itemscout/pkg/api"
)

// SQLiteWriter writes items to a SQLite database table.
type SQLiteWriter struct {
	db    *sql.DB
	table string
}

// NewSQLiteWriter opens (creating if needed) the database and ensures the
// items table exists.
func NewSQLiteWriter(path, table string) (*SQLiteWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	if table == "" {
		table = "items"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	w := &SQLiteWriter{db: db, table: table}
	if err := w.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) ensureTable() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_url TEXT NOT NULL,
		product_name TEXT,
		product_category TEXT,
		manufacturer TEXT,
		page_url TEXT NOT NULL,
		product_page_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, w.table)
	_, err := w.db.Exec(stmt)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}

// Write inserts the items in one transaction.
func (w *SQLiteWriter) Write(items []*api.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)",
		w.table, strings.Join(itemColumns, ", "),
	))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(itemValues(item)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
