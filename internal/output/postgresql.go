// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/dechora/itemscout/pkg/api"
)

// PostgreSQLWriter writes items to a PostgreSQL table.
type PostgreSQLWriter struct {
	db    *sql.DB
	table string
}

// NewPostgreSQLWriter connects to PostgreSQL and ensures the items table exists.
func NewPostgreSQLWriter(connectionString, table string) (*PostgreSQLWriter, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("PostgreSQL connection string is required")
	}
	if table == "" {
		table = "items"
	}

	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	w := &PostgreSQLWriter{db: db, table: table}
	if err := w.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *PostgreSQLWriter) ensureTable() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		image_url TEXT NOT NULL,
		product_name TEXT,
		product_category TEXT,
		manufacturer TEXT,
		page_url TEXT NOT NULL,
		product_page_url TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`, w.table)
	if _, err := w.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}

// Write inserts the items in one transaction.
func (w *PostgreSQLWriter) Write(items []*api.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	placeholders := make([]string, len(itemColumns))
	for i := range itemColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		w.table, strings.Join(itemColumns, ", "), strings.Join(placeholders, ", "),
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
func (w *PostgreSQLWriter) Close() error {
	return w.db.Close()
}
