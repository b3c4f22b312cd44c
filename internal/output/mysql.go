// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/dechora/itemscout/pkg/api"
)

// MySQLWriter writes items to a MySQL table.
type MySQLWriter struct {
	db    *sql.DB
	table string
}

// NewMySQLWriter connects to MySQL and ensures the items table exists.
func NewMySQLWriter(dsn, table string) (*MySQLWriter, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL connection string is required")
	}
	if table == "" {
		table = "items"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	w := &MySQLWriter{db: db, table: table}
	if err := w.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *MySQLWriter) ensureTable() error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		image_url TEXT NOT NULL,
		product_name TEXT,
		product_category TEXT,
		manufacturer TEXT,
		page_url TEXT NOT NULL,
		product_page_url TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, w.table)
	if _, err := w.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}

// Write inserts the items in one transaction.
func (w *MySQLWriter) Write(items []*api.Item) error {
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
func (w *MySQLWriter) Close() error {
	return w.db.Close()
}
