// internal/output/manager.go
package output

import (
	"fmt"
	"strings"

	"github.com/dechora/itemscout/internal/config"
)

// Manager builds the writer for a configured output format.
type Manager struct {
	config config.OutputConfig
}

// NewManager creates an output manager from the output configuration.
func NewManager(cfg config.OutputConfig) (*Manager, error) {
	if cfg.Format == "" {
		return nil, fmt.Errorf("output format is required")
	}
	return &Manager{config: cfg}, nil
}

// GetWriter returns the writer for the configured format.
func (m *Manager) GetWriter() (Writer, error) {
	switch Format(strings.ToLower(m.config.Format)) {
	case FormatConsole:
		return NewConsoleWriter(), nil
	case FormatJSON:
		return NewJSONWriter(m.config.File)
	case FormatCSV:
		return NewCSVWriter(m.config.File)
	case FormatExcel:
		return NewExcelWriter(m.config.File, m.config.Sheet)
	case FormatSQLite:
		path := m.config.File
		if path == "" {
			path = m.config.ConnectionString
		}
		return NewSQLiteWriter(path, m.config.Table)
	case FormatPostgreSQL:
		return NewPostgreSQLWriter(m.config.ConnectionString, m.config.Table)
	case FormatMySQL:
		return NewMySQLWriter(m.config.ConnectionString, m.config.Table)
	case FormatMongoDB:
		return NewMongoDBWriter(m.config.ConnectionString, m.config.Database, m.config.Collection)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", m.config.Format)
	}
}
