// internal/config/types.go

// Package config provides the YAML-driven configuration for itemscout:
// geometry eligibility bounds, product-page fetch settings, scan behavior,
// output sinks, and the API server.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Geometry bounds image eligibility
	Geometry GeometryConfig `yaml:"geometry" json:"geometry"`

	// Fetch controls product page retrieval
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Scan controls whole-page scans
	Scan ScanConfig `yaml:"scan" json:"scan"`

	// Output selects the sink for produced items
	Output OutputConfig `yaml:"output" json:"output"`

	// Server configures the HTTP API
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging sets the log level (debug, info, warn, error)
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// GeometryConfig defines the inclusive size band an image must fall into to
// be eligible for extraction.
type GeometryConfig struct {
	MinWidth  int `yaml:"min_width" json:"min_width"`
	MinHeight int `yaml:"min_height" json:"min_height"`
	MaxWidth  int `yaml:"max_width" json:"max_width"`
	MaxHeight int `yaml:"max_height" json:"max_height"`
}

// FetchConfig defines how product pages are retrieved.
type FetchConfig struct {
	Timeout       time.Duration     `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RetryAttempts int               `yaml:"retry_attempts,omitempty" json:"retry_attempts,omitempty"`
	RetryDelay    time.Duration     `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`
	RateLimit     float64           `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
	RateBurst     int               `yaml:"rate_burst,omitempty" json:"rate_burst,omitempty"`
	UserAgents    []string          `yaml:"user_agents,omitempty" json:"user_agents,omitempty"`
	Headers       map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Cookies       map[string]string `yaml:"cookies,omitempty" json:"cookies,omitempty"`

	// Render fetches pages through a headless browser so JavaScript-built
	// markup is visible to the extractors. Falls back to plain HTTP.
	Render        bool          `yaml:"render,omitempty" json:"render,omitempty"`
	RenderTimeout time.Duration `yaml:"render_timeout,omitempty" json:"render_timeout,omitempty"`
}

// ScanConfig defines whole-page scan behavior.
type ScanConfig struct {
	// Concurrency bounds the number of simultaneous per-image extractions
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`

	// MaxImages caps how many eligible images a single scan will process;
	// zero means no cap
	MaxImages int `yaml:"max_images,omitempty" json:"max_images,omitempty"`
}

// OutputConfig selects and configures the item sink.
type OutputConfig struct {
	// Format is one of: console, json, csv, excel, sqlite, postgresql,
	// mysql, mongodb
	Format string `yaml:"format" json:"format"`

	// File is the target path for file-based formats
	File string `yaml:"file,omitempty" json:"file,omitempty"`

	// ConnectionString is the DSN for database formats
	ConnectionString string `yaml:"connection_string,omitempty" json:"connection_string,omitempty"`

	// Table is the table name for SQL formats
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Database and Collection target MongoDB output
	Database   string `yaml:"database,omitempty" json:"database,omitempty"`
	Collection string `yaml:"collection,omitempty" json:"collection,omitempty"`

	// Sheet is the worksheet name for Excel output
	Sheet string `yaml:"sheet,omitempty" json:"sheet,omitempty"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Address      string        `yaml:"address,omitempty" json:"address,omitempty"`
	ReadTimeout  time.Duration `yaml:"read_timeout,omitempty" json:"read_timeout,omitempty"`
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty" json:"write_timeout,omitempty"`
}

// LoggingConfig sets logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty"`
}

// applyDefaults fills zero-valued fields with working defaults.
func applyDefaults(c *Config) {
	if c.Name == "" {
		c.Name = "itemscout"
	}
	if c.Geometry.MinWidth == 0 {
		c.Geometry.MinWidth = 100
	}
	if c.Geometry.MinHeight == 0 {
		c.Geometry.MinHeight = 100
	}
	if c.Geometry.MaxWidth == 0 {
		c.Geometry.MaxWidth = 1000
	}
	if c.Geometry.MaxHeight == 0 {
		c.Geometry.MaxHeight = 1000
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.RetryAttempts == 0 {
		c.Fetch.RetryAttempts = 2
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = time.Second
	}
	if c.Fetch.RateLimit == 0 {
		c.Fetch.RateLimit = 2.0
	}
	if c.Fetch.RateBurst == 0 {
		c.Fetch.RateBurst = 5
	}
	if c.Fetch.RenderTimeout == 0 {
		c.Fetch.RenderTimeout = 45 * time.Second
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 4
	}
	if c.Output.Format == "" {
		c.Output.Format = "console"
	}
	if c.Output.Table == "" {
		c.Output.Table = "items"
	}
	if c.Output.Collection == "" {
		c.Output.Collection = "items"
	}
	if c.Output.Sheet == "" {
		c.Output.Sheet = "Items"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8089"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	g := c.Geometry
	if g.MinWidth < 0 || g.MinHeight < 0 {
		return fmt.Errorf("geometry minimums cannot be negative")
	}
	if g.MaxWidth < g.MinWidth || g.MaxHeight < g.MinHeight {
		return fmt.Errorf("geometry maximums must not be below minimums")
	}

	if c.Fetch.RateLimit < 0 {
		return fmt.Errorf("fetch rate_limit cannot be negative")
	}
	if c.Fetch.RetryAttempts < 0 {
		return fmt.Errorf("fetch retry_attempts cannot be negative")
	}

	if c.Scan.Concurrency < 1 {
		return fmt.Errorf("scan concurrency must be at least 1")
	}
	if c.Scan.MaxImages < 0 {
		return fmt.Errorf("scan max_images cannot be negative")
	}

	switch strings.ToLower(c.Output.Format) {
	case "console", "json", "csv", "excel":
	case "sqlite":
		if c.Output.File == "" && c.Output.ConnectionString == "" {
			return fmt.Errorf("sqlite output requires a file path")
		}
	case "postgresql", "mysql":
		if c.Output.ConnectionString == "" {
			return fmt.Errorf("%s output requires a connection string", c.Output.Format)
		}
	case "mongodb":
		if c.Output.ConnectionString == "" || c.Output.Database == "" {
			return fmt.Errorf("mongodb output requires a connection string and a database")
		}
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log level: %s", c.Logging.Level)
	}

	return nil
}
