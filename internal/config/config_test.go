// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Name != "itemscout" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.Geometry.MinWidth != 100 || c.Geometry.MinHeight != 100 {
		t.Errorf("geometry minimums = %dx%d, want 100x100", c.Geometry.MinWidth, c.Geometry.MinHeight)
	}
	if c.Geometry.MaxWidth != 1000 || c.Geometry.MaxHeight != 1000 {
		t.Errorf("geometry maximums = %dx%d, want 1000x1000", c.Geometry.MaxWidth, c.Geometry.MaxHeight)
	}
	if c.Fetch.Timeout != 30*time.Second {
		t.Errorf("fetch timeout = %v", c.Fetch.Timeout)
	}
	if c.Scan.Concurrency != 4 {
		t.Errorf("scan concurrency = %d", c.Scan.Concurrency)
	}
	if c.Output.Format != "console" {
		t.Errorf("output format = %q", c.Output.Format)
	}
	if c.Server.Address != ":8089" {
		t.Errorf("server address = %q", c.Server.Address)
	}

	if err := c.Validate(); err != nil {
		t.Errorf("default configuration must validate, got %v", err)
	}
}

func TestLoadFromBytes(t *testing.T) {
	yaml := `
name: shop-scan
geometry:
  min_width: 200
  max_width: 800
fetch:
  timeout: 10s
  rate_limit: 1.5
scan:
  concurrency: 8
  max_images: 50
output:
  format: json
  file: items.json
logging:
  level: debug
`
	c, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes() error = %v", err)
	}

	if c.Name != "shop-scan" {
		t.Errorf("Name = %q", c.Name)
	}
	if c.Geometry.MinWidth != 200 || c.Geometry.MaxWidth != 800 {
		t.Errorf("geometry widths = %d..%d", c.Geometry.MinWidth, c.Geometry.MaxWidth)
	}
	// Unset fields fall back to defaults.
	if c.Geometry.MinHeight != 100 || c.Geometry.MaxHeight != 1000 {
		t.Errorf("geometry heights = %d..%d, want defaults", c.Geometry.MinHeight, c.Geometry.MaxHeight)
	}
	if c.Fetch.Timeout != 10*time.Second {
		t.Errorf("fetch timeout = %v", c.Fetch.Timeout)
	}
	if c.Fetch.RateLimit != 1.5 {
		t.Errorf("rate limit = %v", c.Fetch.RateLimit)
	}
	if c.Scan.Concurrency != 8 || c.Scan.MaxImages != 50 {
		t.Errorf("scan = %+v", c.Scan)
	}
	if c.Output.Format != "json" || c.Output.File != "items.json" {
		t.Errorf("output = %+v", c.Output)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("log level = %q", c.Logging.Level)
	}
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "empty input",
			yaml: "",
			want: "cannot be empty",
		},
		{
			name: "bad yaml",
			yaml: "geometry: [unclosed",
			want: "parse YAML",
		},
		{
			name: "inverted geometry band",
			yaml: "geometry:\n  min_width: 500\n  max_width: 200\n",
			want: "maximums",
		},
		{
			name: "unknown output format",
			yaml: "output:\n  format: carrier-pigeon\n",
			want: "unsupported output format",
		},
		{
			name: "postgresql without connection string",
			yaml: "output:\n  format: postgresql\n",
			want: "connection string",
		},
		{
			name: "mongodb without database",
			yaml: "output:\n  format: mongodb\n  connection_string: mongodb://localhost\n",
			want: "database",
		},
		{
			name: "unknown log level",
			yaml: "logging:\n  level: loud\n",
			want: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestEnvironmentExpansion(t *testing.T) {
	os.Setenv("ITEMSCOUT_TEST_FORMAT", "csv")
	defer os.Unsetenv("ITEMSCOUT_TEST_FORMAT")

	yaml := `
output:
  format: ${ITEMSCOUT_TEST_FORMAT}
  file: ${ITEMSCOUT_TEST_FILE:-fallback.csv}
`
	c, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes() error = %v", err)
	}
	if c.Output.Format != "csv" {
		t.Errorf("expanded format = %q, want value from environment", c.Output.Format)
	}
	if c.Output.File != "fallback.csv" {
		t.Errorf("expanded file = %q, want the default fallback", c.Output.File)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	original := Default()
	original.Name = "round-trip"
	original.Scan.MaxImages = 25

	if err := SaveToFile(original, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.Name != "round-trip" {
		t.Errorf("Name = %q", loaded.Name)
	}
	if loaded.Scan.MaxImages != 25 {
		t.Errorf("MaxImages = %d", loaded.Scan.MaxImages)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want a not-found error", err)
	}
}

func TestGenerateTemplate(t *testing.T) {
	basic := GenerateTemplate("basic")
	if basic.Name != "itemscout-basic" {
		t.Errorf("basic template name = %q", basic.Name)
	}
	if err := basic.Validate(); err != nil {
		t.Errorf("basic template must validate, got %v", err)
	}

	server := GenerateTemplate("server")
	if server.Name != "itemscout-server" {
		t.Errorf("server template name = %q", server.Name)
	}
	if server.Output.Format != "json" {
		t.Errorf("server template output = %q", server.Output.Format)
	}
	if err := server.Validate(); err != nil {
		t.Errorf("server template must validate, got %v", err)
	}
}
