// internal/output/manager_test.go
package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dechora/itemscout/internal/config"
	"github.com/dechora/itemscout/pkg/api"
)

func strptr(s string) *string { return &s }

func sampleItems() []*api.Item {
	return []*api.Item{
		{
			ImageURL:        "https://shop.example/img/oak-table.jpg",
			ProductName:     strptr("Oak Dining Table"),
			ProductCategory: strptr("Tables"),
			Manufacturer:    strptr("Nordiska"),
			PageURL:         "https://shop.example/catalog",
			ProductPageURL:  strptr("https://shop.example/products/oak-table"),
		},
		{
			ImageURL: "https://shop.example/img/mystery.jpg",
			PageURL:  "https://shop.example/catalog",
		},
	}
}

func TestNewManager(t *testing.T) {
	if _, err := NewManager(config.OutputConfig{}); err == nil {
		t.Error("expected an error for a missing format")
	}
	if _, err := NewManager(config.OutputConfig{Format: "console"}); err != nil {
		t.Errorf("NewManager() error = %v", err)
	}
}

func TestGetWriter_UnsupportedFormat(t *testing.T) {
	m, err := NewManager(config.OutputConfig{Format: "telegraph"})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if _, err := m.GetWriter(); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestGetWriter_Console(t *testing.T) {
	m, _ := NewManager(config.OutputConfig{Format: "console"})
	w, err := m.GetWriter()
	if err != nil {
		t.Fatalf("GetWriter() error = %v", err)
	}
	if _, ok := w.(*ConsoleWriter); !ok {
		t.Errorf("GetWriter() = %T, want *ConsoleWriter", w)
	}
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	m, _ := NewManager(config.OutputConfig{Format: "json", File: path})
	w, err := m.GetWriter()
	if err != nil {
		t.Fatalf("GetWriter() error = %v", err)
	}

	if err := w.Write(sampleItems()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d items, want 2", len(decoded))
	}
	if decoded[0]["productName"] != "Oak Dining Table" {
		t.Errorf("productName = %v", decoded[0]["productName"])
	}

	// Absent metadata must round-trip as an explicit null, not be omitted.
	for _, key := range []string{"productName", "productCategory", "manufacturer", "productPageUrl"} {
		if v, present := decoded[1][key]; !present || v != nil {
			t.Errorf("second item %s = %v (present=%v), want explicit null", key, v, present)
		}
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter() error = %v", err)
	}

	if err := w.Write(sampleItems()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	// A second batch must not repeat the header.
	if err := w.Write(sampleItems()[:1]); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(itemColumns, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Oak Dining Table" {
		t.Errorf("first data row name = %q", rows[1][1])
	}
	if rows[2][1] != "" {
		t.Errorf("absent name must serialize as empty, got %q", rows[2][1])
	}
}

func TestCSVWriter_RequiresPath(t *testing.T) {
	if _, err := NewCSVWriter(""); err == nil {
		t.Error("expected an error for an empty path")
	}
}

func TestStringValue(t *testing.T) {
	if got := stringValue(nil); got != "" {
		t.Errorf("stringValue(nil) = %q", got)
	}
	if got := stringValue(strptr("x")); got != "x" {
		t.Errorf("stringValue(ptr) = %q", got)
	}
}
