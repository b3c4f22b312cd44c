// internal/output/types.go

// Package output delivers produced items to a configured sink: console,
// files (JSON, CSV, Excel), SQL databases or MongoDB. The extraction engine
// never depends on what the sink does with the records.
package output

import (
	"github.com/dechora/itemscout/pkg/api"
)

// Writer is the sink contract. Write may be called multiple times; Close
// flushes and releases resources.
type Writer interface {
	Write(items []*api.Item) error
	Close() error
}

// Format names a supported sink type.
type Format string

const (
	FormatConsole    Format = "console"
	FormatJSON       Format = "json"
	FormatCSV        Format = "csv"
	FormatExcel      Format = "excel"
	FormatSQLite     Format = "sqlite"
	FormatPostgreSQL Format = "postgresql"
	FormatMySQL      Format = "mysql"
	FormatMongoDB    Format = "mongodb"
)

// itemColumns is the canonical column order used by tabular sinks.
var itemColumns = []string{
	"image_url",
	"product_name",
	"product_category",
	"manufacturer",
	"page_url",
	"product_page_url",
}

// itemValues returns an item's fields in itemColumns order. Metadata fields
// stay *string so SQL drivers map absent values to NULL.
func itemValues(item *api.Item) []interface{} {
	return []interface{}{
		item.ImageURL,
		item.ProductName,
		item.ProductCategory,
		item.Manufacturer,
		item.PageURL,
		item.ProductPageURL,
	}
}

// stringValue renders a nullable field for text sinks, with "" for absent.
func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
