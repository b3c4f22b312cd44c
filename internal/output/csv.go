// internal/output/csv.go
package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/dechora/itemscout/pkg/api"
)

// CSVWriter writes items in CSV format with a fixed header row.
type CSVWriter struct {
	filename      string
	file          *os.File
	writer        *csv.Writer
	headerWritten bool
}

// NewCSVWriter creates a new CSV writer.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("csv output requires a file path")
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{
		filename: filename,
		file:     file,
		writer:   csv.NewWriter(file),
	}, nil
}

// Write appends item rows, emitting the header before the first batch.
func (w *CSVWriter) Write(items []*api.Item) error {
	if !w.headerWritten {
		if err := w.writer.Write(itemColumns); err != nil {
			return err
		}
		w.headerWritten = true
	}

	for _, item := range items {
		row := []string{
			item.ImageURL,
			stringValue(item.ProductName),
			stringValue(item.ProductCategory),
			stringValue(item.Manufacturer),
			item.PageURL,
			stringValue(item.ProductPageURL),
		}
		if err := w.writer.Write(row); err != nil {
			return err
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes pending rows and closes the file.
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
