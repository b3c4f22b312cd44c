// internal/output/json.go
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/dechora/itemscout/pkg/api"
)

// JSONWriter writes items as indented JSON to a file, or to stdout when no
// filename is given.
type JSONWriter struct {
	out  io.Writer
	file *os.File
}

// NewJSONWriter creates a JSON writer targeting the given file.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if filename == "" {
		return &JSONWriter{out: os.Stdout}, nil
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{out: file, file: file}, nil
}

// Write encodes the items. Null metadata fields are encoded as JSON null.
func (w *JSONWriter) Write(items []*api.Item) error {
	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

// Close closes the underlying file, if any.
func (w *JSONWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

// ConsoleWriter prints each item as a single JSON line to stdout. It is the
// default sink.
type ConsoleWriter struct{}

// NewConsoleWriter creates a console sink.
func NewConsoleWriter() *ConsoleWriter {
	return &ConsoleWriter{}
}

// Write prints one JSON line per item.
func (w *ConsoleWriter) Write(items []*api.Item) error {
	encoder := json.NewEncoder(os.Stdout)
	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for the console sink.
func (w *ConsoleWriter) Close() error {
	return nil
}
