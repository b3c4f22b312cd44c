// internal/output/excel.go
package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dechora/itemscout/pkg/api"
)

// ExcelWriter writes items to an XLSX worksheet.
type ExcelWriter struct {
	filename string
	sheet    string
	file     *excelize.File
	nextRow  int
}

// NewExcelWriter creates an Excel writer targeting the given file and sheet.
func NewExcelWriter(filename, sheet string) (*ExcelWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("excel output requires a file path")
	}
	if sheet == "" {
		sheet = "Items"
	}

	file := excelize.NewFile()
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)

	w := &ExcelWriter{
		filename: filename,
		sheet:    sheet,
		file:     file,
		nextRow:  1,
	}
	if err := w.writeRow(itemColumns); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends one row per item.
func (w *ExcelWriter) Write(items []*api.Item) error {
	for _, item := range items {
		row := []string{
			item.ImageURL,
			stringValue(item.ProductName),
			stringValue(item.ProductCategory),
			stringValue(item.Manufacturer),
			item.PageURL,
			stringValue(item.ProductPageURL),
		}
		if err := w.writeRow(row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes one row at the next free position.
func (w *ExcelWriter) writeRow(values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, w.nextRow)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := w.file.SetCellValue(w.sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell value: %w", err)
		}
	}
	w.nextRow++
	return nil
}

// Close saves the workbook and releases it.
func (w *ExcelWriter) Close() error {
	if err := w.file.SaveAs(w.filename); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return w.file.Close()
}
