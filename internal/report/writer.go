package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Writer renders assembled sheets as a styled .xlsx workbook.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a workbook writer.
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// SaveAs writes the workbook to path.
func (w *Writer) SaveAs(sheets []Sheet, path string) error {
	f, err := w.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("Report workbook written",
		zap.String("path", path),
		zap.Int("sheets", len(sheets)))
	return nil
}

// WriteTo streams the workbook, e.g. into an HTTP response.
func (w *Writer) WriteTo(sheets []Sheet, dst io.Writer) error {
	f, err := w.build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(dst); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (w *Writer) build(sheets []Sheet) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			// Reuse the default sheet for the first tab.
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to add sheet %q: %w", sheet.Name, err)
			}
		}

		if err := w.fillSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}

	return f, nil
}

func (w *Writer) fillSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	header := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
	if err != nil {
		return fmt.Errorf("failed to compute header range: %w", err)
	}
	if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, row := range sheet.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}
