// Package grid materializes uploaded spreadsheets into the raw 2-D cell grid
// the reconciliation engine consumes. File-format concerns stop here; the
// engine itself never touches a workbook.
package grid

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Reader decodes .xlsx workbooks into ragged [][]string grids.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a grid reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// FromFile reads the first sheet of the workbook at path.
func (r *Reader) FromFile(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return r.firstSheet(f)
}

// FromReader reads the first sheet of a workbook from an io.Reader, e.g. an
// uploaded multipart file.
func (r *Reader) FromReader(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return r.firstSheet(f)
}

func (r *Reader) firstSheet(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	r.logger.Debug("Workbook materialized",
		zap.String("sheet", sheets[0]),
		zap.Int("rows", len(rows)))

	return rows, nil
}
