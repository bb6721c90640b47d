package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XlsxWriter writes summary rows to a single-sheet workbook.
type XlsxWriter struct {
	file    *excelize.File
	sheet   string
	nextRow int
}

func NewXlsxWriter(sheet string) *XlsxWriter {
	f := excelize.NewFile()

	index, err := f.GetSheetIndex("Sheet1")
	if err == nil && index >= 0 {
		_ = f.SetSheetName("Sheet1", sheet)
	} else {
		_, _ = f.NewSheet(sheet)
	}

	return &XlsxWriter{
		file:    f,
		sheet:   sheet,
		nextRow: 1,
	}
}

func (w *XlsxWriter) WriteHeader(columns []string) error {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = c
	}

	return w.WriteRow(values)
}

func (w *XlsxWriter) WriteRow(values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.nextRow)
	if err != nil {
		return err
	}

	if err := w.file.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.nextRow, err)
	}

	w.nextRow++
	return nil
}

// SaveAs writes the workbook to path.
func (w *XlsxWriter) SaveAs(path string) error {
	return w.file.SaveAs(path)
}

func (w *XlsxWriter) Close() error {
	return w.file.Close()
}
