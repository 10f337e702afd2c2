package importer

import (
	"fmt"
	"io"
	"os"

	"github.com/shakinm/xlsReader/xls"

	"github.com/cleared-dev/finstat/internal/model"
)

// XLSLoader reads the first sheet of a legacy BIFF8 workbook.
type XLSLoader struct{}

// Format returns the loader name.
func (l *XLSLoader) Format() string { return "xls" }

// Load spools r to a temporary file because the reader opens workbooks by path.
// Cell values arrive as text; numeric-looking text becomes a number.
func (l *XLSLoader) Load(r io.Reader) (model.RawTable, error) {
	tmp, err := os.CreateTemp("", "finstat-*.xls")
	if err != nil {
		return model.RawTable{}, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return model.RawTable{}, fmt.Errorf("spooling workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.RawTable{}, fmt.Errorf("spooling workbook: %w", err)
	}

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return model.RawTable{}, fmt.Errorf("opening workbook: %w", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return model.RawTable{}, fmt.Errorf("no sheets found in workbook")
	}

	var rows [][]model.Cell
	for _, xr := range sheet.GetRows() {
		cols := xr.GetCols()
		cells := make([]model.Cell, len(cols))
		for j, c := range cols {
			cells[j] = model.InferCell(c.GetString())
		}
		rows = append(rows, cells)
	}
	return fromRows(rows), nil
}
