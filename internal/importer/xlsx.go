package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/finstat/internal/model"
)

// XLSXLoader reads the first sheet of an Office Open XML workbook.
type XLSXLoader struct{}

// Format returns the loader name.
func (l *XLSXLoader) Format() string { return "xlsx" }

// Load reads raw cell values so numbers keep full precision regardless of display
// format. Numeric cells styled as dates become date cells.
func (l *XLSXLoader) Load(r io.Reader) (model.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return model.RawTable{}, fmt.Errorf("no sheets found in workbook")
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return model.RawTable{}, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	dates := dateStyles{f: f, known: make(map[int]bool)}

	rows := make([][]model.Cell, len(raw))
	for i, rec := range raw {
		cells := make([]model.Cell, len(rec))
		for j, v := range rec {
			cells[j] = model.InferCell(v)
			if cells[j].Kind != model.CellNumber {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil || !dates.isDate(sheet, ref) {
				continue
			}
			if t, err := excelize.ExcelDateToTime(cells[j].Number, date1904); err == nil {
				cells[j] = model.DateCell(t.Round(time.Second))
			}
		}
		rows[i] = cells
	}
	return fromRows(rows), nil
}

// dateStyles memoizes whether a cell style index renders as a date.
type dateStyles struct {
	f     *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheet, ref string) bool {
	idx, err := d.f.GetCellStyle(sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := d.known[idx]; ok {
		return v
	}
	style, err := d.f.GetStyle(idx)
	v := err == nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	d.known[idx] = v
	return v
}

// isDateFormat reports whether a built-in number format id or custom format code
// displays a date.
func isDateFormat(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateCode(*custom)
	}
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateCode looks for day, month or year tokens outside quoted literals and
// bracketed sections.
func isDateCode(code string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'd' || r == 'm' || r == 'y':
			return true
		}
	}
	return false
}
