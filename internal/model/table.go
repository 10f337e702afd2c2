package model

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CellKind classifies a spreadsheet cell as loaded.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// headerTimeLayout matches how spreadsheet datetimes stringify when used as headers.
const headerTimeLayout = "2006-01-02 15:04:05"

// Cell is a single heterogeneous spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
}

// TextCell returns a text cell, or an empty cell for "".
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// DateCell returns a datetime cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// InferCell builds a cell from raw text: numeric-looking text becomes a number.
func InferCell(s string) Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Cell{}
	}
	if d, err := decimal.NewFromString(trimmed); err == nil {
		return NumberCell(d.InexactFloat64())
	}
	return TextCell(s)
}

// String renders the cell the way it reads as a column header or label.
// Integral numbers print without a fractional part ("2023", not "2023.0").
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		if c.Number == math.Trunc(c.Number) && math.Abs(c.Number) < 1e15 {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Time.Format(headerTimeLayout)
	default:
		return ""
	}
}

// IsBlank reports whether the cell is empty or whitespace-only text.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// Float coerces the cell to a number. Text is parsed strictly after trimming;
// anything else (dates, blanks, free text) is not numeric.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		d, err := decimal.NewFromString(strings.TrimSpace(c.Text))
		if err != nil {
			return 0, false
		}
		return d.InexactFloat64(), true
	default:
		return 0, false
	}
}

// RawTable is a sheet as loaded: a header row plus ordered data rows.
// Rows may be ragged; missing trailing cells read as empty.
type RawTable struct {
	Header []Cell
	Rows   [][]Cell
}

// Width returns the widest of the header and all rows.
func (t RawTable) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (t RawTable) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Cell{}
	}
	return t.Rows[row][col]
}

// HeaderStrings returns the stringified header row.
func (t RawTable) HeaderStrings() []string {
	out := make([]string, len(t.Header))
	for i, c := range t.Header {
		out[i] = c.String()
	}
	return out
}

// HeaderIndex returns the first column whose stringified header equals name, or -1.
func (t RawTable) HeaderIndex(name string) int {
	for i, c := range t.Header {
		if c.String() == name {
			return i
		}
	}
	return -1
}

// Empty reports whether the table has no data rows.
func (t RawTable) Empty() bool {
	return len(t.Rows) == 0
}
