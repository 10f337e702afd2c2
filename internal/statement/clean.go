package statement

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/period"
)

// RowKind classifies a raw statement row during cleaning.
type RowKind int

const (
	// RowData carries a real line item.
	RowData RowKind = iota
	// RowNoLabel has a blank label.
	RowNoLabel
	// RowPlaceholder has a label of "0" or bare punctuation.
	RowPlaceholder
	// RowNoFigures has a non-numeric first period value (footnotes, legends).
	RowNoFigures
)

func (k RowKind) String() string {
	switch k {
	case RowData:
		return "data"
	case RowNoLabel:
		return "no-label"
	case RowPlaceholder:
		return "placeholder"
	case RowNoFigures:
		return "no-figures"
	default:
		return fmt.Sprintf("RowKind(%d)", int(k))
	}
}

// labelSpillColumns is how many columns right of the label are searched for a
// label pushed out of place by merged cells.
const labelSpillColumns = 3

// ClassifyRow decides whether a row with the given trimmed label and first period
// cell is kept as data.
func ClassifyRow(label string, first model.Cell) RowKind {
	switch {
	case label == "":
		return RowNoLabel
	case label == "0" || isPunctuation(label):
		return RowPlaceholder
	}
	if _, ok := first.Float(); !ok {
		return RowNoFigures
	}
	return RowData
}

func isPunctuation(s string) bool {
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}

// Clean turns a raw sub-table into a Statement holding exactly the resolved periods.
// A sub-table lacking any resolved period column is downgraded to an empty statement.
func Clean(kind model.StatementKind, t model.RawTable, periods []model.PeriodColumn) (model.Statement, []model.Warning) {
	st := model.Statement{Kind: kind}
	if t.Empty() || len(periods) == 0 {
		return st, nil
	}

	cols := make([]int, len(periods))
	for i, p := range periods {
		cols[i] = locateColumn(t, p)
		if cols[i] < 0 {
			return st, []model.Warning{{
				Stage:   StageClean,
				Message: fmt.Sprintf("%s has no column for period %s (%q); statement skipped", kindName(kind), p.DisplayLabel, p.OriginalHeader),
			}}
		}
	}

	rows := t.Rows
	if kind == model.BalanceSheet && len(rows) > 1 {
		// The first data row repeats the comparison-column header.
		rows = rows[1:]
	}

	for _, row := range rows {
		label := labelOf(kind, row)
		if ClassifyRow(label, cellAt(row, cols[0])) != RowData {
			continue
		}
		values := make([]float64, len(cols))
		for i, c := range cols {
			if v, ok := cellAt(row, c).Float(); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
				values[i] = v
			}
		}
		st.Items = append(st.Items, model.LineItem{Label: label, Values: values})
	}

	st.Items = DropZeroRows(st.Items)
	return st, nil
}

// DropZeroRows removes items whose absolute values sum to exactly zero.
func DropZeroRows(items []model.LineItem) []model.LineItem {
	var out []model.LineItem
	for _, it := range items {
		var sum float64
		for _, v := range it.Values {
			sum += math.Abs(v)
		}
		if sum == 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

// labelOf returns the trimmed label. Income statement labels spilled into the next
// few columns are pulled back when the label cell itself is blank.
func labelOf(kind model.StatementKind, row []model.Cell) string {
	label := cellAt(row, 0)
	if kind == model.IncomeStatement {
		for c := 1; c <= labelSpillColumns && label.IsBlank(); c++ {
			if spill := cellAt(row, c); spill.Kind == model.CellText {
				label = model.TextCell(strings.TrimSpace(spill.Text))
			}
		}
	}
	return strings.TrimSpace(label.String())
}

// locateColumn finds a period's column by its original header, then by normalized key
// for sub-tables whose promoted header spells the period differently.
func locateColumn(t model.RawTable, p model.PeriodColumn) int {
	if i := t.HeaderIndex(p.OriginalHeader); i >= 0 {
		return i
	}
	for i, h := range t.Header {
		if c, ok := period.ClassifyColumn(h.String()); ok && c.Key == p.Key {
			return i
		}
	}
	return -1
}

func cellAt(row []model.Cell, col int) model.Cell {
	if col < 0 || col >= len(row) {
		return model.Cell{}
	}
	return row[col]
}

func kindName(kind model.StatementKind) string {
	if kind == model.IncomeStatement {
		return "income statement"
	}
	return "balance sheet"
}
