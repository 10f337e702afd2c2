package model

import (
	"fmt"
	"math"
)

// LabelColumn is the canonical name of a statement's line-item column.
const LabelColumn = "Line Item"

// PeriodColumn maps one resolved reporting period to its source column.
type PeriodColumn struct {
	Key            string // "YYYY-MM-DD" or "YYYY"
	OriginalHeader string // stringified source header
	DisplayLabel   string // "DD/MM/YYYY" or "YYYY"
	Column         int    // index of the first source column carrying OriginalHeader
}

// PeriodName returns the canonical column name for 1-based period k.
func PeriodName(k int) string {
	return fmt.Sprintf("Period %d", k)
}

// StatementKind tags a cleaned statement.
type StatementKind string

const (
	BalanceSheet    StatementKind = "balance_sheet"
	IncomeStatement StatementKind = "income_statement"
)

// LineItem is one cleaned statement row. Values[k-1] holds Period k.
type LineItem struct {
	Label  string
	Values []float64
}

// Statement is an ordered, immutable set of line items.
type Statement struct {
	Kind  StatementKind
	Items []LineItem
}

// Empty reports whether the statement carries no line items.
func (s Statement) Empty() bool {
	return len(s.Items) == 0
}

// Undefined returns the marker for a mathematically undefined ratio value.
func Undefined() float64 {
	return math.NaN()
}

// IsUndefined reports whether v is the undefined marker.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// Row is one labelled row of a derived table. Values align with Table.Columns.
type Row struct {
	Label  string
	Group  string // ratio group; empty for statement rows
	Values []float64
}

// Table is a derived output table keyed by canonical column names.
type Table struct {
	Title   string
	Columns []string
	Rows    []Row
}

// ColumnIndex returns the index of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the value at the first row labelled label in the named column.
func (t Table) Value(label, column string) (float64, bool) {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		return 0, false
	}
	for _, r := range t.Rows {
		if r.Label == label && ci < len(r.Values) {
			return r.Values[ci], true
		}
	}
	return 0, false
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Warning is a non-fatal condition raised while producing an Analysis.
type Warning struct {
	Stage   string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// Analysis is the full derived output of one pipeline run.
type Analysis struct {
	Periods         []PeriodColumn // oldest first
	BalanceSheet    Table
	IncomeStatement Table
	CostStructure   Table
	Ratios          Table
	Warnings        []Warning
}

// PeriodLabels returns the display labels of the resolved periods, oldest first.
func (a *Analysis) PeriodLabels() []string {
	out := make([]string, len(a.Periods))
	for i, p := range a.Periods {
		out[i] = p.DisplayLabel
	}
	return out
}

// Tables returns the four derived tables in presentation order.
func (a *Analysis) Tables() []Table {
	return []Table{a.BalanceSheet, a.IncomeStatement, a.CostStructure, a.Ratios}
}
