// Package statement splits a raw sheet into its Balance Sheet and Income Statement
// blocks and cleans each block into a period-indexed Statement.
package statement

import (
	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/textnorm"
)

// Stage names used on warnings raised by this package.
const (
	StageSplit = "split"
	StageClean = "clean"
)

// Default split keywords for Vietnamese statements.
const (
	DefaultIncomeStatementKeyword = "KẾT QUẢ HOẠT ĐỘNG KINH DOANH"
	DefaultHeaderKeyword          = "CHỈ TIÊU"
)

// SplitOptions configures the statement boundary search.
type SplitOptions struct {
	IncomeStatementKeyword string
	HeaderKeyword          string
}

// DefaultSplitOptions returns the Vietnamese keyword pair.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		IncomeStatementKeyword: DefaultIncomeStatementKeyword,
		HeaderKeyword:          DefaultHeaderKeyword,
	}
}

// Split locates the first row mentioning the income-statement keyword in either of the
// first two columns. Rows above it form the balance sheet; rows from it onward form the
// income statement, re-headed on its "line item" header row. Missing keywords degrade
// to an empty income statement with a warning.
func Split(t model.RawTable, opts SplitOptions) (bs, is model.RawTable, warnings []model.Warning) {
	match := -1
	for i := range t.Rows {
		// The keyword is sometimes shifted one column right by merged cells.
		search := t.Cell(i, 0).String() + " " + t.Cell(i, 1).String()
		if textnorm.Contains(search, opts.IncomeStatementKeyword) {
			match = i
			break
		}
	}

	if match < 0 {
		warnings = append(warnings, model.Warning{
			Stage:   StageSplit,
			Message: "income statement keyword " + quote(opts.IncomeStatementKeyword) + " not found; treating the whole sheet as the balance sheet",
		})
		return t, model.RawTable{Header: t.Header}, warnings
	}

	bs = model.RawTable{Header: t.Header, Rows: t.Rows[:match]}
	isRaw := model.RawTable{Header: t.Header, Rows: t.Rows[match:]}

	is, ok := promoteHeader(isRaw, opts.HeaderKeyword)
	if !ok {
		warnings = append(warnings, model.Warning{
			Stage:   StageSplit,
			Message: "income statement header row " + quote(opts.HeaderKeyword) + " not found or has no rows below it; income statement skipped",
		})
		return bs, model.RawTable{Header: t.Header}, warnings
	}
	return bs, is, warnings
}

// promoteHeader finds the first row containing keyword in any cell, makes its non-blank
// cells the new header, and keeps only the rows after it.
func promoteHeader(t model.RawTable, keyword string) (model.RawTable, bool) {
	at := -1
	for i, row := range t.Rows {
		for _, c := range row {
			if textnorm.Contains(c.String(), keyword) {
				at = i
				break
			}
		}
		if at >= 0 {
			break
		}
	}
	if at < 0 || at+1 >= len(t.Rows) {
		return model.RawTable{}, false
	}

	width := t.Width()
	header := make([]model.Cell, width)
	for col := 0; col < width; col++ {
		promoted := t.Cell(at, col)
		switch {
		case !promoted.IsBlank():
			header[col] = promoted
		case col < len(t.Header):
			header[col] = t.Header[col]
		}
	}
	if !t.Cell(at, 0).IsBlank() {
		header[0] = model.TextCell(model.LabelColumn)
	}

	return model.RawTable{Header: header, Rows: t.Rows[at+1:]}, true
}

func quote(s string) string {
	return "\"" + s + "\""
}
