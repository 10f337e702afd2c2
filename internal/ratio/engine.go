package ratio

import (
	"fmt"

	"github.com/cleared-dev/finstat/internal/lineitem"
	"github.com/cleared-dev/finstat/internal/model"
)

// StageDerive names warnings raised while deriving metrics.
const StageDerive = "derive"

// Table titles.
const (
	TitleBalanceSheet    = "Balance Sheet"
	TitleIncomeStatement = "Income Statement"
	TitleCostStructure   = "Cost Structure (% of Net Revenue)"
	TitleRatios          = "Financial Ratios"
)

// Input is the cleaned data the engine derives from.
type Input struct {
	BalanceSheet    model.Statement
	IncomeStatement model.Statement
	Periods         []model.PeriodColumn // oldest first
	Catalogue       lineitem.Catalogue
}

// Result holds the four derived tables.
type Result struct {
	BalanceSheet    model.Table
	IncomeStatement model.Table
	CostStructure   model.Table
	Ratios          model.Table
	Warnings        []model.Warning
}

// Compute derives every table. It never fails: missing line items read as zero.
func Compute(in Input) Result {
	if in.Catalogue == nil {
		in.Catalogue = lineitem.DefaultCatalogue()
	}
	n := len(in.Periods)

	var res Result
	res.BalanceSheet, res.Warnings = balanceSheetTable(in.BalanceSheet, in.Catalogue, in.Periods)
	res.IncomeStatement = incomeStatementTable(in.IncomeStatement, n)
	res.CostStructure = costStructureTable(in.IncomeStatement, in.Catalogue, n)
	res.Ratios = ratioTable(in, n)
	return res
}

func balanceSheetTable(bs model.Statement, cat lineitem.Catalogue, resolved []model.PeriodColumn) (model.Table, []model.Warning) {
	n := len(resolved)
	t := model.Table{
		Title:   TitleBalanceSheet,
		Columns: append(append(periodColumns(n), deltaGrowthColumns(n)...), verticalColumns(n)...),
	}
	if bs.Empty() {
		return t, nil
	}

	var warnings []model.Warning
	totals := cat.Values(bs, lineitem.TotalAssets, n)
	if _, ok := cat.Find(bs, lineitem.TotalAssets); !ok {
		warnings = append(warnings, model.Warning{
			Stage:   StageDerive,
			Message: "total assets line item not found; vertical % is computed against a near-zero divisor",
		})
	} else {
		for k, total := range totals {
			if total == 0 {
				warnings = append(warnings, model.Warning{
					Stage:   StageDerive,
					Message: fmt.Sprintf("total assets is zero for %s; vertical %% is computed against a near-zero divisor", resolved[k].DisplayLabel),
				})
			}
		}
	}

	for _, li := range bs.Items {
		vals := padded(li.Values, n)
		row := append(vals, deltaGrowth(vals)...)
		for k := 0; k < n; k++ {
			row = append(row, EpsilonDivide(vals[k], totals[k])*100)
		}
		t.Rows = append(t.Rows, model.Row{Label: li.Label, Values: row})
	}
	return t, warnings
}

func incomeStatementTable(is model.Statement, n int) model.Table {
	t := model.Table{
		Title:   TitleIncomeStatement,
		Columns: append(periodColumns(n), deltaGrowthColumns(n)...),
	}
	for _, li := range is.Items {
		vals := padded(li.Values, n)
		t.Rows = append(t.Rows, model.Row{Label: li.Label, Values: append(vals, deltaGrowth(vals)...)})
	}
	return t
}

// costItems are the income statement lines expressed as a share of net revenue.
var costItems = []struct {
	item  lineitem.Item
	label string
}{
	{lineitem.CostOfGoodsSold, "Cost of Goods Sold"},
	{lineitem.InterestExpense, "Interest Expense"},
	{lineitem.SellingExpense, "Selling Expense"},
	{lineitem.AdminExpense, "General & Administrative Expense"},
	{lineitem.NetIncomeAfterTax, "Net Income After Tax"},
}

func costStructureTable(is model.Statement, cat lineitem.Catalogue, n int) model.Table {
	t := model.Table{Title: TitleCostStructure, Columns: periodColumns(n)}
	revenue := cat.Values(is, lineitem.NetRevenue, n)
	for _, ci := range costItems {
		vals := cat.Values(is, ci.item, n)
		row := make([]float64, n)
		for k := range row {
			row[k] = EpsilonDivide(vals[k], revenue[k]) * 100
		}
		t.Rows = append(t.Rows, model.Row{Label: ci.label, Values: row})
	}
	return t
}

// deltaGrowth returns delta and growth % for every consecutive period pair.
func deltaGrowth(vals []float64) []float64 {
	var out []float64
	for k := 0; k+1 < len(vals); k++ {
		out = append(out, vals[k+1]-vals[k], Growth(vals[k], vals[k+1]))
	}
	return out
}

func padded(vals []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, vals)
	return out
}
