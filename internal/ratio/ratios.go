package ratio

import (
	"github.com/cleared-dev/finstat/internal/lineitem"
	"github.com/cleared-dev/finstat/internal/model"
)

// Ratio groups, in display order.
const (
	GroupLiquidity     = "Liquidity"
	GroupActivity      = "Activity"
	GroupSolvency      = "Solvency"
	GroupProfitability = "Profitability"
)

// Ratio names.
const (
	CurrentRatio           = "Current Ratio"
	QuickRatio             = "Quick Ratio"
	InventoryTurnover      = "Inventory Turnover"
	DaysInventory          = "Days Inventory"
	ReceivablesTurnover    = "Receivables Turnover"
	DaysReceivable         = "Days Receivable"
	WorkingCapitalTurnover = "Working Capital Turnover"
	EquityRatio            = "Equity Ratio"
	DebtToEquity           = "Debt to Equity"
	ReturnOnSales          = "Return on Sales (ROS) %"
	ReturnOnAssets         = "Return on Assets (ROA) %"
	ReturnOnEquity         = "Return on Equity (ROE) %"
)

const daysPerYear = 365

// figures holds every line item a ratio needs, one value per period.
type figures struct {
	totalAssets, shortTermAssets, shortTermLiabilities []float64
	inventory, receivables, equity, totalLiabilities   []float64
	revenue, cogs, netIncome                           []float64
}

func gather(in Input, n int) figures {
	bs, is, cat := in.BalanceSheet, in.IncomeStatement, in.Catalogue
	return figures{
		totalAssets:          cat.Values(bs, lineitem.TotalAssets, n),
		shortTermAssets:      cat.Values(bs, lineitem.ShortTermAssets, n),
		shortTermLiabilities: cat.Values(bs, lineitem.ShortTermLiabilities, n),
		inventory:            cat.Values(bs, lineitem.Inventory, n),
		receivables:          cat.Values(bs, lineitem.Receivables, n),
		equity:               cat.Values(bs, lineitem.Equity, n),
		totalLiabilities:     cat.Values(bs, lineitem.TotalLiabilities, n),
		revenue:              cat.Values(is, lineitem.NetRevenue, n),
		cogs:                 cat.Values(is, lineitem.CostOfGoodsSold, n),
		netIncome:            cat.Values(is, lineitem.NetIncomeAfterTax, n),
	}
}

// averaged returns (v[k] + v[k-1]) / 2 per period; the first period averages with itself.
func averaged(v []float64) []float64 {
	out := make([]float64, len(v))
	for k := range v {
		prev := v[k]
		if k > 0 {
			prev = v[k-1]
		}
		out[k] = Average(v[k], prev)
	}
	return out
}

type ratioDef struct {
	name  string
	group string
	fn    func(f figures, avg averages, k int) float64
}

type averages struct {
	totalAssets, equity, inventory, receivables, workingCapital []float64
}

func workingCapital(f figures) []float64 {
	wc := make([]float64, len(f.shortTermAssets))
	for k := range wc {
		wc[k] = f.shortTermAssets[k] - f.shortTermLiabilities[k]
	}
	return wc
}

// definitions lists every ratio in display order: liquidity, activity, solvency, profitability.
var definitions = []ratioDef{
	{CurrentRatio, GroupLiquidity, func(f figures, _ averages, k int) float64 {
		return SafeDivide(f.shortTermAssets[k], f.shortTermLiabilities[k])
	}},
	{QuickRatio, GroupLiquidity, func(f figures, _ averages, k int) float64 {
		return SafeDivide(f.shortTermAssets[k]-f.inventory[k], f.shortTermLiabilities[k])
	}},
	{InventoryTurnover, GroupActivity, func(f figures, a averages, k int) float64 {
		return SafeDivide(f.cogs[k], a.inventory[k])
	}},
	{DaysInventory, GroupActivity, func(f figures, a averages, k int) float64 {
		return SafeDivide(daysPerYear, SafeDivide(f.cogs[k], a.inventory[k]))
	}},
	{ReceivablesTurnover, GroupActivity, func(f figures, a averages, k int) float64 {
		return SafeDivide(f.revenue[k], a.receivables[k])
	}},
	{DaysReceivable, GroupActivity, func(f figures, a averages, k int) float64 {
		return SafeDivide(daysPerYear, SafeDivide(f.revenue[k], a.receivables[k]))
	}},
	{WorkingCapitalTurnover, GroupActivity, func(f figures, a averages, k int) float64 {
		return SafeDivide(f.revenue[k], a.workingCapital[k])
	}},
	{EquityRatio, GroupSolvency, func(f figures, _ averages, k int) float64 {
		return SafeDivide(f.equity[k], f.totalAssets[k])
	}},
	{DebtToEquity, GroupSolvency, func(f figures, _ averages, k int) float64 {
		return SafeDivide(f.totalLiabilities[k], f.equity[k])
	}},
	{ReturnOnSales, GroupProfitability, func(f figures, _ averages, k int) float64 {
		return SafeDivide(f.netIncome[k], f.revenue[k]) * 100
	}},
	{ReturnOnAssets, GroupProfitability, func(f figures, a averages, k int) float64 {
		return SafeDivide(f.netIncome[k], a.totalAssets[k]) * 100
	}},
	{ReturnOnEquity, GroupProfitability, func(f figures, a averages, k int) float64 {
		// A non-positive equity base makes the return meaningless, not zero.
		if a.equity[k] <= 0 {
			return model.Undefined()
		}
		return SafeDivide(f.netIncome[k], a.equity[k]) * 100
	}},
}

// Names returns the ratio names in display order.
func Names() []string {
	out := make([]string, len(definitions))
	for i, d := range definitions {
		out[i] = d.name
	}
	return out
}

func ratioTable(in Input, n int) model.Table {
	t := model.Table{
		Title:   TitleRatios,
		Columns: append(periodColumns(n), deltaColumns(n)...),
	}

	f := gather(in, n)
	avg := averages{
		totalAssets:    averaged(f.totalAssets),
		equity:         averaged(f.equity),
		inventory:      averaged(f.inventory),
		receivables:    averaged(f.receivables),
		workingCapital: averaged(workingCapital(f)),
	}

	for _, d := range definitions {
		vals := make([]float64, n, 2*n-1)
		for k := 0; k < n; k++ {
			vals[k] = d.fn(f, avg, k)
		}
		for k := 0; k+1 < n; k++ {
			vals = append(vals, vals[k+1]-vals[k])
		}
		t.Rows = append(t.Rows, model.Row{Label: d.name, Group: d.group, Values: vals})
	}
	return t
}
