package format

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/ratio"
)

func TestParseLocale(t *testing.T) {
	l, err := ParseLocale(" EN ")
	require.NoError(t, err)
	assert.Equal(t, English, l)

	l, err = ParseLocale("vi")
	require.NoError(t, err)
	assert.Equal(t, Vietnamese, l)

	_, err = ParseLocale("de")
	assert.Error(t, err)
}

func TestNumber(t *testing.T) {
	vi, en := New(Vietnamese), New(English)
	tests := []struct {
		in     float64
		vi, en string
	}{
		{0, "", ""},
		{1, "1", "1"},
		{999, "999", "999"},
		{1000, "1.000", "1,000"},
		{1234567.5, "1.234.568", "1,234,568"},
		{-1234567, "(1.234.567)", "(1,234,567)"},
		{-0.2, "0", "0"},
		{1.5e21, "1.500.000.000.000.000.000.000", "1,500,000,000,000,000,000,000"},
		{math.NaN(), "N/A", "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.vi, vi.Number(tt.in), "vi %v", tt.in)
		assert.Equal(t, tt.en, en.Number(tt.in), "en %v", tt.in)
	}
}

func TestPercentAndRatio(t *testing.T) {
	vi, en := New(Vietnamese), New(English)

	assert.Equal(t, "50,00%", vi.Percent(50))
	assert.Equal(t, "50.00%", en.Percent(50))
	assert.Equal(t, "(12,35%)", vi.Percent(-12.345))
	assert.Equal(t, "1.234,57%", vi.Percent(1234.5678))
	assert.Equal(t, "", vi.Percent(0))
	assert.Equal(t, "N/A", vi.Percent(math.NaN()))

	assert.Equal(t, "1,50", vi.Ratio(1.5))
	assert.Equal(t, "3.00", en.Ratio(3))
	assert.Equal(t, "(0.67)", en.Ratio(-2.0/3))
}

func TestNewDefaultsToVietnamese(t *testing.T) {
	assert.Equal(t, Vietnamese, New("xx").Locale())
	assert.Equal(t, English, New(English).Locale())
}

func TestCellStyles(t *testing.T) {
	f := New(English)

	bs := model.Table{Title: ratio.TitleBalanceSheet, Columns: []string{"Period 1", "Growth (2 vs 1) %"}}
	row := model.Row{Label: "TỔNG CỘNG TÀI SẢN", Values: []float64{1500, 50}}
	assert.Equal(t, "1,500", f.Cell(bs, row, 0))
	assert.Equal(t, "50.00%", f.Cell(bs, row, 1))
	assert.Equal(t, "", f.Cell(bs, row, 2))

	cost := model.Table{Title: ratio.TitleCostStructure, Columns: []string{"Period 1"}}
	assert.Equal(t, "70.00%", f.Cell(cost, model.Row{Label: "Cost of Goods Sold", Values: []float64{70}}, 0))

	ratios := model.Table{Title: ratio.TitleRatios, Columns: []string{"Period 1"}}
	assert.Equal(t, "1.50", f.Cell(ratios, model.Row{Label: ratio.CurrentRatio, Group: ratio.GroupLiquidity, Values: []float64{1.5}}, 0))
	assert.Equal(t, "12.50%", f.Cell(ratios, model.Row{Label: ratio.ReturnOnSales, Group: ratio.GroupProfitability, Values: []float64{12.5}}, 0))
	assert.Equal(t, "N/A", f.Cell(ratios, model.Row{Label: ratio.ReturnOnEquity, Group: ratio.GroupProfitability, Values: []float64{model.Undefined()}}, 0))
}

func TestFormattingDoesNotChangeValues(t *testing.T) {
	tbl := model.Table{Title: ratio.TitleBalanceSheet, Columns: []string{"Period 1"}, Rows: []model.Row{{Label: "X", Values: []float64{1234.5678}}}}
	_ = Markdown(tbl, New(Vietnamese), []string{"2023"})
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, tbl, New(English), []string{"2023"}))
	assert.Equal(t, 1234.5678, tbl.Rows[0].Values[0])
}

func TestEmphasisFor(t *testing.T) {
	tests := []struct {
		label string
		want  Emphasis
	}{
		{"A. TÀI SẢN NGẮN HẠN", Bold},
		{"B) TÀI SẢN DÀI HẠN", Bold},
		{"IV. Hàng tồn kho", Bold},
		{"TỔNG CỘNG TÀI SẢN", Bold},
		{"Tổng lợi nhuận kế toán trước thuế", Bold},
		{"Total assets", Bold},
		{"- Nguyên giá", Italic},
		{"+ Giá trị hao mòn", Italic},
		{"Trong đó: Chi phí lãi vay", Italic},
		{"trong đó chi phí lãi vay", Italic},
		{"1. Doanh thu bán hàng", Plain},
		{"Hàng tồn kho", Plain},
		{"Apple", Plain},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, EmphasisFor(tt.label))
		})
	}
}

func TestColumnLabels(t *testing.T) {
	cols := []string{"Period 1", "Period 2", "Delta (2 vs 1)", "Growth (2 vs 1) %", "Vertical % Period 1", "Vertical % Period 2"}
	got := ColumnLabels(cols, []string{"31/12/2022", "31/12/2023"})
	assert.Equal(t, []string{"31/12/2022", "31/12/2023", "Delta (2 vs 1)", "Growth (2 vs 1) %", "Vertical % 31/12/2022", "Vertical % 31/12/2023"}, got)
}

func sampleRatios() model.Table {
	return model.Table{
		Title:   ratio.TitleRatios,
		Columns: []string{"Period 1", "Period 2", "Delta (2 vs 1)"},
		Rows: []model.Row{
			{Label: ratio.CurrentRatio, Group: ratio.GroupLiquidity, Values: []float64{1.5, 3, 1.5}},
			{Label: ratio.ReturnOnEquity, Group: ratio.GroupProfitability, Values: []float64{model.Undefined(), 20, model.Undefined()}},
		},
	}
}

func TestWriteMarkdown(t *testing.T) {
	md := Markdown(sampleRatios(), New(English), []string{"2022", "2023"})
	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "### Financial Ratios", lines[0])
	assert.Equal(t, "| Group | Line Item | 2022 | 2023 | Delta (2 vs 1) |", lines[2])
	assert.Equal(t, "| --- | --- | ---: | ---: | ---: |", lines[3])
	assert.Equal(t, "| Liquidity | Current Ratio | 1.50 | 3.00 | 1.50 |", lines[4])
	assert.Equal(t, "| Profitability | Return on Equity (ROE) % | N/A | 20.00% | N/A |", lines[5])
}

func TestWriteMarkdown_EmphasisAndEscaping(t *testing.T) {
	tbl := model.Table{
		Title:   ratio.TitleBalanceSheet,
		Columns: []string{"Period 1"},
		Rows: []model.Row{
			{Label: "TỔNG CỘNG TÀI SẢN", Values: []float64{100}},
			{Label: "- Nguyên giá | cũ", Values: []float64{5}},
		},
	}
	md := Markdown(tbl, New(Vietnamese), []string{"2023"})
	assert.Contains(t, md, "| Line Item | 2023 |")
	assert.Contains(t, md, "| **TỔNG CỘNG TÀI SẢN** | 100 |")
	assert.Contains(t, md, `| *- Nguyên giá \| cũ* | 5 |`)
}

func TestWriteMarkdown_Empty(t *testing.T) {
	md := Markdown(model.Table{Title: ratio.TitleIncomeStatement}, New(Vietnamese), nil)
	assert.Equal(t, "### Income Statement\n\n_No data._\n", md)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRatios(), New(Vietnamese), []string{"2022", "2023"}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Financial Ratios\n"))
	assert.Contains(t, out, "[Liquidity]")
	assert.Contains(t, out, "[Profitability]")
	assert.Contains(t, out, "1,50")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "2022")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, model.Table{Title: ratio.TitleIncomeStatement}, New(Vietnamese), nil))
	assert.Equal(t, "Income Statement\n  (no data)\n", buf.String())
}
