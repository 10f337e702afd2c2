// Package lineitem maps canonical accounting line items to the label keywords used
// to find them in a cleaned statement.
package lineitem

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/textnorm"
)

// Item names a canonical line item.
type Item string

const (
	TotalAssets          Item = "total_assets"
	ShortTermAssets      Item = "short_term_assets"
	ShortTermLiabilities Item = "short_term_liabilities"
	Inventory            Item = "inventory"
	Receivables          Item = "receivables"
	Equity               Item = "equity"
	TotalLiabilities     Item = "total_liabilities"
	NetRevenue           Item = "net_revenue"
	CostOfGoodsSold      Item = "cost_of_goods_sold"
	InterestExpense      Item = "interest_expense"
	SellingExpense       Item = "selling_expense"
	AdminExpense         Item = "admin_expense"
	NetIncomeAfterTax    Item = "net_income_after_tax"
)

// Catalogue lists keyword variants per item. A label matches an item when it
// contains any variant, compared case-insensitively.
type Catalogue map[Item][]string

// DefaultCatalogue returns the built-in Vietnamese and English terminology.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		TotalAssets:          {"TỔNG CỘNG TÀI SẢN", "TỔNG TÀI SẢN", "TOTAL ASSETS"},
		ShortTermAssets:      {"TÀI SẢN NGẮN HẠN", "CURRENT ASSETS"},
		ShortTermLiabilities: {"NỢ NGẮN HẠN", "CURRENT LIABILITIES"},
		Inventory:            {"HÀNG TỒN KHO", "INVENTORIES", "INVENTORY"},
		Receivables:          {"CÁC KHOẢN PHẢI THU NGẮN HẠN", "PHẢI THU NGẮN HẠN", "PHẢI THU KHÁCH HÀNG", "RECEIVABLES"},
		Equity:               {"VỐN CHỦ SỞ HỮU", "OWNER'S EQUITY", "TOTAL EQUITY"},
		TotalLiabilities:     {"NỢ PHẢI TRẢ", "TOTAL LIABILITIES"},
		NetRevenue:           {"DOANH THU THUẦN", "NET REVENUE", "NET SALES"},
		CostOfGoodsSold:      {"GIÁ VỐN HÀNG BÁN", "COST OF GOODS SOLD", "COST OF SALES"},
		InterestExpense:      {"CHI PHÍ LÃI VAY", "INTEREST EXPENSE"},
		SellingExpense:       {"CHI PHÍ BÁN HÀNG", "SELLING EXPENSE"},
		AdminExpense:         {"CHI PHÍ QUẢN LÝ DOANH NGHIỆP", "GENERAL AND ADMINISTRATIVE", "GENERAL & ADMINISTRATIVE"},
		NetIncomeAfterTax:    {"LỢI NHUẬN SAU THUẾ", "NET INCOME AFTER TAX", "PROFIT AFTER TAX"},
	}
}

// Known reports whether item is one of the canonical line items.
func Known(item Item) bool {
	_, ok := DefaultCatalogue()[item]
	return ok
}

// Names returns the canonical item names, sorted.
func Names() []string {
	var out []string
	for item := range DefaultCatalogue() {
		out = append(out, string(item))
	}
	sort.Strings(out)
	return out
}

// Merge returns a copy of c with extra keywords appended per item.
// Unknown item names are rejected.
func (c Catalogue) Merge(extra map[string][]string) (Catalogue, error) {
	out := make(Catalogue, len(c))
	for item, kws := range c {
		out[item] = append([]string(nil), kws...)
	}
	for name, kws := range extra {
		item := Item(name)
		if !Known(item) {
			return nil, fmt.Errorf("unknown line item %q", name)
		}
		out[item] = append(out[item], kws...)
	}
	return out, nil
}

// Find returns the first line item, in statement order, whose label matches item.
func (c Catalogue) Find(st model.Statement, item Item) (model.LineItem, bool) {
	keywords := c[item]
	for _, li := range st.Items {
		if textnorm.ContainsAny(li.Label, keywords) {
			return li, true
		}
	}
	return model.LineItem{}, false
}

// Values returns item's value for each of n periods. A missing item reads as zeros.
func (c Catalogue) Values(st model.Statement, item Item, n int) []float64 {
	out := make([]float64, n)
	li, ok := c.Find(st, item)
	if !ok {
		return out
	}
	copy(out, li.Values)
	return out
}
