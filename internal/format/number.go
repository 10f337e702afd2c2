// Package format renders derived tables for people: locale-aware numbers, row
// emphasis, and terminal or markdown tables. Nothing here changes a value.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/ratio"
)

// Locale selects separators.
type Locale string

const (
	Vietnamese Locale = "vi" // 1.234.567,89
	English    Locale = "en" // 1,234,567.89
)

// NotAvailable renders an undefined value.
const NotAvailable = "N/A"

// ParseLocale validates a locale name.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case Vietnamese, English:
		return l, nil
	default:
		return "", fmt.Errorf("unknown locale %q (want vi or en)", s)
	}
}

// Formatter renders numbers for one locale.
type Formatter struct {
	locale Locale
}

// New returns a Formatter; an unknown locale renders as Vietnamese.
func New(l Locale) Formatter {
	if l != English {
		l = Vietnamese
	}
	return Formatter{locale: l}
}

// Locale returns the formatter's locale.
func (f Formatter) Locale() Locale { return f.locale }

// Number renders an amount with no decimals.
func (f Formatter) Number(v float64) string {
	return f.fixed(v, 0, "")
}

// Ratio renders a multiple with two decimals.
func (f Formatter) Ratio(v float64) string {
	return f.fixed(v, 2, "")
}

// Percent renders a percentage with two decimals and a % suffix.
func (f Formatter) Percent(v float64) string {
	return f.fixed(v, 2, "%")
}

// fixed rounds half away from zero, groups thousands, and wraps negatives in
// parentheses. Zero renders blank.
func (f Formatter) fixed(v float64, places int32, suffix string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	if v == 0 {
		return ""
	}
	d := decimal.NewFromFloat(v).Round(places)
	s := f.group(d.Abs().StringFixed(places)) + suffix
	if d.IsNegative() {
		return "(" + s + ")"
	}
	return s
}

// group inserts locale separators into an unsigned fixed-point string.
func (f Formatter) group(fixed string) string {
	sep, point := ",", "."
	if f.locale == Vietnamese {
		sep, point = ".", ","
	}
	intPart, frac, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteString(point)
		b.WriteString(frac)
	}
	return b.String()
}

// Cell renders row r's value in column col of table t, choosing the style from
// the table and column: cost structure and "%" columns or ratios are percentages,
// other ratios are multiples, and statement amounts are whole numbers.
func (f Formatter) Cell(t model.Table, r model.Row, col int) string {
	if col < 0 || col >= len(r.Values) || col >= len(t.Columns) {
		return ""
	}
	v := r.Values[col]
	switch {
	case t.Title == ratio.TitleCostStructure:
		return f.Percent(v)
	case r.Group != "":
		if strings.HasSuffix(r.Label, "%") {
			return f.Percent(v)
		}
		return f.Ratio(v)
	case strings.Contains(t.Columns[col], "%"):
		return f.Percent(v)
	default:
		return f.Number(v)
	}
}
