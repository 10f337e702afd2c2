package assistant

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/lineitem"
	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/pipeline"
	"github.com/cleared-dev/finstat/internal/ratio"
	"github.com/cleared-dev/finstat/internal/textnorm"
)

// TitleHighlights heads the key-indicator section of the context.
const TitleHighlights = "Key Indicators"

// BuildContext serializes the session's analysis into the markdown blob handed to
// the model: a preamble, one section per derived table, and the key indicators.
// It returns "" when no analysis is loaded.
func BuildContext(sc pipeline.SessionContext, f format.Formatter) string {
	if !sc.Ready() {
		return ""
	}
	a := sc.Analysis
	labels := a.PeriodLabels()

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", sc.FileName)
	fmt.Fprintf(&b, "Periods (oldest first): %s\n\n", strings.Join(labels, ", "))
	for _, t := range a.Tables() {
		b.WriteString(format.Markdown(t, f, labels))
		b.WriteString("\n")
	}
	b.WriteString(Highlights(a, f))

	if len(a.Warnings) > 0 {
		b.WriteString("\n### Data Warnings\n\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

// Highlights lists short-term asset growth and the current ratio per period.
func Highlights(a *model.Analysis, f format.Formatter) string {
	labels := a.PeriodLabels()

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", TitleHighlights)

	keywords := lineitem.DefaultCatalogue()[lineitem.ShortTermAssets]
	for _, r := range a.BalanceSheet.Rows {
		if !textnorm.ContainsAny(r.Label, keywords) {
			continue
		}
		for k := 1; k < len(labels); k++ {
			if v, ok := a.BalanceSheet.Value(r.Label, ratio.GrowthName(k)); ok {
				fmt.Fprintf(&b, "- Short-term Assets growth %s -> %s: %s\n", labels[k-1], labels[k], orZero(f.Percent(v)))
			}
		}
		break
	}

	for k, label := range labels {
		if v, ok := a.Ratios.Value(ratio.CurrentRatio, model.PeriodName(k+1)); ok {
			fmt.Fprintf(&b, "- Current Ratio %s: %s\n", label, orZero(f.Ratio(v)))
		}
	}
	return b.String()
}

// orZero spells out zero, which the formatter renders blank.
func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
