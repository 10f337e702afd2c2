// Package pipeline runs a loaded sheet through period resolution, statement splitting,
// row cleaning and ratio derivation.
package pipeline

import (
	"fmt"

	"github.com/cleared-dev/finstat/internal/lineitem"
	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/period"
	"github.com/cleared-dev/finstat/internal/ratio"
	"github.com/cleared-dev/finstat/internal/statement"
)

// StageRun names warnings raised by the pipeline itself.
const StageRun = "pipeline"

// Options configures a run.
type Options struct {
	Periods   int
	Split     statement.SplitOptions
	Catalogue lineitem.Catalogue
}

// DefaultOptions compares two periods using the Vietnamese keywords.
func DefaultOptions() Options {
	return Options{
		Periods:   period.MinPeriods,
		Split:     statement.DefaultSplitOptions(),
		Catalogue: lineitem.DefaultCatalogue(),
	}
}

// Run derives a full Analysis from t. Only a period shortfall (or an invalid period
// count) fails the run; every other problem becomes a warning on the result.
// A shortfall wraps *period.CountError.
func Run(t model.RawTable, opts Options) (*model.Analysis, error) {
	periods, err := period.Resolve(t.HeaderStrings(), opts.Periods)
	if err != nil {
		return nil, fmt.Errorf("resolving periods: %w", err)
	}

	bsRaw, isRaw, warnings := statement.Split(t, opts.Split)

	bs, w := statement.Clean(model.BalanceSheet, bsRaw, periods)
	warnings = append(warnings, w...)
	is, w := statement.Clean(model.IncomeStatement, isRaw, periods)
	warnings = append(warnings, w...)

	if bs.Empty() {
		warnings = append(warnings, model.Warning{Stage: StageRun, Message: "balance sheet has no line items; balance-sheet ratios read as zero"})
	}
	if is.Empty() {
		warnings = append(warnings, model.Warning{Stage: StageRun, Message: "income statement has no line items; income-statement ratios read as zero"})
	}

	res := ratio.Compute(ratio.Input{
		BalanceSheet:    bs,
		IncomeStatement: is,
		Periods:         periods,
		Catalogue:       opts.Catalogue,
	})

	return &model.Analysis{
		Periods:         periods,
		BalanceSheet:    res.BalanceSheet,
		IncomeStatement: res.IncomeStatement,
		CostStructure:   res.CostStructure,
		Ratios:          res.Ratios,
		Warnings:        append(warnings, res.Warnings...),
	}, nil
}
