package server

import (
	"math"
	"time"

	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/model"
	"github.com/cleared-dev/finstat/internal/pipeline"
)

type periodResponse struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Header  string `json:"header"`
	Column  int    `json:"column"`
	Ordinal int    `json:"ordinal"`
}

type rowResponse struct {
	Label    string `json:"label"`
	Group    string `json:"group,omitempty"`
	Emphasis string `json:"emphasis,omitempty"`
	// Values are null where the figure is undefined.
	Values  []*float64 `json:"values"`
	Display []string   `json:"display"`
}

type tableResponse struct {
	Title   string        `json:"title"`
	Columns []string      `json:"columns"`
	Labels  []string      `json:"labels"`
	Rows    []rowResponse `json:"rows"`
}

type warningResponse struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

type analysisResponse struct {
	SessionID       string            `json:"session_id"`
	File            string            `json:"file"`
	LoadedAt        time.Time         `json:"loaded_at"`
	Periods         []periodResponse  `json:"periods"`
	BalanceSheet    tableResponse     `json:"balance_sheet"`
	IncomeStatement tableResponse     `json:"income_statement"`
	CostStructure   tableResponse     `json:"cost_structure"`
	Ratios          tableResponse     `json:"ratios"`
	Warnings        []warningResponse `json:"warnings"`
}

func newAnalysisResponse(sc pipeline.SessionContext, f format.Formatter) analysisResponse {
	a := sc.Analysis
	labels := a.PeriodLabels()
	resp := analysisResponse{
		SessionID:       sc.ID.String(),
		File:            sc.FileName,
		LoadedAt:        sc.LoadedAt,
		BalanceSheet:    newTableResponse(a.BalanceSheet, f, labels),
		IncomeStatement: newTableResponse(a.IncomeStatement, f, labels),
		CostStructure:   newTableResponse(a.CostStructure, f, labels),
		Ratios:          newTableResponse(a.Ratios, f, labels),
		Warnings:        []warningResponse{},
	}
	for i, p := range a.Periods {
		resp.Periods = append(resp.Periods, periodResponse{
			Key:     p.Key,
			Label:   p.DisplayLabel,
			Header:  p.OriginalHeader,
			Column:  p.Column,
			Ordinal: i + 1,
		})
	}
	for _, w := range a.Warnings {
		resp.Warnings = append(resp.Warnings, warningResponse{Stage: w.Stage, Message: w.Message})
	}
	return resp
}

var emphasisNames = map[format.Emphasis]string{
	format.Bold:   "bold",
	format.Italic: "italic",
}

func newTableResponse(t model.Table, f format.Formatter, periods []string) tableResponse {
	resp := tableResponse{
		Title:   t.Title,
		Columns: t.Columns,
		Labels:  format.ColumnLabels(t.Columns, periods),
		Rows:    []rowResponse{},
	}
	for _, r := range t.Rows {
		row := rowResponse{
			Label:   r.Label,
			Group:   r.Group,
			Values:  make([]*float64, len(r.Values)),
			Display: make([]string, len(r.Values)),
		}
		if r.Group == "" {
			row.Emphasis = emphasisNames[format.EmphasisFor(r.Label)]
		}
		for i, v := range r.Values {
			if !model.IsUndefined(v) && !math.IsInf(v, 0) {
				row.Values[i] = &v
			}
			row.Display[i] = f.Cell(t, r, i)
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}
