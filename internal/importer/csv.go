package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/finstat/internal/model"
)

// CSVLoader reads comma-separated exports. Numeric-looking fields become numbers.
type CSVLoader struct{}

// Format returns the loader name.
func (l *CSVLoader) Format() string { return "csv" }

// Load reads every record; rows may be ragged.
func (l *CSVLoader) Load(r io.Reader) (model.RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("reading CSV: %w", err)
	}

	rows := make([][]model.Cell, len(records))
	for i, rec := range records {
		cells := make([]model.Cell, len(rec))
		for j, field := range rec {
			if i == 0 && j == 0 {
				field = strings.TrimPrefix(field, "\ufeff")
			}
			cells[j] = model.InferCell(field)
		}
		rows[i] = cells
	}
	return fromRows(rows), nil
}
