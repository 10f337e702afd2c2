package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cleared-dev/finstat/internal/model"
)

// ColumnLabels replaces the canonical "Period k" names in cols with the resolved
// period display labels, including inside derived names like "Vertical % Period k".
func ColumnLabels(cols []string, periods []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c
		for k := len(periods); k >= 1; k-- {
			name := model.PeriodName(k)
			if c == name || strings.HasSuffix(c, " "+name) {
				out[i] = strings.TrimSuffix(c, name) + periods[k-1]
				break
			}
		}
	}
	return out
}

// WriteTable writes t as aligned text columns. Italic detail rows are indented.
func WriteTable(w io.Writer, t model.Table, f Formatter, periods []string) error {
	if _, err := fmt.Fprintf(w, "%s\n", t.Title); err != nil {
		return err
	}
	if t.Empty() {
		_, err := fmt.Fprintln(w, "  (no data)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := ColumnLabels(t.Columns, periods)
	fmt.Fprintf(tw, "%s\t%s\t\n", model.LabelColumn, strings.Join(cols, "\t"))

	group := ""
	for _, r := range t.Rows {
		if r.Group != "" && r.Group != group {
			group = r.Group
			fmt.Fprintf(tw, "%s\t%s\t\n", "["+group+"]", strings.Repeat("\t", len(cols)-1))
		}
		label := r.Label
		if EmphasisFor(label) == Italic {
			label = "  " + label
		}
		cells := make([]string, len(cols))
		for i := range cols {
			cells[i] = f.Cell(t, r, i)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteMarkdown writes t as a markdown section: a heading and a pipe table.
func WriteMarkdown(w io.Writer, t model.Table, f Formatter, periods []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", t.Title)
	if t.Empty() {
		b.WriteString("_No data._\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	cols := ColumnLabels(t.Columns, periods)
	header := append([]string{model.LabelColumn}, cols...)
	if hasGroups(t) {
		header = append([]string{"Group"}, header...)
	}
	writeRow(&b, header)

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---:"
		if i < len(header)-len(cols) {
			sep[i] = "---"
		}
	}
	writeRow(&b, sep)

	for _, r := range t.Rows {
		cells := []string{EmphasisFor(r.Label).Markdown(escape(r.Label))}
		if hasGroups(t) {
			cells = append([]string{r.Group}, cells...)
		}
		for i := range cols {
			cells = append(cells, f.Cell(t, r, i))
		}
		writeRow(&b, cells)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown renders t with WriteMarkdown into a string.
func Markdown(t model.Table, f Formatter, periods []string) string {
	var b strings.Builder
	_ = WriteMarkdown(&b, t, f, periods)
	return b.String()
}

func hasGroups(t model.Table) bool {
	for _, r := range t.Rows {
		if r.Group != "" {
			return true
		}
	}
	return false
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
