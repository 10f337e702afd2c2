// Package report exports an analysis as a standalone HTML document.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/cleared-dev/finstat/internal/assistant"
	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/pipeline"
)

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 72rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; }
td { text-align: right; }
td:first-child, td:nth-child(2) { text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown builds the report source: a heading, the optional summary, then the
// same tables and indicators the assistant sees.
func Markdown(sc pipeline.SessionContext, f format.Formatter, summary string, generated time.Time) (string, error) {
	if !sc.Ready() {
		return "", assistant.ErrNotReady
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title(sc))
	fmt.Fprintf(&b, "_Generated %s_\n\n", generated.Format("02/01/2006 15:04"))
	if s := CleanMarkdown(summary); s != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", s)
	}
	b.WriteString("## Analysis\n\n")
	b.WriteString(assistant.BuildContext(sc, f))
	return b.String(), nil
}

// WriteHTML renders the report to w.
func WriteHTML(w io.Writer, sc pipeline.SessionContext, f format.Formatter, summary string, generated time.Time) error {
	src, err := Markdown(sc, f, summary, generated)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	if err := md.Convert([]byte(src), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	err = page.Execute(w, struct {
		Lang  string
		Title string
		Body  template.HTML
	}{
		Lang:  string(f.Locale()),
		Title: title(sc),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// CleanMarkdown strips an outer code fence that models sometimes wrap answers in.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

func title(sc pipeline.SessionContext) string {
	return "Financial Analysis: " + sc.FileName
}
