package format

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/finstat/internal/textnorm"
)

// Emphasis is the visual weight of a statement row.
type Emphasis int

const (
	Plain Emphasis = iota
	Bold
	Italic
)

// sectionMarker matches "A. ", "B) ", "IV. " style section prefixes.
var sectionMarker = regexp.MustCompile(`^(?:[A-Z]|[IVXL]+)[.)]\s`)

var totalKeywords = []string{"TỔNG", "TOTAL"}

var detailPrefixes = []string{"-", "+", "Trong đó", "Of which"}

// EmphasisFor picks a row's emphasis from its label: section headings and totals
// are bold, named sub-details are italic.
func EmphasisFor(label string) Emphasis {
	label = strings.TrimSpace(label)
	if sectionMarker.MatchString(label) || textnorm.ContainsAny(label, totalKeywords) {
		return Bold
	}
	folded := textnorm.Fold(label)
	for _, p := range detailPrefixes {
		if strings.HasPrefix(folded, textnorm.Fold(p)) {
			return Italic
		}
	}
	return Plain
}

// Markdown wraps label in markdown emphasis markers.
func (e Emphasis) Markdown(label string) string {
	switch e {
	case Bold:
		return "**" + label + "**"
	case Italic:
		return "*" + label + "*"
	default:
		return label
	}
}
