// Package textnorm folds spreadsheet text for keyword matching.
//
// Vietnamese labels arrive in either precomposed or decomposed form depending on the
// tool that produced the file, so every comparison goes through NFC plus Unicode case
// folding rather than strings.ToLower alone.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s normalized to NFC and case-folded.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Contains reports whether keyword occurs in s, ignoring case and Unicode composition.
// An empty keyword never matches.
func Contains(s, keyword string) bool {
	if strings.TrimSpace(keyword) == "" {
		return false
	}
	return strings.Contains(Fold(s), Fold(keyword))
}

// ContainsAny reports whether any keyword occurs in s.
func ContainsAny(s string, keywords []string) bool {
	folded := Fold(s)
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if strings.Contains(folded, Fold(k)) {
			return true
		}
	}
	return false
}
