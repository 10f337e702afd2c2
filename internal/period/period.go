// Package period resolves which spreadsheet columns hold reporting periods.
package period

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cleared-dev/finstat/internal/model"
)

// Kind distinguishes full-date period keys from bare years.
type Kind int

const (
	KindDate Kind = iota + 1
	KindYear
)

// Candidate is a header recognised as a reporting period.
type Candidate struct {
	Key  string // normalized "YYYY-MM-DD" or "YYYY"
	Kind Kind
}

// MinPeriods and MaxPeriods bound the configurable period count.
const (
	MinPeriods = 2
	MaxPeriods = 4
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearPattern = regexp.MustCompile(`^20\d{2}$`)
)

// ErrTooFewPeriods is returned when fewer distinct period headers exist than required.
var ErrTooFewPeriods = errors.New("too few period columns")

// CountError reports how many period columns were found versus required.
type CountError struct {
	Found    int
	Required int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("found %d period columns, need %d", e.Found, e.Required)
}

func (e *CountError) Unwrap() error { return ErrTooFewPeriods }

// Normalize trims the header and strips a trailing time-of-day suffix when the
// text before the first space is a full date ("2023-12-31 00:00:00" -> "2023-12-31").
func Normalize(header string) string {
	s := strings.TrimSpace(header)
	if i := strings.IndexByte(s, ' '); i > 0 && datePattern.MatchString(s[:i]) {
		return s[:i]
	}
	return s
}

// ClassifyColumn reports whether header names a reporting period.
// The whole normalized header must match; embedded dates do not count.
func ClassifyColumn(header string) (Candidate, bool) {
	key := Normalize(header)
	switch {
	case datePattern.MatchString(key):
		return Candidate{Key: key, Kind: KindDate}, true
	case yearPattern.MatchString(key):
		return Candidate{Key: key, Kind: KindYear}, true
	default:
		return Candidate{}, false
	}
}

// DisplayLabel renders a period key for people: dates as DD/MM/YYYY, years unchanged.
func DisplayLabel(key string) string {
	if !datePattern.MatchString(key) {
		return key
	}
	return key[8:10] + "/" + key[5:7] + "/" + key[0:4]
}

// Resolve picks the n most recent distinct period columns from headers and returns
// them oldest first. Duplicate keys keep the first header seen.
func Resolve(headers []string, n int) ([]model.PeriodColumn, error) {
	if n < MinPeriods || n > MaxPeriods {
		return nil, fmt.Errorf("period count %d outside %d..%d", n, MinPeriods, MaxPeriods)
	}

	seen := make(map[string]model.PeriodColumn)
	var keys []string
	for i, h := range headers {
		c, ok := ClassifyColumn(h)
		if !ok {
			continue
		}
		if _, dup := seen[c.Key]; dup {
			continue
		}
		seen[c.Key] = model.PeriodColumn{
			Key:            c.Key,
			OriginalHeader: h,
			DisplayLabel:   DisplayLabel(c.Key),
			Column:         i,
		}
		keys = append(keys, c.Key)
	}

	if len(keys) < n {
		return nil, &CountError{Found: len(keys), Required: n}
	}

	// Zero-padded ISO keys sort chronologically as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	newest := keys[:n]

	out := make([]model.PeriodColumn, n)
	for i, k := range newest {
		out[n-1-i] = seen[k]
	}
	return out, nil
}
