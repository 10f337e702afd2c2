package ratio

import (
	"fmt"

	"github.com/cleared-dev/finstat/internal/model"
)

// DeltaName is the column holding value[k+1] - value[k].
func DeltaName(k int) string {
	return fmt.Sprintf("Delta (%d vs %d)", k+1, k)
}

// GrowthName is the column holding the growth % from period k to k+1.
func GrowthName(k int) string {
	return fmt.Sprintf("Growth (%d vs %d) %%", k+1, k)
}

// VerticalName is the column holding period k as a % of Total Assets.
func VerticalName(k int) string {
	return fmt.Sprintf("Vertical %% Period %d", k)
}

func periodColumns(n int) []string {
	cols := make([]string, n)
	for k := 1; k <= n; k++ {
		cols[k-1] = model.PeriodName(k)
	}
	return cols
}

func deltaGrowthColumns(n int) []string {
	var cols []string
	for k := 1; k < n; k++ {
		cols = append(cols, DeltaName(k), GrowthName(k))
	}
	return cols
}

func verticalColumns(n int) []string {
	cols := make([]string, n)
	for k := 1; k <= n; k++ {
		cols[k-1] = VerticalName(k)
	}
	return cols
}

func deltaColumns(n int) []string {
	var cols []string
	for k := 1; k < n; k++ {
		cols = append(cols, DeltaName(k))
	}
	return cols
}
