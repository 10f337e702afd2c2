package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_PrintsAllTables(t *testing.T) {
	out, err := runFinstat(t, "analyze", fixture(t, "bctc_2023.csv"))
	require.NoError(t, err, out)

	for _, want := range []string{
		"== bctc_2023.csv ==",
		"Periods: 31/12/2022, 31/12/2023",
		"Balance Sheet",
		"Income Statement",
		"Cost Structure (% of Net Revenue)",
		"Financial Ratios",
		"[Liquidity]",
		"1.000",
		"1,50",
	} {
		assert.Contains(t, out, want)
	}
}

func TestAnalyze_EnglishLocale(t *testing.T) {
	out, err := runFinstat(t, "analyze", "--locale", "en", fixture(t, "bctc_2023.csv"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "1,000")
	assert.Contains(t, out, "1.50")
}

func TestAnalyze_Markdown(t *testing.T) {
	out, err := runFinstat(t, "analyze", "--markdown", fixture(t, "bctc_2023.csv"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "### Financial Ratios")
	assert.Contains(t, out, "| Group |")
}

func TestAnalyze_ThreePeriods(t *testing.T) {
	out, err := runFinstat(t, "analyze", "--periods", "3", fixture(t, "bctc_3y.csv"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Periods: 2021, 2022, 2023")
	assert.Contains(t, out, "Delta (3 vs 2)")
}

func TestAnalyze_InsufficientPeriods(t *testing.T) {
	out, err := runFinstat(t, "analyze", "--periods", "3", fixture(t, "bctc_2023.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "found 2 period columns, need 3")
	assert.Contains(t, out, "1 of 1 files failed")
}

func TestAnalyze_KeepsArgumentOrder(t *testing.T) {
	out, err := runFinstat(t, "analyze", fixture(t, "bs_only.csv"), fixture(t, "bctc_2023.csv"))
	require.NoError(t, err, out)

	first := strings.Index(out, "== bs_only.csv ==")
	second := strings.Index(out, "== bctc_2023.csv ==")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Contains(t, out, "warning: ")
}

func TestAnalyze_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o644))

	out, err := runFinstat(t, "analyze", bad, fixture(t, "bctc_2023.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "unsupported file type")
	assert.Contains(t, out, "Financial Ratios")
	assert.Contains(t, out, "1 of 2 files failed")
}

func TestAnalyze_Dir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bctc_2023.csv", "bs_only.csv"} {
		data, err := os.ReadFile(fixture(t, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	out, err := runFinstat(t, "analyze", "--dir", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "== bctc_2023.csv ==")
	assert.Contains(t, out, "== bs_only.csv ==")
	assert.NotContains(t, out, "readme.md")
}

func TestAnalyze_NoInput(t *testing.T) {
	out, err := runFinstat(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, out, "no input files")
}
