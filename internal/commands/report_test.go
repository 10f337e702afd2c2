package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_WritesHTML(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinstatIn(t, dir, "", "report", fixture(t, "bctc_2023.csv"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Wrote bctc_2023.html")

	data, err := os.ReadFile(filepath.Join(dir, "bctc_2023.html"))
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Financial Ratios")
	assert.NotContains(t, html, "Summary")
}

func TestReport_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "custom.html")

	out, err := runFinstatIn(t, dir, "", "report", fixture(t, "bs_only.csv"), "-o", dest)
	require.NoError(t, err, out)
	_, err = os.Stat(dest)
	require.NoError(t, err)
}

func TestReport_SummaryNeedsKey(t *testing.T) {
	out, err := runFinstat(t, "report", fixture(t, "bctc_2023.csv"), "--summary")
	require.Error(t, err)
	assert.Contains(t, out, "set GEMINI_API_KEY")
}

func TestSummarize_NeedsKey(t *testing.T) {
	out, err := runFinstat(t, "summarize", fixture(t, "bctc_2023.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "gemini API key not set")
}

func TestReport_Commit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	_, err := runFinstat(t, "init", dir, "--git")
	require.NoError(t, err)

	out, err := runFinstatIn(t, dir, "", "report", fixture(t, "bctc_2023.csv"), "--commit")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Committed ")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	logOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(logOut), "report: bctc_2023.csv")
}
