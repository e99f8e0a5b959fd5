package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runway.yaml")
	out, err := execute(t, "example-config", path)
	require.NoError(t, err)
	require.Contains(t, out, "Example configuration written to")
	return path
}

func TestSimulateSummaryCSV(t *testing.T) {
	path := writeExample(t)
	out, err := execute(t, "--data-dir", t.TempDir(), "simulate", "-c", path, "--format", "csv-summary")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,SurvivalMonths"))
	assert.True(t, strings.HasPrefix(lines[1], "BASE,360,30,true"), lines[1])
}

func TestSimulateScenarioAndMonths(t *testing.T) {
	path := writeExample(t)
	out, err := execute(t, "--data-dir", t.TempDir(), "simulate", "-c", path, "--scenario", "stagflation", "--months", "24", "--format", "detailed-csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 25)
}

func TestSimulateReportsMissingSettings(t *testing.T) {
	_, err := execute(t, "--data-dir", t.TempDir(), "simulate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing settings: target_monthly_cashflow")
}

func TestSimulateUnknownFormat(t *testing.T) {
	path := writeExample(t)
	_, err := execute(t, "--data-dir", t.TempDir(), "simulate", "-c", path, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestSimulateWritesReportFiles(t *testing.T) {
	path := writeExample(t)
	dir := t.TempDir()
	out, err := execute(t, "--data-dir", t.TempDir(), "simulate", "-c", path, "--format", "all", "-o", dir)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Report written to"))

	files, err := filepath.Glob(filepath.Join(dir, "runway_report_*"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestConfigImportThenCompareFromStore(t *testing.T) {
	path := writeExample(t)
	dataDir := t.TempDir()

	out, err := execute(t, "--data-dir", dataDir, "config", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Stored settings")

	out, err = execute(t, "--data-dir", dataDir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "active_assumption_id: v1")

	out, err = execute(t, "--data-dir", dataDir, "compare")
	require.NoError(t, err)
	assert.Contains(t, out, "Preferred: corporate holding")

	out, err = execute(t, "--data-dir", dataDir, "compare", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"preferred": "CORP"`)

	_, err = execute(t, "--data-dir", dataDir, "config", "clear")
	require.NoError(t, err)
	_, err = execute(t, "--data-dir", dataDir, "config", "show")
	assert.ErrorContains(t, err, "no settings stored")
}

func TestFriction(t *testing.T) {
	out, err := execute(t, "friction", "--sell", "100000000")
	require.NoError(t, err)
	assert.Contains(t, out, "₩1,800,000")

	_, err = execute(t, "friction", "--sell", "lots")
	assert.Error(t, err)
}

func TestExampleConfigToStdout(t *testing.T) {
	out, err := execute(t, "example-config")
	require.NoError(t, err)
	assert.Contains(t, out, "user_profile:")
	assert.Contains(t, out, "planned_cashflows:")
}
