package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/internal/output"
)

func simulateExample(t *testing.T) *domain.SimulationResult {
	t.Helper()
	assets, params := loadParams(t)
	result, err := calculation.NewProjectionEngine(nil, nil, nil, nil).Run30YearSimulation(context.Background(), assets, params)
	require.NoError(t, err)
	result.Assumptions = output.GenerateAssumptions(params)
	return result
}

func TestGenerateReportEveryFormat(t *testing.T) {
	result := simulateExample(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			paths, err := output.GenerateReport(result, name, dir)
			require.NoError(t, err)
			require.Len(t, paths, 1)
			assert.True(t, strings.HasPrefix(filepath.Base(paths[0]), "runway_report_"))

			data, err := os.ReadFile(paths[0])
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestGenerateReportAll(t *testing.T) {
	result := simulateExample(t)
	dir := t.TempDir()

	paths, err := output.GenerateReport(result, "all", dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	csvData, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	// header plus one row per retained month
	assert.Len(t, lines, len(result.MonthlyData)+1)

	console, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(console), output.Outlook(result))
}

func TestGenerateReportRejectsUnknownFormat(t *testing.T) {
	result := simulateExample(t)
	_, err := output.GenerateReport(result, "pdf", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
}
