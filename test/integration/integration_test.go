package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/domain"
)

const exampleConfig = "../testdata/example_config.yaml"

func loadParams(t *testing.T) (domain.InitialAssets, domain.SimulationParams) {
	t.Helper()
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(exampleConfig)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assets, params, err := parser.BuildParams(cfg)
	require.NoError(t, err)
	return assets, params
}

func TestEndToEndCalculation(t *testing.T) {
	assets, params := loadParams(t)
	assert.True(t, decimal.NewFromInt(9_000_000).Equal(params.TargetMonthlyCashflow))
	assert.Len(t, params.PlannedCashflows, 1)

	engine := calculation.NewProjectionEngine(nil, nil, nil, nil)
	result, err := engine.Run30YearSimulation(context.Background(), assets, params)
	require.NoError(t, err)

	assert.Equal(t, calculation.StandardHorizonMonths, result.SurvivalMonths)
	assert.Equal(t, 30, result.Summary.TotalSurvivalYears)
	assert.True(t, result.Summary.IsPermanent)
	require.Len(t, result.MonthlyData, calculation.StandardHorizonMonths)

	for _, snap := range result.MonthlyData {
		assert.True(t, snap.NetWorth.Equal(snap.CorpBalance.Add(snap.PensionBalance)), "month %d", snap.Month)
		assert.False(t, snap.Tiers.CashBuffer.IsNegative(), "month %d", snap.Month)
	}
	last := result.MonthlyData[len(result.MonthlyData)-1]
	assert.True(t, result.Summary.FinalNetWorth.Equal(last.NetWorth))
}

func TestSimulationIsDeterministic(t *testing.T) {
	assets, params := loadParams(t)
	engine := calculation.NewProjectionEngine(nil, nil, nil, nil)

	first, err := engine.Run30YearSimulation(context.Background(), assets, params)
	require.NoError(t, err)
	second, err := engine.Run30YearSimulation(context.Background(), assets, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStressScenariosFromConfig(t *testing.T) {
	assets, params := loadParams(t)
	engine := calculation.NewProjectionEngine(nil, nil, nil, nil)
	stress := calculation.NewStressTestEngine()

	base, err := engine.Run30YearSimulation(context.Background(), assets, params)
	require.NoError(t, err)

	for _, id := range []string{domain.ScenarioBear, domain.ScenarioStagflation} {
		t.Run(id, func(t *testing.T) {
			stressed := stress.ApplyScenario(params, id)
			result, err := engine.Run30YearSimulation(context.Background(), assets, stressed)
			require.NoError(t, err)

			assert.Equal(t, id, result.Summary.ActiveStressScenario)
			assert.LessOrEqual(t, result.SurvivalMonths, base.SurvivalMonths)
			assert.True(t, result.Summary.FinalNetWorth.LessThan(base.Summary.FinalNetWorth),
				"%s final %s, base %s", id, result.Summary.FinalNetWorth, base.Summary.FinalNetWorth)
		})
	}

	// the base params must be untouched by scenario application
	assert.Empty(t, params.ActiveStressScenario)
}

func TestSwitchingActiveAssumption(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(exampleConfig)
	require.NoError(t, err)

	cfg.ActiveAssumptionID = "conservative"
	_, params, err := parser.BuildParams(cfg)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(0.035).Equal(params.InflationRate))
	assert.True(t, decimal.NewFromFloat(0.035).Equal(params.MarketReturnRate))

	cfg.ActiveAssumptionID = "missing"
	_, _, err = parser.BuildParams(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
