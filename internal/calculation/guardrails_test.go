package calculation

import (
	"testing"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerEngine(t *testing.T) {
	engine := NewTriggerEngine()

	t.Run("Buffer", func(t *testing.T) {
		assert.Empty(t, engine.CheckBuffer(dec(240_000_000), dec(10_000_000)))
		sigs := engine.CheckBuffer(dec(239_999_999), dec(10_000_000))
		require.Len(t, sigs, 1)
		assert.Equal(t, domain.SignalBufferLow, sigs[0].Kind)
		assert.Equal(t, domain.TierCashBuffer, sigs[0].Asset)
		assert.Contains(t, sigs[0].Message, "24 months")
	})

	t.Run("Tax", func(t *testing.T) {
		assert.Empty(t, engine.CheckTax(dec(200_000_000)))
		sigs := engine.CheckTax(dec(200_000_001))
		require.Len(t, sigs, 1)
		assert.Equal(t, domain.SignalTaxWarning, sigs[0].Kind)
	})

	t.Run("Concentration", func(t *testing.T) {
		assert.Empty(t, engine.CheckConcentration(dec(0.40)))
		sigs := engine.CheckConcentration(dec(0.41))
		require.Len(t, sigs, 1)
		assert.Equal(t, domain.SignalConcentrationRisk, sigs[0].Kind)
	})

	t.Run("Market", func(t *testing.T) {
		assert.Empty(t, engine.CheckMarket(dec(-0.19)))
		sigs := engine.CheckMarket(dec(-0.20))
		require.Len(t, sigs, 1)
		assert.Equal(t, domain.SignalMarketPanic, sigs[0].Kind)
		assert.Equal(t, domain.LevelRed, sigs[0].Level)
		assert.Contains(t, sigs[0].Message, "-20.0%")
	})
}

func TestTriggerEngineCustomThresholds(t *testing.T) {
	engine := NewTriggerEngineWithConfig(TriggerConfig{BufferMonths: 6})
	assert.Empty(t, engine.CheckBuffer(dec(60), dec(10)))
	assert.Len(t, engine.CheckBuffer(dec(59), dec(10)), 1)
	assert.True(t, dec(200_000_000).Equal(engine.Config().TaxThreshold))
}

func TestCheckRebalanceCondition(t *testing.T) {
	engine := NewRebalanceEngine()
	weights := map[domain.AssetTier]decimal.Decimal{
		domain.TierGrowth: dec(0.50),
		domain.TierIncome: dec(0.50),
	}

	tests := []struct {
		name     string
		balances domain.TierBalances
		expected []domain.AssetTier
	}{
		{"Within band", domain.TierBalances{Growth: dec(470), Income: dec(530)}, nil},
		{"On the band edge", domain.TierBalances{Growth: dec(450), Income: dec(550)}, nil},
		{"Outside band", domain.TierBalances{Growth: dec(380), Income: dec(620)}, []domain.AssetTier{domain.TierGrowth, domain.TierIncome}},
		{"Empty portfolio", domain.TierBalances{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sigs := engine.CheckRebalanceCondition(tt.balances, weights)
			var got []domain.AssetTier
			for _, s := range sigs {
				assert.Equal(t, domain.SignalRebalanceRequired, s.Kind)
				got = append(got, s.Asset)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckRebalanceConditionOnePerTier(t *testing.T) {
	engine := NewRebalanceEngine()
	balances := domain.TierBalances{
		Growth:     dec(460),
		Income:     dec(250),
		Bond:       dec(150),
		CashBuffer: dec(140),
	}

	sigs := engine.CheckRebalanceCondition(balances, DefaultTargetWeights())
	require.Len(t, sigs, 2)

	assert.Equal(t, domain.TierGrowth, sigs[0].Asset)
	assert.Equal(t, domain.LevelYellow, sigs[0].Level)
	assert.True(t, dec(0.06).Equal(sigs[0].Deviation))
	assert.True(t, dec(0.46).Equal(sigs[0].CurrentWeight))
	assert.Contains(t, sigs[0].Message, "+6.0%p")
	for _, s := range sigs {
		assert.NotEmpty(t, s.Suggestion, "%s", s.Asset)
	}

	assert.Equal(t, domain.TierCashBuffer, sigs[1].Asset)
	assert.True(t, dec(-0.06).Equal(sigs[1].Deviation))
}

func TestCheckRebalanceConditionRedLevel(t *testing.T) {
	engine := NewRebalanceEngine()
	weights := map[domain.AssetTier]decimal.Decimal{domain.TierGrowth: dec(0.5), domain.TierIncome: dec(0.5)}

	sigs := engine.CheckRebalanceCondition(domain.TierBalances{Growth: dec(380), Income: dec(620)}, weights)
	require.Len(t, sigs, 2)
	for _, s := range sigs {
		assert.Equal(t, domain.LevelRed, s.Level)
	}
}

func TestFrictionCost(t *testing.T) {
	engine := NewRebalanceEngine()
	assert.True(t, dec(1_800_000).Equal(engine.FrictionCost(dec(100_000_000), dec(1), dec(1))))
	assert.True(t, engine.FrictionCost(dec(-5), dec(1), dec(1)).IsZero())
	assert.True(t, engine.FrictionCost(decimal.Zero, decimal.Zero, decimal.Zero).IsZero())
}

func TestApplyScenario(t *testing.T) {
	engine := NewStressTestEngine()
	yield := dec(0.04)
	base := baselineParams()
	base.DividendYield = &yield

	t.Run("Bear", func(t *testing.T) {
		got := engine.ApplyScenario(base, "BEAR")
		assert.True(t, dec(-0.30).Equal(got.MarketDrop))
		assert.Equal(t, domain.StressEventMarketCrash, got.StressEvent)
		assert.Equal(t, "BEAR", got.ActiveStressScenario)

		// everything else is untouched
		got.MarketDrop, got.StressEvent, got.ActiveStressScenario = base.MarketDrop, base.StressEvent, base.ActiveStressScenario
		assert.Equal(t, base, got)
	})

	t.Run("Stagflation", func(t *testing.T) {
		got := engine.ApplyScenario(base, "stagflation")
		assert.True(t, got.MarketReturnRate.IsZero())
		assert.True(t, dec(0.04).Equal(got.InflationRate))
		assert.Equal(t, domain.ScenarioStagflation, got.ActiveStressScenario)
	})

	t.Run("Dividend cut", func(t *testing.T) {
		got := engine.ApplyScenario(base, " DIVIDEND_CUT ")
		require.NotNil(t, got.DividendYield)
		assert.True(t, dec(0.03).Equal(*got.DividendYield))
		assert.True(t, dec(0.75).Equal(got.IncomeMultiplier))
		assert.True(t, dec(0.04).Equal(*base.DividendYield), "base yield must not change")
	})

	t.Run("Dividend cut without yield", func(t *testing.T) {
		got := engine.ApplyScenario(baselineParams(), "DIVIDEND_CUT")
		assert.Nil(t, got.DividendYield)
		assert.True(t, dec(0.75).Equal(got.IncomeMultiplier))
	})

	t.Run("Unknown scenario fails open", func(t *testing.T) {
		got := engine.ApplyScenario(base, "ALIENS")
		assert.Equal(t, "ALIENS", got.ActiveStressScenario)
		got.ActiveStressScenario = ""
		assert.Equal(t, base, got)
	})

	assert.Empty(t, base.ActiveStressScenario)
	assert.True(t, base.MarketDrop.IsZero())
}
