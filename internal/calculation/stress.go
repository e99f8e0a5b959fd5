package calculation

import (
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

// StressConfig holds the scenario magnitudes. Zero values take the defaults.
type StressConfig struct {
	BearDrop              decimal.Decimal `yaml:"bear_market_drop" json:"bear_market_drop"`
	StagflationRate       decimal.Decimal `yaml:"stagflation_rate" json:"stagflation_rate"`
	DividendCutMultiplier decimal.Decimal `yaml:"dividend_cut_multiplier" json:"dividend_cut_multiplier"`
}

// DefaultStressConfig returns a 30% crash, 4% stagflation and a 25% dividend cut.
func DefaultStressConfig() StressConfig {
	return StressConfig{
		BearDrop:              decimal.NewFromFloat(-0.30),
		StagflationRate:       decimal.NewFromFloat(0.04),
		DividendCutMultiplier: decimal.NewFromFloat(0.75),
	}
}

// Scenarios lists the scenario ids ApplyScenario understands.
var Scenarios = []string{domain.ScenarioBear, domain.ScenarioStagflation, domain.ScenarioDividendCut}

// StressTestEngine derives stressed parameter bundles from a base bundle.
type StressTestEngine struct {
	cfg StressConfig
}

// NewStressTestEngine creates a stress engine with default magnitudes
func NewStressTestEngine() *StressTestEngine {
	return NewStressTestEngineWithConfig(DefaultStressConfig())
}

// NewStressTestEngineWithConfig creates a stress engine, filling zero fields with defaults
func NewStressTestEngineWithConfig(cfg StressConfig) *StressTestEngine {
	def := DefaultStressConfig()
	if cfg.BearDrop.IsZero() {
		cfg.BearDrop = def.BearDrop
	}
	if cfg.StagflationRate.IsZero() {
		cfg.StagflationRate = def.StagflationRate
	}
	if cfg.DividendCutMultiplier.IsZero() {
		cfg.DividendCutMultiplier = def.DividendCutMultiplier
	}
	return &StressTestEngine{cfg: cfg}
}

// Config returns the effective magnitudes.
func (se *StressTestEngine) Config() StressConfig { return se.cfg }

// ApplyScenario returns a copy of base with the scenario's overrides. The input is
// never modified. Unknown ids change nothing except the recorded scenario tag.
func (se *StressTestEngine) ApplyScenario(base domain.SimulationParams, scenarioID string) domain.SimulationParams {
	params := base.Clone()
	id := domain.NormalizeScenarioID(scenarioID)

	switch id {
	case domain.ScenarioBear:
		params.StressEvent = domain.StressEventMarketCrash
		params.MarketDrop = se.cfg.BearDrop
	case domain.ScenarioStagflation:
		params.MarketReturnRate = decimal.Zero
		params.InflationRate = se.cfg.StagflationRate
	case domain.ScenarioDividendCut:
		if params.DividendYield != nil {
			cut := params.DividendYield.Mul(se.cfg.DividendCutMultiplier)
			params.DividendYield = &cut
		}
		params.IncomeMultiplier = se.cfg.DividendCutMultiplier
	}

	params.ActiveStressScenario = id
	return params
}
