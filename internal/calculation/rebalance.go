package calculation

import (
	"fmt"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

// RebalanceConfig holds the deviation threshold and the friction cost assumptions.
type RebalanceConfig struct {
	DeviationThreshold decimal.Decimal `yaml:"deviation_threshold" json:"deviation_threshold"`
	CorpTaxRate        decimal.Decimal `yaml:"corp_tax_rate" json:"corp_tax_rate"`
	AssumedProfitRatio decimal.Decimal `yaml:"assumed_profit_ratio" json:"assumed_profit_ratio"`
}

// DefaultRebalanceConfig returns a 5 percentage point band and a 9% tax on an assumed 20% gain.
func DefaultRebalanceConfig() RebalanceConfig {
	return RebalanceConfig{
		DeviationThreshold: decimal.NewFromFloat(0.05),
		CorpTaxRate:        decimal.NewFromFloat(0.09),
		AssumedProfitRatio: decimal.NewFromFloat(0.20),
	}
}

// DefaultTargetWeights is the strategic allocation checked once a year.
func DefaultTargetWeights() map[domain.AssetTier]decimal.Decimal {
	return map[domain.AssetTier]decimal.Decimal{
		domain.TierGrowth:     decimal.NewFromFloat(0.40),
		domain.TierIncome:     decimal.NewFromFloat(0.25),
		domain.TierBond:       decimal.NewFromFloat(0.15),
		domain.TierCashBuffer: decimal.NewFromFloat(0.20),
	}
}

// RebalanceEngine compares tier weights to targets and prices hypothetical sales.
type RebalanceEngine struct {
	cfg RebalanceConfig
}

// NewRebalanceEngine creates a rebalance engine with default settings
func NewRebalanceEngine() *RebalanceEngine {
	return NewRebalanceEngineWithConfig(DefaultRebalanceConfig())
}

// NewRebalanceEngineWithConfig creates a rebalance engine, filling zero fields with defaults
func NewRebalanceEngineWithConfig(cfg RebalanceConfig) *RebalanceEngine {
	def := DefaultRebalanceConfig()
	if cfg.DeviationThreshold.IsZero() {
		cfg.DeviationThreshold = def.DeviationThreshold
	}
	if cfg.CorpTaxRate.IsZero() {
		cfg.CorpTaxRate = def.CorpTaxRate
	}
	if cfg.AssumedProfitRatio.IsZero() {
		cfg.AssumedProfitRatio = def.AssumedProfitRatio
	}
	return &RebalanceEngine{cfg: cfg}
}

// Config returns the effective settings.
func (re *RebalanceEngine) Config() RebalanceConfig { return re.cfg }

// CheckRebalanceCondition emits one REBALANCE_REQUIRED signal per tier whose weight
// is off target by more than the threshold. Tiers are visited in canonical order.
func (re *RebalanceEngine) CheckRebalanceCondition(balances domain.TierBalances, targetWeights map[domain.AssetTier]decimal.Decimal) []domain.Signal {
	total := balances.Total()
	if !total.IsPositive() {
		return nil
	}

	redBand := re.cfg.DeviationThreshold.Mul(decimal.NewFromInt(2))
	var signals []domain.Signal
	for _, tier := range domain.AllTiers {
		target, ok := targetWeights[tier]
		if !ok {
			continue
		}
		current := balances.Get(tier).Div(total)
		deviation := current.Sub(target)
		if deviation.Abs().LessThanOrEqual(re.cfg.DeviationThreshold) {
			continue
		}

		level := domain.LevelYellow
		if deviation.Abs().GreaterThan(redBand) {
			level = domain.LevelRed
		}
		signals = append(signals, domain.Signal{
			Kind:  domain.SignalRebalanceRequired,
			Level: level,
			Asset: tier,
			Message: fmt.Sprintf("%s weight is %s%%p off its %s%% target",
				tier, signedPercent(deviation), target.Shift(2).StringFixed(1)),
			Suggestion:    "review tier weights and the tax cost of rebalancing",
			CurrentWeight: current.Round(4),
			TargetWeight:  target,
			Deviation:     deviation.Round(4),
		})
	}
	return signals
}

// FrictionCost estimates the corporate tax a sale would trigger, assuming a fixed
// share of the sale is gain. The flat-ratio model ignores cost basis and price.
func (re *RebalanceEngine) FrictionCost(sellAmount, costBasis, currentPrice decimal.Decimal) decimal.Decimal {
	cost := sellAmount.Mul(re.cfg.AssumedProfitRatio).Mul(re.cfg.CorpTaxRate)
	return decimal.Max(decimal.Zero, cost)
}

func signedPercent(v decimal.Decimal) string {
	s := v.Shift(2).StringFixed(1)
	if v.IsPositive() {
		return "+" + s
	}
	return s
}
