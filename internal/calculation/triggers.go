package calculation

import (
	"fmt"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

// TriggerConfig holds the guardrail thresholds. Zero values take the defaults.
type TriggerConfig struct {
	TaxThreshold         decimal.Decimal `yaml:"tax_threshold" json:"tax_threshold"`
	BufferMonths         int             `yaml:"buffer_months" json:"buffer_months"`
	HighIncomeCap        decimal.Decimal `yaml:"high_income_cap" json:"high_income_cap"`
	MarketPanicThreshold decimal.Decimal `yaml:"market_panic_threshold" json:"market_panic_threshold"`
}

// DefaultTriggerConfig returns the standard guardrails.
func DefaultTriggerConfig() TriggerConfig {
	return TriggerConfig{
		TaxThreshold:         decimal.NewFromInt(200_000_000),
		BufferMonths:         24,
		HighIncomeCap:        decimal.NewFromFloat(0.40),
		MarketPanicThreshold: decimal.NewFromFloat(-0.20),
	}
}

// TriggerEngine evaluates the guardrail checks. Each check returns at most one signal.
type TriggerEngine struct {
	cfg TriggerConfig
}

// NewTriggerEngine creates a trigger engine with default thresholds
func NewTriggerEngine() *TriggerEngine {
	return NewTriggerEngineWithConfig(DefaultTriggerConfig())
}

// NewTriggerEngineWithConfig creates a trigger engine, filling zero thresholds with defaults
func NewTriggerEngineWithConfig(cfg TriggerConfig) *TriggerEngine {
	def := DefaultTriggerConfig()
	if cfg.TaxThreshold.IsZero() {
		cfg.TaxThreshold = def.TaxThreshold
	}
	if cfg.BufferMonths <= 0 {
		cfg.BufferMonths = def.BufferMonths
	}
	if cfg.HighIncomeCap.IsZero() {
		cfg.HighIncomeCap = def.HighIncomeCap
	}
	if cfg.MarketPanicThreshold.IsZero() {
		cfg.MarketPanicThreshold = def.MarketPanicThreshold
	}
	return &TriggerEngine{cfg: cfg}
}

// Config returns the effective thresholds.
func (te *TriggerEngine) Config() TriggerConfig { return te.cfg }

// CheckBuffer fires BUFFER_LOW when the buffer covers fewer than BufferMonths of shortfall.
func (te *TriggerEngine) CheckBuffer(cashBuffer, monthlyShortfall decimal.Decimal) []domain.Signal {
	need := monthlyShortfall.Mul(decimal.NewFromInt(int64(te.cfg.BufferMonths)))
	if !cashBuffer.LessThan(need) {
		return nil
	}
	return []domain.Signal{{
		Kind:       domain.SignalBufferLow,
		Level:      domain.LevelYellow,
		Asset:      domain.TierCashBuffer,
		Message:    fmt.Sprintf("cash buffer holds less than %d months of spending", te.cfg.BufferMonths),
		Suggestion: "take partial profits on growth assets to rebuild cash",
	}}
}

// CheckTax fires TAX_WARNING when the corporate tax base exceeds the low bracket.
func (te *TriggerEngine) CheckTax(taxBase decimal.Decimal) []domain.Signal {
	if !taxBase.GreaterThan(te.cfg.TaxThreshold) {
		return nil
	}
	return []domain.Signal{{
		Kind:       domain.SignalTaxWarning,
		Level:      domain.LevelYellow,
		Message:    fmt.Sprintf("corporate tax base exceeds %s", te.cfg.TaxThreshold.StringFixed(0)),
		Suggestion: "review salary and deductible corporate expenses",
	}}
}

// CheckConcentration fires CONCENTRATION_RISK when the income tier weighs more than the cap.
func (te *TriggerEngine) CheckConcentration(highIncomeWeight decimal.Decimal) []domain.Signal {
	if !highIncomeWeight.GreaterThan(te.cfg.HighIncomeCap) {
		return nil
	}
	return []domain.Signal{{
		Kind:       domain.SignalConcentrationRisk,
		Level:      domain.LevelYellow,
		Asset:      domain.TierIncome,
		Message:    fmt.Sprintf("high-income assets exceed %s%% of the portfolio", te.cfg.HighIncomeCap.Shift(2).StringFixed(0)),
		Suggestion: "shift weight toward growth assets to reduce volatility",
	}}
}

// CheckMarket fires MARKET_PANIC when the drawdown is at or beyond the panic threshold.
func (te *TriggerEngine) CheckMarket(maxDrawdown decimal.Decimal) []domain.Signal {
	if !maxDrawdown.LessThanOrEqual(te.cfg.MarketPanicThreshold) {
		return nil
	}
	return []domain.Signal{{
		Kind:       domain.SignalMarketPanic,
		Level:      domain.LevelRed,
		Asset:      domain.TierGrowth,
		Message:    fmt.Sprintf("market fell %s%%, emergency mode", maxDrawdown.Shift(2).StringFixed(1)),
		Suggestion: "stop selling growth assets and spend from the cash buffer",
	}}
}
