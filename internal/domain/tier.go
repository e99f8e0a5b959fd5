package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetTier is one of the four fixed asset pools the household holds.
type AssetTier string

const (
	TierGrowth     AssetTier = "GROWTH"
	TierIncome     AssetTier = "INCOME"
	TierBond       AssetTier = "BOND"
	TierCashBuffer AssetTier = "CASH_BUFFER"
)

// AllTiers lists the tiers in canonical order. Anything that iterates tiers
// (growth, weights, rebalance checks) walks this slice so output order is stable.
var AllTiers = []AssetTier{TierGrowth, TierIncome, TierBond, TierCashBuffer}

// LiquidationOrder is the order in which tiers are sold to refill the cash buffer.
// CASH_BUFFER is deliberately absent: it is only drawn down as the emergency fallback.
var LiquidationOrder = []AssetTier{TierGrowth, TierIncome, TierBond}

// tierYieldMultipliers scales the nominal market return per tier.
var tierYieldMultipliers = map[AssetTier]decimal.Decimal{
	TierGrowth:     decimal.NewFromFloat(1.2),
	TierIncome:     decimal.NewFromInt(1),
	TierBond:       decimal.NewFromFloat(0.6),
	TierCashBuffer: decimal.NewFromFloat(0.6),
}

// YieldMultiplier returns the share of the nominal market return the tier earns.
func (t AssetTier) YieldMultiplier() decimal.Decimal {
	if m, ok := tierYieldMultipliers[t]; ok {
		return m
	}
	return decimal.Zero
}

// Valid reports whether t is one of the four known tiers.
func (t AssetTier) Valid() bool {
	_, ok := tierYieldMultipliers[t]
	return ok
}

// TierBalances holds the balance of every tier. It is a plain value: assigning
// it copies every balance, so two simulation passes never share state.
type TierBalances struct {
	Growth     decimal.Decimal `yaml:"growth" json:"growth"`
	Income     decimal.Decimal `yaml:"income" json:"income"`
	Bond       decimal.Decimal `yaml:"bond" json:"bond"`
	CashBuffer decimal.Decimal `yaml:"cash_buffer" json:"cash_buffer"`
}

// AllocateInitialTiers maps the two aggregate inputs onto the tiers.
// corp -> 70% growth / 30% cash buffer; pension -> 50% income / 20% bond / 30% cash buffer.
func AllocateInitialTiers(assets InitialAssets) TierBalances {
	corp := decimal.Max(assets.Corp, decimal.Zero)
	pension := decimal.Max(assets.Pension, decimal.Zero)
	return TierBalances{
		Growth:     corp.Mul(decimal.NewFromFloat(0.7)),
		Income:     pension.Mul(decimal.NewFromFloat(0.5)),
		Bond:       pension.Mul(decimal.NewFromFloat(0.2)),
		CashBuffer: corp.Mul(decimal.NewFromFloat(0.3)).Add(pension.Mul(decimal.NewFromFloat(0.3))),
	}
}

// Get returns the balance of a tier. Unknown tiers read as zero.
func (tb TierBalances) Get(t AssetTier) decimal.Decimal {
	switch t {
	case TierGrowth:
		return tb.Growth
	case TierIncome:
		return tb.Income
	case TierBond:
		return tb.Bond
	case TierCashBuffer:
		return tb.CashBuffer
	}
	return decimal.Zero
}

// Set stores a balance, clamping negatives to zero.
func (tb *TierBalances) Set(t AssetTier, v decimal.Decimal) {
	if v.IsNegative() {
		v = decimal.Zero
	}
	switch t {
	case TierGrowth:
		tb.Growth = v
	case TierIncome:
		tb.Income = v
	case TierBond:
		tb.Bond = v
	case TierCashBuffer:
		tb.CashBuffer = v
	}
}

// Credit adds amount to a tier.
func (tb *TierBalances) Credit(t AssetTier, amount decimal.Decimal) {
	tb.Set(t, tb.Get(t).Add(amount))
}

// Debit removes up to amount from a tier and returns what it could not cover.
func (tb *TierBalances) Debit(t AssetTier, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	bal := tb.Get(t)
	if bal.GreaterThanOrEqual(amount) {
		tb.Set(t, bal.Sub(amount))
		return decimal.Zero
	}
	tb.Set(t, decimal.Zero)
	return amount.Sub(bal)
}

// Total returns the sum of all tier balances.
func (tb TierBalances) Total() decimal.Decimal {
	return tb.Growth.Add(tb.Income).Add(tb.Bond).Add(tb.CashBuffer)
}

// CorpBalance is the share attributed to the corporate entity: growth plus half the buffer.
func (tb TierBalances) CorpBalance() decimal.Decimal {
	return tb.Growth.Add(tb.CashBuffer.Div(decimal.NewFromInt(2)))
}

// PensionBalance is the share attributed to the pension entity.
func (tb TierBalances) PensionBalance() decimal.Decimal {
	return tb.Income.Add(tb.Bond).Add(tb.CashBuffer.Div(decimal.NewFromInt(2)))
}

// Round rounds every balance to places decimal places.
func (tb TierBalances) Round(places int32) TierBalances {
	return TierBalances{
		Growth:     tb.Growth.Round(places),
		Income:     tb.Income.Round(places),
		Bond:       tb.Bond.Round(places),
		CashBuffer: tb.CashBuffer.Round(places),
	}
}

// Phase is the age-conditioned withdrawal regime.
type Phase string

const (
	PhasePrePension      Phase = "PRE_PENSION"
	PhasePrivatePension  Phase = "PRIVATE_PENSION"
	PhaseNationalPension Phase = "NATIONAL_PENSION"
)

// PhaseForAge derives the phase from attained age. National pension takes
// precedence once reached, so the phase never moves backwards as age grows.
func PhaseForAge(age, privateStartAge, nationalStartAge int) Phase {
	switch {
	case age >= nationalStartAge:
		return PhaseNationalPension
	case age >= privateStartAge:
		return PhasePrivatePension
	default:
		return PhasePrePension
	}
}

// ParseAssetTier converts a string into a tier.
func ParseAssetTier(s string) (AssetTier, error) {
	t := AssetTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown asset tier %q", s)
	}
	return t, nil
}
