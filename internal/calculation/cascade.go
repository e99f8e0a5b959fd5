package calculation

import (
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

// CascadeEngine decides which tier refills the cash buffer. The sale order is
// fixed: GROWTH, then INCOME, then BOND, and only then the buffer itself.
type CascadeEngine struct {
	TargetBuffer decimal.Decimal
}

// NewCascadeEngine creates a cascade with the buffer amount CASH_BUFFER should hold.
func NewCascadeEngine(targetBuffer decimal.Decimal) *CascadeEngine {
	return &CascadeEngine{TargetBuffer: targetBuffer}
}

// LiquidationDecision returns the decision for the current balances.
func (ce *CascadeEngine) LiquidationDecision(tiers domain.TierBalances) domain.LiquidationDecision {
	if tiers.CashBuffer.GreaterThanOrEqual(ce.TargetBuffer) {
		return domain.LiquidationDecision{State: domain.StateIdle, Reason: domain.ReasonBufferOK}
	}
	for _, t := range domain.LiquidationOrder {
		if tiers.Get(t).IsPositive() {
			return domain.LiquidationDecision{
				State:       domain.SellTierState(t),
				TargetAsset: t,
				Reason:      domain.ReasonRechargeBuffer,
			}
		}
	}
	return domain.LiquidationDecision{
		State:       domain.StateEmergency,
		TargetAsset: domain.TierCashBuffer,
		Reason:      domain.ReasonAllTiersExhausted,
	}
}

// Fund debits amount according to decision and returns what no tier could cover.
// An IDLE decision debits nothing. A sale drains the chosen tier first and
// pushes any remainder onto the buffer, which clamps at zero.
func (ce *CascadeEngine) Fund(tiers *domain.TierBalances, decision domain.LiquidationDecision, amount decimal.Decimal) decimal.Decimal {
	source := decision.TargetAsset
	if !amount.IsPositive() || source == "" {
		return decimal.Zero
	}
	rest := tiers.Debit(source, amount)
	if rest.IsPositive() && source != domain.TierCashBuffer {
		rest = tiers.Debit(domain.TierCashBuffer, rest)
	}
	return rest
}
