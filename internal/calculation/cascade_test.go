package calculation

import (
	"testing"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLiquidationOrder(t *testing.T) {
	engine := NewCascadeEngine(dec(150_000_000))
	tiers := domain.TierBalances{
		Growth:     dec(100_000_000),
		Income:     dec(50_000_000),
		Bond:       dec(30_000_000),
		CashBuffer: dec(100_000_000),
	}

	got := engine.LiquidationDecision(tiers)
	assert.Equal(t, domain.TierGrowth, got.TargetAsset)
	assert.Equal(t, domain.DecisionState("SELL_TIER_GROWTH"), got.State)
	assert.Equal(t, domain.ReasonRechargeBuffer, got.Reason)

	tiers.Growth = decimal.Zero
	got = engine.LiquidationDecision(tiers)
	assert.Equal(t, domain.TierIncome, got.TargetAsset)

	tiers.Income = decimal.Zero
	got = engine.LiquidationDecision(tiers)
	assert.Equal(t, domain.TierBond, got.TargetAsset)

	tiers.Bond = decimal.Zero
	got = engine.LiquidationDecision(tiers)
	assert.Equal(t, domain.StateEmergency, got.State)
	assert.Equal(t, domain.TierCashBuffer, got.TargetAsset)
	assert.Equal(t, domain.ReasonAllTiersExhausted, got.Reason)
}

func TestLiquidationDecisionIdle(t *testing.T) {
	engine := NewCascadeEngine(dec(100_000_000))

	tests := []struct {
		name   string
		buffer decimal.Decimal
		state  domain.DecisionState
	}{
		{"Buffer above target", dec(120_000_000), domain.StateIdle},
		{"Buffer exactly at target", dec(100_000_000), domain.StateIdle},
		{"Buffer below target", dec(99_999_999), domain.SellTierState(domain.TierGrowth)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.LiquidationDecision(domain.TierBalances{Growth: dec(1), CashBuffer: tt.buffer})
			assert.Equal(t, tt.state, got.State)
			if tt.state == domain.StateIdle {
				assert.Empty(t, got.TargetAsset)
				assert.Equal(t, domain.ReasonBufferOK, got.Reason)
			}
		})
	}
}

func TestCascadeFund(t *testing.T) {
	engine := NewCascadeEngine(dec(100))

	t.Run("Idle debits nothing", func(t *testing.T) {
		tiers := domain.TierBalances{Growth: dec(50), CashBuffer: dec(200)}
		rest := engine.Fund(&tiers, engine.LiquidationDecision(tiers), dec(30))
		assert.True(t, rest.IsZero())
		assert.True(t, dec(200).Equal(tiers.CashBuffer))
		assert.True(t, dec(50).Equal(tiers.Growth))
	})

	t.Run("Emergency drains the buffer", func(t *testing.T) {
		tiers := domain.TierBalances{CashBuffer: dec(60)}
		rest := engine.Fund(&tiers, engine.LiquidationDecision(tiers), dec(30))
		assert.True(t, rest.IsZero())
		assert.True(t, dec(30).Equal(tiers.CashBuffer))
	})

	t.Run("Sale spills onto buffer", func(t *testing.T) {
		tiers := domain.TierBalances{Growth: dec(20), CashBuffer: dec(50)}
		rest := engine.Fund(&tiers, engine.LiquidationDecision(tiers), dec(30))
		assert.True(t, rest.IsZero())
		assert.True(t, tiers.Growth.IsZero())
		assert.True(t, dec(40).Equal(tiers.CashBuffer))
	})

	t.Run("Buffer clamps at zero", func(t *testing.T) {
		tiers := domain.TierBalances{Bond: dec(10), CashBuffer: dec(5)}
		rest := engine.Fund(&tiers, engine.LiquidationDecision(tiers), dec(40))
		assert.True(t, dec(25).Equal(rest))
		assert.True(t, tiers.Total().IsZero())
	})
}
