package domain

import (
	"github.com/shopspring/decimal"
)

// SnapshotRetentionMonths caps how many monthly snapshots a run keeps.
const SnapshotRetentionMonths = 360

// DecisionState is the liquidation state chosen for a month.
type DecisionState string

const (
	StateIdle      DecisionState = "IDLE"
	StateEmergency DecisionState = "EMERGENCY"
)

// SellTierState builds the SELL_TIER_<tier> state for a tier.
func SellTierState(t AssetTier) DecisionState {
	return DecisionState("SELL_TIER_" + string(t))
}

// Decision reasons.
const (
	ReasonBufferOK          = "BUFFER_OK"
	ReasonRechargeBuffer    = "RECHARGE_BUFFER"
	ReasonAllTiersExhausted = "ALL_TIERS_EXHAUSTED"
)

// LiquidationDecision says which tier funds this month's shortfall.
// TargetAsset is empty when the state is IDLE.
type LiquidationDecision struct {
	State       DecisionState `json:"state"`
	TargetAsset AssetTier     `json:"target_asset,omitempty"`
	Reason      string        `json:"reason"`
}

// SignalKind tags a guardrail warning.
type SignalKind string

const (
	SignalBufferLow         SignalKind = "BUFFER_LOW"
	SignalTaxWarning        SignalKind = "TAX_WARNING"
	SignalConcentrationRisk SignalKind = "CONCENTRATION_RISK"
	SignalMarketPanic       SignalKind = "MARKET_PANIC"
	SignalRebalanceRequired SignalKind = "REBALANCE_REQUIRED"
)

// SignalLevel is the severity of a signal.
type SignalLevel string

const (
	LevelRed    SignalLevel = "RED"
	LevelYellow SignalLevel = "YELLOW"
)

// Signal is a warning raised by the trigger or rebalance engines.
type Signal struct {
	Kind       SignalKind  `json:"type"`
	Level      SignalLevel `json:"level"`
	Asset      AssetTier   `json:"asset,omitempty"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Month      int         `json:"month"`

	// Rebalance details, zero for other kinds.
	CurrentWeight decimal.Decimal `json:"current_weight,omitempty"`
	TargetWeight  decimal.Decimal `json:"target_weight,omitempty"`
	Deviation     decimal.Decimal `json:"deviation,omitempty"`
}

// MonthlySnapshot records the state at the end of one simulated month.
type MonthlySnapshot struct {
	Month         int   `json:"month"`
	Year          int   `json:"year"`
	CalendarMonth int   `json:"calendar_month"`
	Age           int   `json:"age"`
	Phase         Phase `json:"phase"`

	Tiers          TierBalances    `json:"tiers"`
	CorpBalance    decimal.Decimal `json:"corp_balance"`
	PensionBalance decimal.Decimal `json:"pension_balance"`
	NetWorth       decimal.Decimal `json:"total_net_worth"`

	TargetCashflow      decimal.Decimal `json:"target_cashflow"`
	PrivatePensionDraw  decimal.Decimal `json:"private_pension_draw"`
	NationalPensionDraw decimal.Decimal `json:"national_pension_draw"`
	CorpOperatingCost   decimal.Decimal `json:"corp_operating_cost"`
	LoanRepaid          decimal.Decimal `json:"loan_repaid"`
	LoanBalance         decimal.Decimal `json:"loan_balance"`

	State       DecisionState `json:"state"`
	TargetAsset AssetTier     `json:"target_asset,omitempty"`
	Reason      string        `json:"reason"`
}

// Summary is the headline outcome of a run.
type Summary struct {
	TotalSurvivalYears   int             `json:"total_survival_years"`
	IsPermanent          bool            `json:"is_permanent"`
	InfiniteWith10PctCut bool            `json:"infinite_with_10pct_cut"`
	FinalNetWorth        decimal.Decimal `json:"final_net_worth"`
	BufferExhaustionDate string          `json:"sgov_exhaustion_date,omitempty"`
	GrowthSellStartDate  string          `json:"growth_asset_sell_start_date,omitempty"`
	ActiveStressScenario string          `json:"active_stress_scenario,omitempty"`
	Signals              []Signal        `json:"signals"`
}

// SimulationResult is everything one pass produces.
type SimulationResult struct {
	Summary         Summary           `json:"summary"`
	SurvivalMonths  int               `json:"survival_months"`
	MonthsRequested int               `json:"months_requested"`
	MonthlyData     []MonthlySnapshot `json:"monthly_data"`

	// Assumptions are human-readable notes attached by callers for reports.
	Assumptions []string `json:"assumptions,omitempty"`
}
