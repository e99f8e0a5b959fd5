package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InitialAssets is the household's starting capital split by owning entity.
type InitialAssets struct {
	Corp    decimal.Decimal `yaml:"corp" json:"corp"`
	Pension decimal.Decimal `yaml:"pension" json:"pension"`
}

// Entity identifies which legal entity owns a planned cashflow.
type Entity string

const (
	EntityCorp    Entity = "CORP"
	EntityPension Entity = "PENSION"
)

// Direction is the sign of a planned cashflow.
type Direction string

const (
	DirectionInflow  Direction = "INFLOW"
	DirectionOutflow Direction = "OUTFLOW"
)

// PlannedCashflow is a one-time event applied on the calendar month it names.
type PlannedCashflow struct {
	Label     string          `yaml:"label,omitempty" json:"label,omitempty"`
	Year      int             `yaml:"year" json:"year"`
	Month     int             `yaml:"month" json:"month"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Direction Direction       `yaml:"direction" json:"direction"`
	Entity    Entity          `yaml:"entity" json:"entity"`
}

// Tier returns the tier an event lands on: corporate events hit the cash
// buffer, pension events hit the bond tier.
func (pc PlannedCashflow) Tier() AssetTier {
	if pc.Entity == EntityPension {
		return TierBond
	}
	return TierCashBuffer
}

// SignedAmount returns the amount with the sign implied by Direction.
func (pc PlannedCashflow) SignedAmount() decimal.Decimal {
	amount := pc.Amount.Abs()
	if pc.Direction == DirectionOutflow {
		return amount.Neg()
	}
	return amount
}

// Matches reports whether the event is scheduled for the given calendar month.
func (pc PlannedCashflow) Matches(year, month int) bool {
	return pc.Year == year && pc.Month == month
}

// TaxConfig carries every tax and insurance rate the tax engine uses. Zero
// fields are replaced by the documented defaults when an engine is built.
type TaxConfig struct {
	// Local health insurance
	PointUnitPrice         decimal.Decimal `yaml:"point_unit_price" json:"point_unit_price"`
	LongTermCareRate       decimal.Decimal `yaml:"ltc_rate" json:"ltc_rate"`
	PropertyBasicDeduction decimal.Decimal `yaml:"property_basic_deduction" json:"property_basic_deduction"`
	IncomeExemptionFloor   decimal.Decimal `yaml:"income_exemption_floor" json:"income_exemption_floor"`

	// Corporate tax brackets
	CorpTaxThreshold decimal.Decimal `yaml:"corp_tax_threshold" json:"corp_tax_threshold"`
	CorpTaxLowRate   decimal.Decimal `yaml:"corp_tax_low_rate" json:"corp_tax_low_rate"`
	CorpTaxHighRate  decimal.Decimal `yaml:"corp_tax_high_rate" json:"corp_tax_high_rate"`

	// Payroll deductions (employee share; the employer matches pension+health+employment)
	PensionRate           decimal.Decimal `yaml:"pension_rate" json:"pension_rate"`
	HealthRate            decimal.Decimal `yaml:"health_rate" json:"health_rate"`
	EmploymentRate        decimal.Decimal `yaml:"employment_rate" json:"employment_rate"`
	IncomeTaxEstimateRate decimal.Decimal `yaml:"income_tax_estimate_rate" json:"income_tax_estimate_rate"`

	// Personal financial (dividend/interest) income
	FinancialIncomeThreshold decimal.Decimal `yaml:"financial_income_threshold" json:"financial_income_threshold"`
	FinancialIncomeLowRate   decimal.Decimal `yaml:"financial_income_low_rate" json:"financial_income_low_rate"`
	FinancialIncomeHighRate  decimal.Decimal `yaml:"financial_income_high_rate" json:"financial_income_high_rate"`
}

// DefaultTaxConfig returns the 2025 rate set.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		PointUnitPrice:           decimal.NewFromFloat(208.4),
		LongTermCareRate:         decimal.NewFromFloat(0.1295),
		PropertyBasicDeduction:   decimal.NewFromInt(100_000_000),
		IncomeExemptionFloor:     decimal.NewFromInt(3_360_000),
		CorpTaxThreshold:         decimal.NewFromInt(200_000_000),
		CorpTaxLowRate:           decimal.NewFromFloat(0.09),
		CorpTaxHighRate:          decimal.NewFromFloat(0.19),
		PensionRate:              decimal.NewFromFloat(0.045),
		HealthRate:               decimal.NewFromFloat(0.03545),
		EmploymentRate:           decimal.NewFromFloat(0.009),
		IncomeTaxEstimateRate:    decimal.NewFromFloat(0.05),
		FinancialIncomeThreshold: decimal.NewFromInt(20_000_000),
		FinancialIncomeLowRate:   decimal.NewFromFloat(0.154),
		FinancialIncomeHighRate:  decimal.NewFromFloat(0.264),
	}
}

// WithDefaults returns a copy where every zero field takes its default.
func (tc TaxConfig) WithDefaults() TaxConfig {
	d := DefaultTaxConfig()
	fill := func(v *decimal.Decimal, def decimal.Decimal) {
		if v.IsZero() {
			*v = def
		}
	}
	fill(&tc.PointUnitPrice, d.PointUnitPrice)
	fill(&tc.LongTermCareRate, d.LongTermCareRate)
	fill(&tc.PropertyBasicDeduction, d.PropertyBasicDeduction)
	fill(&tc.IncomeExemptionFloor, d.IncomeExemptionFloor)
	fill(&tc.CorpTaxThreshold, d.CorpTaxThreshold)
	fill(&tc.CorpTaxLowRate, d.CorpTaxLowRate)
	fill(&tc.CorpTaxHighRate, d.CorpTaxHighRate)
	fill(&tc.PensionRate, d.PensionRate)
	fill(&tc.HealthRate, d.HealthRate)
	fill(&tc.EmploymentRate, d.EmploymentRate)
	fill(&tc.IncomeTaxEstimateRate, d.IncomeTaxEstimateRate)
	fill(&tc.FinancialIncomeThreshold, d.FinancialIncomeThreshold)
	fill(&tc.FinancialIncomeLowRate, d.FinancialIncomeLowRate)
	fill(&tc.FinancialIncomeHighRate, d.FinancialIncomeHighRate)
	return tc
}

// EmployerInsuranceRate is the combined employer-side social insurance rate.
func (tc TaxConfig) EmployerInsuranceRate() decimal.Decimal {
	return tc.PensionRate.Add(tc.HealthRate).Add(tc.EmploymentRate)
}

// Stress scenario identifiers.
const (
	ScenarioBear        = "BEAR"
	ScenarioStagflation = "STAGFLATION"
	ScenarioDividendCut = "DIVIDEND_CUT"

	StressEventMarketCrash = "MARKET_CRASH"
)

// NormalizeScenarioID upper-cases and trims a scenario id.
func NormalizeScenarioID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// SimulationParams is the read-only parameter bundle for one simulation request.
type SimulationParams struct {
	TargetMonthlyCashflow decimal.Decimal `yaml:"target_monthly_cashflow" json:"target_monthly_cashflow"`
	InflationRate         decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	MarketReturnRate      decimal.Decimal `yaml:"market_return_rate" json:"market_return_rate"`

	// Corporate entity
	CorpSalary             decimal.Decimal `yaml:"corp_salary" json:"corp_salary"`
	CorpFixedCost          decimal.Decimal `yaml:"corp_fixed_cost" json:"corp_fixed_cost"`
	CorpEmployeeCount      int             `yaml:"corp_employee_count" json:"corp_employee_count"`
	ShareholderLoanBalance decimal.Decimal `yaml:"shareholder_loan_balance" json:"shareholder_loan_balance"`
	MonthlyLoanRepayment   decimal.Decimal `yaml:"monthly_loan_repayment" json:"monthly_loan_repayment"` // cap per month, zero means uncapped

	// Household
	BirthYear                int             `yaml:"birth_year" json:"birth_year"`
	BirthMonth               int             `yaml:"birth_month" json:"birth_month"`
	PrivatePensionStartAge   int             `yaml:"private_pension_start_age" json:"private_pension_start_age"`
	NationalPensionStartAge  int             `yaml:"national_pension_start_age" json:"national_pension_start_age"`
	PrivatePensionWithdrawal decimal.Decimal `yaml:"private_pension_withdrawal" json:"private_pension_withdrawal"`
	NationalPensionAmount    decimal.Decimal `yaml:"national_pension_amount" json:"national_pension_amount"`
	PropertyValue            decimal.Decimal `yaml:"property_value" json:"property_value"`

	SimulationStartYear  int               `yaml:"simulation_start_year" json:"simulation_start_year"`
	SimulationStartMonth int               `yaml:"simulation_start_month" json:"simulation_start_month"`
	TargetBufferMonths   int               `yaml:"target_buffer_months" json:"target_buffer_months"`
	PlannedCashflows     []PlannedCashflow `yaml:"planned_cashflows,omitempty" json:"planned_cashflows,omitempty"`

	Tax TaxConfig `yaml:"tax" json:"tax"`

	// Stress overrides, set by the stress test engine.
	MarketDrop           decimal.Decimal  `yaml:"market_drop,omitempty" json:"market_drop,omitempty"`
	StressEvent          string           `yaml:"stress_event,omitempty" json:"stress_event,omitempty"`
	DividendYield        *decimal.Decimal `yaml:"dividend_yield,omitempty" json:"dividend_yield,omitempty"`
	IncomeMultiplier     decimal.Decimal  `yaml:"income_multiplier,omitempty" json:"income_multiplier,omitempty"`
	ActiveStressScenario string           `yaml:"active_stress_scenario,omitempty" json:"active_stress_scenario,omitempty"`
}

// Clone returns a deep copy. Planned cashflows and the optional dividend yield
// are copied so the clone can be modified freely.
func (p SimulationParams) Clone() SimulationParams {
	c := p
	if p.PlannedCashflows != nil {
		c.PlannedCashflows = append([]PlannedCashflow(nil), p.PlannedCashflows...)
	}
	if p.DividendYield != nil {
		dy := *p.DividendYield
		c.DividendYield = &dy
	}
	return c
}

// Validate checks the required subset. Every problem is collected so the
// caller can report all missing settings at once.
func (p SimulationParams) Validate() error {
	ce := &ConfigurationError{}
	if !p.TargetMonthlyCashflow.IsPositive() {
		ce.Missing = append(ce.Missing, "target_monthly_cashflow")
	}
	if p.BirthYear <= 0 {
		ce.Missing = append(ce.Missing, "birth_year")
	}
	if p.BirthMonth == 0 {
		ce.Missing = append(ce.Missing, "birth_month")
	} else if p.BirthMonth < 1 || p.BirthMonth > 12 {
		ce.Invalid = append(ce.Invalid, "birth_month")
	}
	if p.PrivatePensionStartAge <= 0 {
		ce.Missing = append(ce.Missing, "private_pension_start_age")
	}
	if p.NationalPensionStartAge <= 0 {
		ce.Missing = append(ce.Missing, "national_pension_start_age")
	}
	if p.SimulationStartYear <= 0 {
		ce.Missing = append(ce.Missing, "simulation_start_year")
	}
	if p.SimulationStartMonth == 0 {
		ce.Missing = append(ce.Missing, "simulation_start_month")
	} else if p.SimulationStartMonth < 1 || p.SimulationStartMonth > 12 {
		ce.Invalid = append(ce.Invalid, "simulation_start_month")
	}
	if p.TargetBufferMonths < 0 {
		ce.Invalid = append(ce.Invalid, "target_buffer_months")
	}
	if p.CorpEmployeeCount < 0 {
		ce.Invalid = append(ce.Invalid, "corp_employee_count")
	}
	for i, pc := range p.PlannedCashflows {
		if pc.Month < 1 || pc.Month > 12 || pc.Year <= 0 {
			ce.Invalid = append(ce.Invalid, plannedField(i, "date"))
		}
		if pc.Direction != DirectionInflow && pc.Direction != DirectionOutflow {
			ce.Invalid = append(ce.Invalid, plannedField(i, "direction"))
		}
		if pc.Entity != EntityCorp && pc.Entity != EntityPension {
			ce.Invalid = append(ce.Invalid, plannedField(i, "entity"))
		}
	}
	if ce.empty() {
		return nil
	}
	return ce
}

func plannedField(i int, name string) string {
	return "planned_cashflows[" + itoa(i) + "]." + name
}
