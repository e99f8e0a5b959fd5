package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Configuration is the persisted retirement settings record. Optional values
// are pointers so the loader can tell "absent" apart from "zero".
type Configuration struct {
	Profile            HouseholdProfile      `yaml:"user_profile" json:"user_profile"`
	InitialAssets      InitialAssets         `yaml:"initial_assets" json:"initial_assets"`
	Corporate          CorporateSettings     `yaml:"corporate" json:"corporate"`
	Simulation         SimulationSettings    `yaml:"simulation" json:"simulation"`
	Assumptions        map[string]Assumption `yaml:"assumptions" json:"assumptions"`
	ActiveAssumptionID string                `yaml:"active_assumption_id" json:"active_assumption_id"`
	PlannedCashflows   []PlannedCashflow     `yaml:"planned_cashflows,omitempty" json:"planned_cashflows,omitempty"`
	Tax                TaxConfig             `yaml:"tax" json:"tax"`
}

// HouseholdProfile describes the person the plan is built around.
type HouseholdProfile struct {
	BirthYear                *int            `yaml:"birth_year" json:"birth_year"`
	BirthMonth               *int            `yaml:"birth_month" json:"birth_month"`
	PrivatePensionStartAge   *int            `yaml:"private_pension_start_age" json:"private_pension_start_age"`
	NationalPensionStartAge  *int            `yaml:"national_pension_start_age" json:"national_pension_start_age"`
	PrivatePensionWithdrawal decimal.Decimal `yaml:"private_pension_withdrawal" json:"private_pension_withdrawal"`
	NationalPensionAmount    decimal.Decimal `yaml:"national_pension_amount" json:"national_pension_amount"`
	PropertyValue            decimal.Decimal `yaml:"property_value" json:"property_value"`
}

// CorporateSettings holds the corporate entity's running costs.
type CorporateSettings struct {
	Salary                 *decimal.Decimal `yaml:"salary" json:"salary"`
	FixedCost              *decimal.Decimal `yaml:"fixed_cost" json:"fixed_cost"`
	EmployeeCount          *int             `yaml:"employee_count" json:"employee_count"`
	ShareholderLoanBalance decimal.Decimal  `yaml:"shareholder_loan_balance" json:"shareholder_loan_balance"`
	MonthlyLoanRepayment   decimal.Decimal  `yaml:"monthly_loan_repayment" json:"monthly_loan_repayment"`
}

// SimulationSettings anchors the simulated calendar.
type SimulationSettings struct {
	StartYear          *int `yaml:"start_year" json:"start_year"`
	StartMonth         *int `yaml:"start_month" json:"start_month"`
	TargetBufferMonths *int `yaml:"target_buffer_months" json:"target_buffer_months"`
}

// Assumption is one named set of macro assumptions ("v1", "conservative", ...).
type Assumption struct {
	Name                  string           `yaml:"name" json:"name"`
	TargetMonthlyCashflow *decimal.Decimal `yaml:"target_monthly_cashflow" json:"target_monthly_cashflow"`
	InflationRate         *decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	MarketReturnRate      *decimal.Decimal `yaml:"market_return_rate" json:"market_return_rate"`
}

// ActiveAssumption resolves the active assumption set. When no id is set and
// exactly one set exists, that set is used.
func (c *Configuration) ActiveAssumption() (Assumption, error) {
	if c.ActiveAssumptionID != "" {
		a, ok := c.Assumptions[c.ActiveAssumptionID]
		if !ok {
			return Assumption{}, fmt.Errorf("active assumption %q not found (have: %v)", c.ActiveAssumptionID, c.AssumptionIDs())
		}
		return a, nil
	}
	if len(c.Assumptions) == 1 {
		for _, a := range c.Assumptions {
			return a, nil
		}
	}
	return Assumption{}, fmt.Errorf("active_assumption_id is required when %d assumption sets are defined", len(c.Assumptions))
}

// AssumptionIDs returns the assumption set ids in sorted order.
func (c *Configuration) AssumptionIDs() []string {
	ids := make([]string, 0, len(c.Assumptions))
	for id := range c.Assumptions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
