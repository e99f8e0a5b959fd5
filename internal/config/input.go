package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Defaults for optional settings.
var (
	DefaultInflationRate      = decimal.NewFromFloat(0.025)
	DefaultMarketReturnRate   = decimal.NewFromFloat(0.0485)
	DefaultCorpSalary         = decimal.NewFromInt(2_500_000)
	DefaultCorpFixedCost      = decimal.NewFromInt(500_000)
	DefaultCorpEmployeeCount  = 1
	DefaultTargetBufferMonths = 30
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML (or JSON, which YAML accepts) and validates the result.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration rejects values that are present but malformed. Absent
// required values are reported later by BuildParams, so a partially filled
// record can still be stored and edited.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.InitialAssets.Corp.IsNegative() {
		return fmt.Errorf("initial corp assets cannot be negative")
	}
	if config.InitialAssets.Pension.IsNegative() {
		return fmt.Errorf("initial pension assets cannot be negative")
	}

	if err := ip.validateProfile(&config.Profile); err != nil {
		return fmt.Errorf("user profile validation failed: %w", err)
	}

	if err := ip.validateCorporate(&config.Corporate); err != nil {
		return fmt.Errorf("corporate validation failed: %w", err)
	}

	if config.ActiveAssumptionID != "" {
		if _, ok := config.Assumptions[config.ActiveAssumptionID]; !ok {
			return fmt.Errorf("active assumption %q not found (have: %v)", config.ActiveAssumptionID, config.AssumptionIDs())
		}
	}
	for id, a := range config.Assumptions {
		if err := ip.validateAssumption(&a); err != nil {
			return fmt.Errorf("assumption %s validation failed: %w", id, err)
		}
	}

	for i, pc := range config.PlannedCashflows {
		if err := ip.validatePlannedCashflow(&pc); err != nil {
			return fmt.Errorf("planned cashflow %d validation failed: %w", i, err)
		}
	}

	return nil
}

func (ip *InputParser) validateProfile(p *domain.HouseholdProfile) error {
	if p.BirthMonth != nil && (*p.BirthMonth < 1 || *p.BirthMonth > 12) {
		return fmt.Errorf("birth month must be between 1 and 12")
	}
	if p.PrivatePensionStartAge != nil && *p.PrivatePensionStartAge < 0 {
		return fmt.Errorf("private pension start age cannot be negative")
	}
	if p.NationalPensionStartAge != nil && *p.NationalPensionStartAge < 0 {
		return fmt.Errorf("national pension start age cannot be negative")
	}
	if p.PrivatePensionWithdrawal.IsNegative() {
		return fmt.Errorf("private pension withdrawal cannot be negative")
	}
	if p.NationalPensionAmount.IsNegative() {
		return fmt.Errorf("national pension amount cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateCorporate(c *domain.CorporateSettings) error {
	if c.Salary != nil && c.Salary.IsNegative() {
		return fmt.Errorf("salary cannot be negative")
	}
	if c.FixedCost != nil && c.FixedCost.IsNegative() {
		return fmt.Errorf("fixed cost cannot be negative")
	}
	if c.EmployeeCount != nil && *c.EmployeeCount < 0 {
		return fmt.Errorf("employee count cannot be negative")
	}
	if c.ShareholderLoanBalance.IsNegative() {
		return fmt.Errorf("shareholder loan balance cannot be negative")
	}
	if c.MonthlyLoanRepayment.IsNegative() {
		return fmt.Errorf("monthly loan repayment cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateAssumption(a *domain.Assumption) error {
	if a.TargetMonthlyCashflow != nil && a.TargetMonthlyCashflow.IsNegative() {
		return fmt.Errorf("target monthly cashflow cannot be negative")
	}
	// allow deflation but cap extreme values
	if a.InflationRate != nil && (a.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) || a.InflationRate.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("inflation rate must be between -10%% and 100%%, got %s%%",
			a.InflationRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
	if a.MarketReturnRate != nil && a.MarketReturnRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("market return rate must be greater than -100%%")
	}
	return nil
}

func (ip *InputParser) validatePlannedCashflow(pc *domain.PlannedCashflow) error {
	if pc.Month < 1 || pc.Month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	if pc.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	if pc.Direction != domain.DirectionInflow && pc.Direction != domain.DirectionOutflow {
		return fmt.Errorf("direction must be %s or %s, got %q", domain.DirectionInflow, domain.DirectionOutflow, pc.Direction)
	}
	if pc.Entity != domain.EntityCorp && pc.Entity != domain.EntityPension {
		return fmt.Errorf("entity must be %s or %s, got %q", domain.EntityCorp, domain.EntityPension, pc.Entity)
	}
	return nil
}

// BuildParams turns a stored configuration into the simulation inputs. Optional
// values take their defaults; every absent required value is collected into a
// single *domain.ConfigurationError.
func (ip *InputParser) BuildParams(config *domain.Configuration) (domain.InitialAssets, domain.SimulationParams, error) {
	p := domain.SimulationParams{
		InflationRate:            DefaultInflationRate,
		MarketReturnRate:         DefaultMarketReturnRate,
		CorpSalary:               DefaultCorpSalary,
		CorpFixedCost:            DefaultCorpFixedCost,
		CorpEmployeeCount:        DefaultCorpEmployeeCount,
		TargetBufferMonths:       DefaultTargetBufferMonths,
		ShareholderLoanBalance:   config.Corporate.ShareholderLoanBalance,
		MonthlyLoanRepayment:     config.Corporate.MonthlyLoanRepayment,
		PrivatePensionWithdrawal: config.Profile.PrivatePensionWithdrawal,
		NationalPensionAmount:    config.Profile.NationalPensionAmount,
		PropertyValue:            config.Profile.PropertyValue,
		PlannedCashflows:         append([]domain.PlannedCashflow(nil), config.PlannedCashflows...),
		Tax:                      config.Tax.WithDefaults(),
	}

	var invalid []string
	if len(config.Assumptions) > 0 {
		a, err := config.ActiveAssumption()
		if err != nil {
			invalid = append(invalid, "active_assumption_id")
		} else {
			setDecimal(&p.TargetMonthlyCashflow, a.TargetMonthlyCashflow)
			setDecimal(&p.InflationRate, a.InflationRate)
			setDecimal(&p.MarketReturnRate, a.MarketReturnRate)
		}
	}

	setInt(&p.BirthYear, config.Profile.BirthYear)
	setInt(&p.BirthMonth, config.Profile.BirthMonth)
	setInt(&p.PrivatePensionStartAge, config.Profile.PrivatePensionStartAge)
	setInt(&p.NationalPensionStartAge, config.Profile.NationalPensionStartAge)
	setInt(&p.SimulationStartYear, config.Simulation.StartYear)
	setInt(&p.SimulationStartMonth, config.Simulation.StartMonth)
	setInt(&p.TargetBufferMonths, config.Simulation.TargetBufferMonths)

	setDecimal(&p.CorpSalary, config.Corporate.Salary)
	setDecimal(&p.CorpFixedCost, config.Corporate.FixedCost)
	setInt(&p.CorpEmployeeCount, config.Corporate.EmployeeCount)

	err := p.Validate()
	if len(invalid) > 0 {
		var ce *domain.ConfigurationError
		if !errors.As(err, &ce) {
			ce = &domain.ConfigurationError{}
		}
		ce.Invalid = append(invalid, ce.Invalid...)
		err = ce
	}
	if err != nil {
		return domain.InitialAssets{}, domain.SimulationParams{}, err
	}
	return config.InitialAssets, p, nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setDecimal(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

// SaveToFile writes a configuration as YAML.
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	intp := func(v int) *int { return &v }
	decp := func(v int64) *decimal.Decimal { d := decimal.NewFromInt(v); return &d }
	ratep := func(v float64) *decimal.Decimal { d := decimal.NewFromFloat(v); return &d }

	return &domain.Configuration{
		Profile: domain.HouseholdProfile{
			BirthYear:               intp(1970),
			BirthMonth:              intp(1),
			PrivatePensionStartAge:  intp(55),
			NationalPensionStartAge: intp(65),
			NationalPensionAmount:   decimal.NewFromInt(1_500_000),
			PropertyValue:           decimal.NewFromInt(1_000_000_000),
		},
		InitialAssets: domain.InitialAssets{
			Corp:    decimal.NewFromInt(1_600_000_000),
			Pension: decimal.NewFromInt(600_000_000),
		},
		Corporate: domain.CorporateSettings{
			Salary:               decp(2_500_000),
			FixedCost:            decp(500_000),
			EmployeeCount:        intp(1),
			MonthlyLoanRepayment: decimal.NewFromInt(6_500_000),
		},
		Simulation: domain.SimulationSettings{
			StartYear:          intp(2025),
			StartMonth:         intp(1),
			TargetBufferMonths: intp(30),
		},
		Assumptions: map[string]domain.Assumption{
			"v1": {
				Name:                  "Baseline",
				TargetMonthlyCashflow: decp(9_000_000),
				InflationRate:         ratep(0.025),
				MarketReturnRate:      ratep(0.0485),
			},
			"conservative": {
				Name:                  "Conservative",
				TargetMonthlyCashflow: decp(9_000_000),
				InflationRate:         ratep(0.035),
				MarketReturnRate:      ratep(0.035),
			},
		},
		ActiveAssumptionID: "v1",
		PlannedCashflows: []domain.PlannedCashflow{
			{
				Label:     "Apartment down-size",
				Year:      2030,
				Month:     6,
				Amount:    decimal.NewFromInt(300_000_000),
				Direction: domain.DirectionInflow,
				Entity:    domain.EntityCorp,
			},
		},
		Tax: domain.DefaultTaxConfig(),
	}
}
