package calculation

import (
	"math"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Corporate tax: two brackets (9% up to 200M, 19% above). No local surtax.
//
// 2. Payroll: employee pension/health/employment insurance plus a flat income
//    tax estimate, all proportional to salary. The employer matches the three
//    insurance rates.
//
// 3. Local health insurance: property and income points times the point unit
//    price, plus the long-term-care surcharge. Points are a simplified fit of
//    the official tables.
//
// 4. Personal financial income: 15.4% withholding up to 20M per year, 26.4%
//    blended rate above it.

// TaxBracket represents a progressive tax bracket. A zero Max means unbounded.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// progressiveTax applies brackets to a non-negative base.
func progressiveTax(base decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if base.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	var total decimal.Decimal
	for _, b := range brackets {
		if base.LessThanOrEqual(b.Min) {
			break
		}
		upper := base
		if !b.Max.IsZero() {
			upper = decimal.Min(base, b.Max)
		}
		inBracket := upper.Sub(b.Min)
		if inBracket.IsPositive() {
			total = total.Add(inBracket.Mul(b.Rate))
		}
	}
	return total
}

func twoBrackets(threshold, low, high decimal.Decimal) []TaxBracket {
	return []TaxBracket{
		{Min: decimal.Zero, Max: threshold, Rate: low},
		{Min: threshold, Rate: high},
	}
}

// TaxEngine computes corporate and personal tax and insurance costs. It holds
// only an immutable rate table, so engines for different tax years can coexist.
type TaxEngine struct {
	cfg               domain.TaxConfig
	corpBrackets      []TaxBracket
	financialBrackets []TaxBracket
}

// NewTaxEngine builds an engine; zero rates in cfg fall back to DefaultTaxConfig.
func NewTaxEngine(cfg domain.TaxConfig) *TaxEngine {
	cfg = cfg.WithDefaults()
	return &TaxEngine{
		cfg:               cfg,
		corpBrackets:      twoBrackets(cfg.CorpTaxThreshold, cfg.CorpTaxLowRate, cfg.CorpTaxHighRate),
		financialBrackets: twoBrackets(cfg.FinancialIncomeThreshold, cfg.FinancialIncomeLowRate, cfg.FinancialIncomeHighRate),
	}
}

// Config returns the effective rate table.
func (te *TaxEngine) Config() domain.TaxConfig { return te.cfg }

// CorpTax returns the corporate tax on an annual profit. Losses owe nothing.
func (te *TaxEngine) CorpTax(profit decimal.Decimal) decimal.Decimal {
	return progressiveTax(profit, te.corpBrackets)
}

// SalaryBreakdown is the employee side of one month's payroll.
type SalaryBreakdown struct {
	Gross      decimal.Decimal `json:"gross"`
	NetSalary  decimal.Decimal `json:"net_salary"`
	Deductions decimal.Decimal `json:"deductions"`
	Pension    decimal.Decimal `json:"pension"`
	Health     decimal.Decimal `json:"health"`
	Employment decimal.Decimal `json:"employment"`
	IncomeTax  decimal.Decimal `json:"income_tax"`
}

// IncomeTax splits a monthly salary into deductions and net pay.
func (te *TaxEngine) IncomeTax(monthlySalary decimal.Decimal) SalaryBreakdown {
	salary := decimal.Max(monthlySalary, decimal.Zero)
	pension := salary.Mul(te.cfg.PensionRate)
	health := salary.Mul(te.cfg.HealthRate)
	employment := salary.Mul(te.cfg.EmploymentRate)
	incomeTax := salary.Mul(te.cfg.IncomeTaxEstimateRate)

	total := pension.Add(health).Add(employment).Add(incomeTax)
	return SalaryBreakdown{
		Gross:      salary,
		NetSalary:  salary.Sub(total),
		Deductions: total,
		Pension:    pension,
		Health:     health,
		Employment: employment,
		IncomeTax:  incomeTax,
	}
}

var oneMillion = decimal.NewFromInt(1_000_000)

// PropertyPoints scores property above the basic deduction on a log scale.
func (te *TaxEngine) PropertyPoints(propertyVal decimal.Decimal) int {
	taxable := propertyVal.Sub(te.cfg.PropertyBasicDeduction)
	if !taxable.IsPositive() {
		return 0
	}
	millions := math.Max(1, taxable.Div(oneMillion).InexactFloat64())
	return int(math.Max(0, 100*math.Log10(millions)))
}

// IncomePoints scores annual income above the exemption floor: 20 points per million.
func (te *TaxEngine) IncomePoints(annualIncome decimal.Decimal) int {
	if annualIncome.LessThanOrEqual(te.cfg.IncomeExemptionFloor) {
		return 0
	}
	return int(annualIncome.Div(oneMillion).Mul(decimal.NewFromInt(20)).IntPart())
}

// LocalHealthInsurance returns the monthly local health insurance premium.
func (te *TaxEngine) LocalHealthInsurance(propertyVal, annualIncome decimal.Decimal) decimal.Decimal {
	points := te.PropertyPoints(propertyVal) + te.IncomePoints(annualIncome)
	base := decimal.NewFromInt(int64(points)).Mul(te.cfg.PointUnitPrice)
	return base.Mul(decimal.NewFromInt(1).Add(te.cfg.LongTermCareRate))
}

// CorpProfitability is the annual picture of the corporate entity.
type CorpProfitability struct {
	AnnualRevenue     decimal.Decimal `json:"annual_revenue"`
	AnnualExpenses    decimal.Decimal `json:"annual_expenses"`
	EmployerInsurance decimal.Decimal `json:"employer_insurance"`
	TaxBase           decimal.Decimal `json:"tax_base"`
	CorpTax           decimal.Decimal `json:"corp_tax"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	HouseholdIncome   decimal.Decimal `json:"household_income"`
	AfterTaxCAGR      decimal.Decimal `json:"after_tax_cagr"`
}

// MonthlyOperatingCost is what the corporation pays out each month:
// payroll, employer insurance and fixed cost.
func (cp CorpProfitability) MonthlyOperatingCost() decimal.Decimal {
	return cp.AnnualExpenses.Div(decimal.NewFromInt(12))
}

// CorpProfitability computes revenue, expenses and tax for assets held in the
// corporation. Salary, fixed cost and loan repayment are monthly amounts.
func (te *TaxEngine) CorpProfitability(assets, returnRate, monthlySalary, fixedCost, loanRepayment decimal.Decimal) CorpProfitability {
	twelve := decimal.NewFromInt(12)
	annualRevenue := assets.Mul(returnRate)

	employerInsurance := monthlySalary.Mul(te.cfg.EmployerInsuranceRate()).Mul(twelve)
	annualExpenses := fixedCost.Mul(twelve).Add(monthlySalary.Mul(twelve)).Add(employerInsurance)

	taxBase := decimal.Max(decimal.Zero, annualRevenue.Sub(annualExpenses))
	corpTax := te.CorpTax(taxBase)
	netProfit := annualRevenue.Sub(annualExpenses).Sub(corpTax)

	salary := te.IncomeTax(monthlySalary)
	cagr := decimal.Zero
	if assets.IsPositive() {
		cagr = netProfit.Sub(loanRepayment.Mul(twelve)).Div(assets)
	}

	return CorpProfitability{
		AnnualRevenue:     annualRevenue,
		AnnualExpenses:    annualExpenses,
		EmployerInsurance: employerInsurance,
		TaxBase:           taxBase,
		CorpTax:           corpTax,
		NetProfit:         netProfit,
		HouseholdIncome:   salary.NetSalary.Add(loanRepayment),
		AfterTaxCAGR:      cagr,
	}
}

// PersonalProfitability is the annual picture of holding the same assets personally.
type PersonalProfitability struct {
	AnnualRevenue       decimal.Decimal `json:"annual_revenue"`
	IncomeTax           decimal.Decimal `json:"income_tax"`
	AnnualHealthPremium decimal.Decimal `json:"annual_health_premium"`
	HouseholdIncome     decimal.Decimal `json:"household_income"`
	AfterTaxYield       decimal.Decimal `json:"after_tax_yield"` // percent
	AfterTaxCAGR        decimal.Decimal `json:"after_tax_cagr"`  // fraction
}

// PersonalProfitability computes the after-tax monthly income of holding assets
// personally, including the local health insurance the income triggers.
func (te *TaxEngine) PersonalProfitability(assets, returnRate, propertyVal decimal.Decimal) PersonalProfitability {
	annualRevenue := decimal.Max(decimal.Zero, assets.Mul(returnRate))
	incomeTax := progressiveTax(annualRevenue, te.financialBrackets)
	annualHealth := te.LocalHealthInsurance(propertyVal, annualRevenue).Mul(decimal.NewFromInt(12))
	annualNet := annualRevenue.Sub(incomeTax).Sub(annualHealth)

	yield, cagr := decimal.Zero, decimal.Zero
	if assets.IsPositive() {
		cagr = annualNet.Div(assets)
		yield = cagr.Mul(decimal.NewFromInt(100))
	}

	return PersonalProfitability{
		AnnualRevenue:       annualRevenue,
		IncomeTax:           incomeTax,
		AnnualHealthPremium: annualHealth,
		HouseholdIncome:     annualNet.Div(decimal.NewFromInt(12)),
		AfterTaxYield:       yield,
		AfterTaxCAGR:        cagr,
	}
}

// EntityComparison sets the corporate and personal pictures side by side for
// the same asset base.
type EntityComparison struct {
	Assets   decimal.Decimal       `json:"assets"`
	Corp     CorpProfitability     `json:"corp"`
	Personal PersonalProfitability `json:"personal"`

	// MonthlyIncomeGap is corp minus personal monthly household income.
	MonthlyIncomeGap decimal.Decimal `json:"monthly_income_gap"`
	Preferred        domain.Entity   `json:"preferred"`
}

// CompareEntities runs both profitability models over the same inputs.
// Ties go to personal holding since it carries no operating overhead.
func (te *TaxEngine) CompareEntities(assets, returnRate, monthlySalary, fixedCost, loanRepayment, propertyVal decimal.Decimal) EntityComparison {
	corp := te.CorpProfitability(assets, returnRate, monthlySalary, fixedCost, loanRepayment)
	personal := te.PersonalProfitability(assets, returnRate, propertyVal)
	gap := corp.HouseholdIncome.Sub(personal.HouseholdIncome)

	preferred := domain.EntityPension
	if gap.IsPositive() {
		preferred = domain.EntityCorp
	}
	return EntityComparison{
		Assets:           assets,
		Corp:             corp,
		Personal:         personal,
		MonthlyIncomeGap: gap,
		Preferred:        preferred,
	}
}

// CompareParams compares the two holding structures for corpAssets using the
// salary, cost, loan and property settings of a run.
func (te *TaxEngine) CompareParams(corpAssets decimal.Decimal, params domain.SimulationParams) EntityComparison {
	payroll := params.CorpSalary.Mul(decimal.NewFromInt(int64(params.CorpEmployeeCount)))
	return te.CompareEntities(corpAssets, params.MarketReturnRate, payroll, params.CorpFixedCost, params.MonthlyLoanRepayment, params.PropertyValue)
}
