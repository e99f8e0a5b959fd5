package calculation

import (
	"context"
	"fmt"
	"math"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	// StandardHorizonMonths is the length of the primary projection.
	StandardHorizonMonths = 360
	// PerpetualHorizonMonths is how long the reduced-spending pass must survive
	// to count as perpetual.
	PerpetualHorizonMonths = 1200

	defaultTargetBufferMonths = 30
	balancePrecision          = 4
)

// SpendingCutFactor is the share of the target spent in the reduced-spending pass.
var SpendingCutFactor = decimal.NewFromFloat(0.9)

// ProjectionEngine runs the month-by-month runway simulation.
type ProjectionEngine struct {
	Tax           *TaxEngine
	Triggers      *TriggerEngine
	Rebalance     *RebalanceEngine
	TargetWeights map[domain.AssetTier]decimal.Decimal
	Logger        Logger
}

// NewProjectionEngine wires the helper engines. Nil arguments take defaults.
func NewProjectionEngine(tax *TaxEngine, triggers *TriggerEngine, rebalance *RebalanceEngine, logger Logger) *ProjectionEngine {
	if tax == nil {
		tax = NewTaxEngine(domain.DefaultTaxConfig())
	}
	if triggers == nil {
		triggers = NewTriggerEngine()
	}
	if rebalance == nil {
		rebalance = NewRebalanceEngine()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &ProjectionEngine{
		Tax:           tax,
		Triggers:      triggers,
		Rebalance:     rebalance,
		TargetWeights: DefaultTargetWeights(),
		Logger:        logger,
	}
}

// SetLogger sets the logger. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// Run30YearSimulation runs the standard 360-month projection and, concurrently,
// a pass at 90% of the target to decide whether reduced spending is perpetual.
// Params are validated first; a *domain.ConfigurationError is returned before
// any month is simulated.
func (pe *ProjectionEngine) Run30YearSimulation(ctx context.Context, assets domain.InitialAssets, params domain.SimulationParams) (*domain.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cut := params.Clone()
	cut.TargetMonthlyCashflow = cut.TargetMonthlyCashflow.Mul(SpendingCutFactor)

	type pass struct {
		res *domain.SimulationResult
		err error
	}
	cutCh := make(chan pass, 1)
	go func() {
		res, err := pe.run(ctx, assets, cut, PerpetualHorizonMonths, false)
		cutCh <- pass{res, err}
	}()

	result, err := pe.run(ctx, assets, params, StandardHorizonMonths, true)
	cutPass := <-cutCh
	if err != nil {
		return nil, fmt.Errorf("standard pass: %w", err)
	}
	if cutPass.err != nil {
		return nil, fmt.Errorf("reduced spending pass: %w", cutPass.err)
	}

	result.Summary.InfiniteWith10PctCut = cutPass.res.SurvivalMonths >= PerpetualHorizonMonths
	pe.Logger.Infof("runway: %d months (permanent=%t, perpetual with cut=%t)",
		result.SurvivalMonths, result.Summary.IsPermanent, result.Summary.InfiniteWith10PctCut)
	return result, nil
}

// RunMonths runs a single pass of up to months months.
func (pe *ProjectionEngine) RunMonths(ctx context.Context, assets domain.InitialAssets, params domain.SimulationParams, months int) (*domain.SimulationResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if months <= 0 || months > PerpetualHorizonMonths {
		return nil, fmt.Errorf("months must be between 1 and %d, got %d", PerpetualHorizonMonths, months)
	}
	return pe.run(ctx, assets, params, months, true)
}

// monthlyRate converts an annual rate to its geometric monthly equivalent.
func monthlyRate(annual decimal.Decimal) float64 {
	a := annual.InexactFloat64()
	if a <= -1 {
		return -1
	}
	return math.Pow(1+a, 1.0/12) - 1
}

// growthFactors returns the per-tier monthly multiplier.
func growthFactors(params domain.SimulationParams) map[domain.AssetTier]decimal.Decimal {
	market := monthlyRate(params.MarketReturnRate)
	factors := make(map[domain.AssetTier]decimal.Decimal, len(domain.AllTiers))
	for _, t := range domain.AllTiers {
		rate := market * t.YieldMultiplier().InexactFloat64()
		if t == domain.TierIncome {
			switch {
			case params.DividendYield != nil:
				rate = monthlyRate(*params.DividendYield)
			case !params.IncomeMultiplier.IsZero():
				rate *= params.IncomeMultiplier.InexactFloat64()
			}
		}
		factors[t] = decimal.NewFromFloat(math.Max(0, 1+rate))
	}
	return factors
}

// taxEngineFor uses the run's own rate table when one is supplied.
func (pe *ProjectionEngine) taxEngineFor(params domain.SimulationParams) *TaxEngine {
	if params.Tax == (domain.TaxConfig{}) {
		return pe.Tax
	}
	return NewTaxEngine(params.Tax)
}

// runState is the private mutable state of one pass.
type runState struct {
	tiers        domain.TierBalances
	loan         decimal.Decimal
	signals      []domain.Signal
	phase        domain.Phase
	bufferEmpty  string
	growthSale   string
	survival     int
	monthlyData  []domain.MonthlySnapshot
	collect      bool
	currentMonth int
}

func (rs *runState) addSignals(sigs []domain.Signal) {
	if !rs.collect || rs.currentMonth > domain.SnapshotRetentionMonths {
		return
	}
	for _, s := range sigs {
		s.Month = rs.currentMonth
		rs.signals = append(rs.signals, s)
	}
}

func (pe *ProjectionEngine) run(ctx context.Context, assets domain.InitialAssets, params domain.SimulationParams, months int, collect bool) (*domain.SimulationResult, error) {
	tax := pe.taxEngineFor(params)
	growth := growthFactors(params)

	bufferMonths := params.TargetBufferMonths
	if bufferMonths == 0 {
		bufferMonths = defaultTargetBufferMonths
	}
	annualInflation := params.InflationRate.InexactFloat64()
	employees := params.CorpEmployeeCount
	payroll := params.CorpSalary.Mul(decimal.NewFromInt(int64(employees)))

	st := &runState{
		tiers:   domain.AllocateInitialTiers(assets),
		loan:    decimal.Max(params.ShareholderLoanBalance, decimal.Zero),
		collect: collect,
	}
	retained := months
	if retained > domain.SnapshotRetentionMonths {
		retained = domain.SnapshotRetentionMonths
	}
	st.monthlyData = make([]domain.MonthlySnapshot, 0, retained)

	for m := 1; m <= months; m++ {
		if m%12 == 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		st.currentMonth = m

		year, month := dateutil.MonthIndex(params.SimulationStartYear, params.SimulationStartMonth, m)
		age := dateutil.AgeAtMonth(params.BirthYear, params.BirthMonth, year, month)

		pe.applyPlannedCashflows(st, params.PlannedCashflows, year, month)

		if m == 1 && params.MarketDrop.IsNegative() {
			drop := decimal.Max(decimal.Zero, decimal.NewFromInt(1).Add(params.MarketDrop))
			st.tiers.Growth = st.tiers.Growth.Mul(drop)
			st.tiers.Income = st.tiers.Income.Mul(drop)
			st.addSignals(pe.Triggers.CheckMarket(params.MarketDrop))
			pe.Logger.Debugf("month %d: %s applied, drop %s", m, params.StressEvent, params.MarketDrop)
		}

		for _, t := range domain.AllTiers {
			st.tiers.Set(t, st.tiers.Get(t).Mul(growth[t]))
		}

		phase := domain.PhaseForAge(age, params.PrivatePensionStartAge, params.NationalPensionStartAge)
		if phase != st.phase {
			pe.Logger.Debugf("month %d (%s): phase %s at age %d", m, dateutil.FormatYearMonth(year, month), phase, age)
			st.phase = phase
		}

		inflation := decimal.NewFromFloat(math.Pow(1+annualInflation, float64(m)/12))
		target := params.TargetMonthlyCashflow.Mul(inflation).Round(balancePrecision)

		privateDraw := decimal.Zero
		if age >= params.PrivatePensionStartAge && params.PrivatePensionWithdrawal.IsPositive() {
			want := params.PrivatePensionWithdrawal.Mul(inflation)
			rest := st.tiers.Debit(domain.TierIncome, want)
			rest = st.tiers.Debit(domain.TierBond, rest)
			privateDraw = want.Sub(rest)
		}
		nationalDraw := decimal.Zero
		if age >= params.NationalPensionStartAge && params.NationalPensionAmount.IsPositive() {
			nationalDraw = params.NationalPensionAmount.Mul(inflation)
		}

		corp := tax.CorpProfitability(st.tiers.CorpBalance(), params.MarketReturnRate, payroll, params.CorpFixedCost, params.MonthlyLoanRepayment)
		operatingCost := corp.MonthlyOperatingCost()
		st.tiers.Debit(domain.TierCashBuffer, operatingCost)

		shortfall := decimal.Max(decimal.Zero, target.Sub(privateDraw).Sub(nationalDraw))

		loanRepaid := decimal.Zero
		if st.loan.IsPositive() && shortfall.IsPositive() {
			loanRepaid = decimal.Min(shortfall, st.loan, st.tiers.CashBuffer)
			if params.MonthlyLoanRepayment.IsPositive() {
				loanRepaid = decimal.Min(loanRepaid, params.MonthlyLoanRepayment)
			}
			st.loan = st.loan.Sub(loanRepaid)
			st.tiers.Debit(domain.TierCashBuffer, loanRepaid)
			shortfall = shortfall.Sub(loanRepaid)
		}

		cascade := NewCascadeEngine(target.Mul(decimal.NewFromInt(int64(bufferMonths))))
		decision := cascade.LiquidationDecision(st.tiers)
		if shortfall.IsPositive() {
			cascade.Fund(&st.tiers, decision, shortfall)
			if decision.TargetAsset == domain.TierGrowth && st.growthSale == "" {
				st.growthSale = dateutil.FormatYearMonth(year, month)
			}
		}
		st.tiers = st.tiers.Round(balancePrecision)

		st.addSignals(pe.Triggers.CheckBuffer(st.tiers.CashBuffer, target))
		st.addSignals(pe.Triggers.CheckTax(corp.TaxBase))
		if m%12 == 0 {
			st.addSignals(pe.Rebalance.CheckRebalanceCondition(st.tiers, pe.TargetWeights))
			if total := st.tiers.Total(); total.IsPositive() {
				st.addSignals(pe.Triggers.CheckConcentration(st.tiers.Income.Div(total)))
			}
		}

		if st.tiers.CashBuffer.IsZero() && st.bufferEmpty == "" {
			st.bufferEmpty = dateutil.FormatYearMonth(year, month)
		}

		netWorth := st.tiers.Total()
		if m <= domain.SnapshotRetentionMonths {
			st.monthlyData = append(st.monthlyData, domain.MonthlySnapshot{
				Month:               m,
				Year:                year,
				CalendarMonth:       month,
				Age:                 age,
				Phase:               phase,
				Tiers:               st.tiers,
				CorpBalance:         st.tiers.CorpBalance(),
				PensionBalance:      st.tiers.PensionBalance(),
				NetWorth:            netWorth,
				TargetCashflow:      target,
				PrivatePensionDraw:  privateDraw.Round(balancePrecision),
				NationalPensionDraw: nationalDraw.Round(balancePrecision),
				CorpOperatingCost:   operatingCost.Round(balancePrecision),
				LoanRepaid:          loanRepaid,
				LoanBalance:         st.loan,
				State:               decision.State,
				TargetAsset:         decision.TargetAsset,
				Reason:              decision.Reason,
			})
		}

		if !netWorth.IsPositive() {
			pe.Logger.Debugf("month %d (%s): net worth exhausted", m, dateutil.FormatYearMonth(year, month))
			break
		}
		st.survival = m
	}

	return &domain.SimulationResult{
		Summary: domain.Summary{
			TotalSurvivalYears:   st.survival / 12,
			IsPermanent:          st.survival >= months,
			FinalNetWorth:        st.tiers.Total(),
			BufferExhaustionDate: st.bufferEmpty,
			GrowthSellStartDate:  st.growthSale,
			ActiveStressScenario: params.ActiveStressScenario,
			Signals:              DedupeSignals(st.signals),
		},
		SurvivalMonths:  st.survival,
		MonthsRequested: months,
		MonthlyData:     st.monthlyData,
	}, nil
}

// applyPlannedCashflows books the events scheduled for (year, month). An outflow
// larger than its tier spills onto the cash buffer.
func (pe *ProjectionEngine) applyPlannedCashflows(st *runState, events []domain.PlannedCashflow, year, month int) {
	for _, pc := range events {
		if !pc.Matches(year, month) {
			continue
		}
		tier := pc.Tier()
		amount := pc.SignedAmount()
		if amount.IsNegative() {
			rest := st.tiers.Debit(tier, amount.Neg())
			if tier != domain.TierCashBuffer {
				st.tiers.Debit(domain.TierCashBuffer, rest)
			}
		} else {
			st.tiers.Credit(tier, amount)
		}
		pe.Logger.Debugf("%s: planned %s %s on %s (%s)", dateutil.FormatYearMonth(year, month), pc.Direction, pc.Amount.Abs(), tier, pc.Label)
	}
}

type signalKey struct {
	kind  domain.SignalKind
	asset domain.AssetTier
}

// DedupeSignals keeps the first signal of each (kind, asset) pair, in order.
func DedupeSignals(signals []domain.Signal) []domain.Signal {
	seen := make(map[signalKey]struct{}, len(signals))
	out := make([]domain.Signal, 0, len(signals))
	for _, s := range signals {
		k := signalKey{s.Kind, s.Asset}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
