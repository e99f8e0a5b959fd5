package output

import (
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

// YearRollup condenses twelve monthly snapshots into one reporting row.
// Balances are taken from the last month of the year; flows are summed.
type YearRollup struct {
	Year  int
	Age   int
	Phase domain.Phase

	Tiers    domain.TierBalances
	NetWorth decimal.Decimal

	TargetCashflow  decimal.Decimal
	PrivatePension  decimal.Decimal
	NationalPension decimal.Decimal
	OperatingCost   decimal.Decimal
	LoanRepaid      decimal.Decimal

	// SaleMonths counts months in which a tier was sold to refill the buffer.
	SaleMonths      int
	EmergencyMonths int
}

// RollupByYear groups snapshots by calendar year, preserving order.
// Extracted from the verbose formatters for testability.
func RollupByYear(snapshots []domain.MonthlySnapshot) []YearRollup {
	var out []YearRollup
	for _, s := range snapshots {
		if len(out) == 0 || out[len(out)-1].Year != s.Year {
			out = append(out, YearRollup{Year: s.Year})
		}
		r := &out[len(out)-1]
		r.Age = s.Age
		r.Phase = s.Phase
		r.Tiers = s.Tiers
		r.NetWorth = s.NetWorth
		r.TargetCashflow = r.TargetCashflow.Add(s.TargetCashflow)
		r.PrivatePension = r.PrivatePension.Add(s.PrivatePensionDraw)
		r.NationalPension = r.NationalPension.Add(s.NationalPensionDraw)
		r.OperatingCost = r.OperatingCost.Add(s.CorpOperatingCost)
		r.LoanRepaid = r.LoanRepaid.Add(s.LoanRepaid)
		switch s.State {
		case domain.StateIdle:
		case domain.StateEmergency:
			r.EmergencyMonths++
		default:
			r.SaleMonths++
		}
	}
	return out
}

// Outlook is the one-line verdict shown at the top of reports.
func Outlook(result *domain.SimulationResult) string {
	switch {
	case result.Summary.IsPermanent:
		return "Runway covers the full 30-year horizon"
	case result.Summary.InfiniteWith10PctCut:
		return "Runway falls short, but a 10% spending cut would cover the horizon"
	default:
		return "Runway falls short of the 30-year horizon"
	}
}

// SignalsByLevel splits signals into red and yellow, keeping their order.
func SignalsByLevel(signals []domain.Signal) (red, yellow []domain.Signal) {
	for _, s := range signals {
		if s.Level == domain.LevelRed {
			red = append(red, s)
		} else {
			yellow = append(yellow, s)
		}
	}
	return red, yellow
}
