package output

import (
	"fmt"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// GenerateAssumptions creates the assumptions list from the parameters a run used.
func GenerateAssumptions(params domain.SimulationParams) []string {
	out := []string{
		fmt.Sprintf("Target monthly cashflow: %s in today's money", FormatCurrency(params.TargetMonthlyCashflow)),
		fmt.Sprintf("Inflation: %s annually, applied monthly", FormatRate(params.InflationRate)),
		fmt.Sprintf("Market return: %s annually, scaled per tier", FormatRate(params.MarketReturnRate)),
		fmt.Sprintf("Cash buffer target: %d months of spending", params.TargetBufferMonths),
		fmt.Sprintf("Private pension from age %d, national pension from age %d (%s/month)",
			params.PrivatePensionStartAge, params.NationalPensionStartAge, FormatCurrency(params.NationalPensionAmount)),
		fmt.Sprintf("Corporate salary %s x %d, fixed cost %s per month",
			FormatCurrency(params.CorpSalary), params.CorpEmployeeCount, FormatCurrency(params.CorpFixedCost)),
	}
	if params.ActiveStressScenario != "" {
		out = append(out, fmt.Sprintf("Stress scenario: %s", params.ActiveStressScenario))
	}
	if n := len(params.PlannedCashflows); n > 0 {
		out = append(out, fmt.Sprintf("Planned cashflows: %d event(s)", n))
	}
	return out
}
