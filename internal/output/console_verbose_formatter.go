package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report: assumptions,
// a year-by-year table and every signal raised.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	sum := result.Summary

	fmt.Fprintln(&buf, strings.Repeat("=", 97))
	fmt.Fprintln(&buf, "DETAILED RETIREMENT RUNWAY ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 97))
	fmt.Fprintln(&buf)

	if len(result.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range result.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "OUTCOME")
	fmt.Fprintln(&buf, "=======")
	fmt.Fprintln(&buf, Outlook(result))
	if sum.ActiveStressScenario != "" {
		fmt.Fprintf(&buf, "Stress Scenario:       %s\n", sum.ActiveStressScenario)
	}
	fmt.Fprintf(&buf, "Survival:              %d years (%d of %d months)\n", sum.TotalSurvivalYears, result.SurvivalMonths, result.MonthsRequested)
	fmt.Fprintf(&buf, "Final Net Worth:       %s\n", FormatCurrency(sum.FinalNetWorth))
	fmt.Fprintf(&buf, "With 10%% Spending Cut: %s\n", permanentLabel(sum.InfiniteWith10PctCut))
	writeMarkers(&buf, sum)
	fmt.Fprintln(&buf)

	writeYearTable(&buf, RollupByYear(result.MonthlyData))
	writeSignals(&buf, sum.Signals)
	return buf.Bytes(), nil
}

func permanentLabel(ok bool) string {
	if ok {
		return "covers the horizon"
	}
	return "still short"
}

func writeYearTable(buf *bytes.Buffer, years []YearRollup) {
	if len(years) == 0 {
		return
	}
	fmt.Fprintln(buf, "YEAR-BY-YEAR")
	fmt.Fprintln(buf, strings.Repeat("-", 97))
	fmt.Fprintf(buf, "%-6s %-4s %-17s %-18s %-18s %-18s %s\n", "Year", "Age", "Phase", "Spending", "Pensions", "Cash Buffer", "Net Worth")
	for _, y := range years {
		pensions := y.PrivatePension.Add(y.NationalPension)
		fmt.Fprintf(buf, "%-6d %-4d %-17s %-18s %-18s %-18s %s\n",
			y.Year, y.Age, y.Phase,
			FormatCurrency(y.TargetCashflow),
			FormatCurrency(pensions),
			FormatCurrency(y.Tiers.CashBuffer),
			FormatCurrency(y.NetWorth),
		)
	}
	fmt.Fprintln(buf)
}

func writeSignals(buf *bytes.Buffer, signals []domain.Signal) {
	fmt.Fprintln(buf, "SIGNALS")
	fmt.Fprintln(buf, "=======")
	if len(signals) == 0 {
		fmt.Fprintln(buf, "None")
		return
	}
	for _, s := range signals {
		asset := ""
		if s.Asset != "" {
			asset = " " + string(s.Asset)
		}
		fmt.Fprintf(buf, "[%s] %s%s (month %d): %s\n", s.Level, s.Kind, asset, s.Month, s.Message)
		if s.Suggestion != "" {
			fmt.Fprintf(buf, "       → %s\n", s.Suggestion)
		}
	}
}
