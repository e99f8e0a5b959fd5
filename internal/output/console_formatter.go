package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	sum := result.Summary
	fmt.Fprintln(&buf, "RETIREMENT RUNWAY SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if sum.ActiveStressScenario != "" {
		fmt.Fprintf(&buf, "Stress Scenario: %s\n", sum.ActiveStressScenario)
	}
	fmt.Fprintf(&buf, "Survival: %d years (%d months)\n", sum.TotalSurvivalYears, result.SurvivalMonths)
	fmt.Fprintf(&buf, "Permanent=%s CutRescues=%s\n", boolToString(sum.IsPermanent), boolToString(sum.InfiniteWith10PctCut))
	fmt.Fprintf(&buf, "Final Net Worth: %s\n", FormatCurrency(sum.FinalNetWorth))
	writeMarkers(&buf, sum)

	red, yellow := SignalsByLevel(sum.Signals)
	fmt.Fprintf(&buf, "Signals: %d red, %d yellow\n", len(red), len(yellow))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, Outlook(result))
	return buf.Bytes(), nil
}

func writeMarkers(buf *bytes.Buffer, sum domain.Summary) {
	if sum.GrowthSellStartDate != "" {
		fmt.Fprintf(buf, "First Growth Sale: %s\n", sum.GrowthSellStartDate)
	}
	if sum.BufferExhaustionDate != "" {
		fmt.Fprintf(buf, "Cash Buffer Exhausted: %s\n", sum.BufferExhaustionDate)
	}
}
