package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// MarkdownFormatter renders the summary and signals as a Markdown document,
// suitable for pasting into notes or an issue.
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	sum := result.Summary

	fmt.Fprintln(&buf, "# Retirement Runway")
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "**%s.**\n\n", Outlook(result))
	fmt.Fprintln(&buf, "| Metric | Value |")
	fmt.Fprintln(&buf, "|---|---|")
	if sum.ActiveStressScenario != "" {
		fmt.Fprintf(&buf, "| Stress scenario | %s |\n", sum.ActiveStressScenario)
	}
	fmt.Fprintf(&buf, "| Survival | %d years (%d months) |\n", sum.TotalSurvivalYears, result.SurvivalMonths)
	fmt.Fprintf(&buf, "| Final net worth | %s |\n", FormatCurrency(sum.FinalNetWorth))
	fmt.Fprintf(&buf, "| 10%% cut covers horizon | %s |\n", boolToString(sum.InfiniteWith10PctCut))
	if sum.GrowthSellStartDate != "" {
		fmt.Fprintf(&buf, "| First growth sale | %s |\n", sum.GrowthSellStartDate)
	}
	if sum.BufferExhaustionDate != "" {
		fmt.Fprintf(&buf, "| Cash buffer exhausted | %s |\n", sum.BufferExhaustionDate)
	}

	if len(sum.Signals) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "## Signals")
		fmt.Fprintln(&buf)
		for _, s := range sum.Signals {
			fmt.Fprintf(&buf, "- **%s** `%s`: %s\n", s.Level, s.Kind, s.Message)
		}
	}
	return buf.Bytes(), nil
}
