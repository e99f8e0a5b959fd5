package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per run).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "SurvivalMonths", "SurvivalYears", "IsPermanent", "InfiniteWith10PctCut", "FinalNetWorth", "GrowthSellStart", "BufferExhausted", "RedSignals", "YellowSignals"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	sum := result.Summary
	scenario := sum.ActiveStressScenario
	if scenario == "" {
		scenario = "BASE"
	}
	red, yellow := SignalsByLevel(sum.Signals)
	row := []string{
		scenario,
		intToString(result.SurvivalMonths),
		intToString(sum.TotalSurvivalYears),
		boolToString(sum.IsPermanent),
		boolToString(sum.InfiniteWith10PctCut),
		sum.FinalNetWorth.StringFixed(0),
		sum.GrowthSellStartDate,
		sum.BufferExhaustionDate,
		intToString(len(red)),
		intToString(len(yellow)),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
