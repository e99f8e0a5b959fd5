package output

import (
	"strings"
	"testing"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestResult() *domain.SimulationResult {
	var snaps []domain.MonthlySnapshot
	for m := 1; m <= 24; m++ {
		year, month := 2025+(m-1)/12, (m-1)%12+1
		state, reason := domain.StateIdle, domain.ReasonBufferOK
		var asset domain.AssetTier
		if m == 7 {
			state, asset, reason = domain.SellTierState(domain.TierGrowth), domain.TierGrowth, domain.ReasonRechargeBuffer
		}
		tiers := domain.TierBalances{
			Growth:     decimal.NewFromInt(int64(1_000_000_000 - m*1_000_000)),
			Income:     decimal.NewFromInt(400_000_000),
			Bond:       decimal.NewFromInt(300_000_000),
			CashBuffer: decimal.NewFromInt(200_000_000),
		}
		snaps = append(snaps, domain.MonthlySnapshot{
			Month: m, Year: year, CalendarMonth: month, Age: 55 + (m-1)/12,
			Phase:              domain.PhasePrivatePension,
			Tiers:              tiers,
			NetWorth:           tiers.Total(),
			TargetCashflow:     decimal.NewFromInt(9_000_000),
			PrivatePensionDraw: decimal.NewFromInt(3_000_000),
			State:              state, TargetAsset: asset, Reason: reason,
		})
	}
	return &domain.SimulationResult{
		SurvivalMonths:  360,
		MonthsRequested: 360,
		MonthlyData:     snaps,
		Assumptions:     []string{"Inflation: 2.50% annually, applied monthly"},
		Summary: domain.Summary{
			TotalSurvivalYears:  30,
			IsPermanent:         true,
			FinalNetWorth:       decimal.NewFromInt(833_000_000),
			GrowthSellStartDate: "2025-07",
			Signals: []domain.Signal{
				{Kind: domain.SignalMarketPanic, Level: domain.LevelRed, Asset: domain.TierGrowth, Message: "Market down 30%", Suggestion: "Hold growth assets", Month: 1},
				{Kind: domain.SignalTaxWarning, Level: domain.LevelYellow, Message: "Corporate profit near the high bracket", Month: 12},
			},
		},
	}
}

func TestConsoleLiteFormatter(t *testing.T) {
	f := ConsoleFormatter{}
	out, err := f.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Survival: 30 years (360 months)", "First Growth Sale: 2025-07", "Signals: 1 red, 1 yellow", "covers the full 30-year horizon"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got: %s", want, content)
		}
	}
	if strings.Contains(content, "Cash Buffer Exhausted") {
		t.Fatalf("buffer marker should be omitted when unset")
	}
}

func TestConsoleVerboseFormatter(t *testing.T) {
	f := ConsoleVerboseFormatter{}
	out, err := f.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "DETAILED RETIREMENT RUNWAY ANALYSIS") {
		t.Fatalf("expected verbose heading, got: %s", content[:120])
	}
	if !strings.Contains(content, "KEY ASSUMPTIONS:") || !strings.Contains(content, "Inflation: 2.50%") {
		t.Fatalf("expected assumptions section")
	}
	if !strings.Contains(content, "[RED] MARKET_PANIC GROWTH (month 1)") {
		t.Fatalf("expected red signal line, got: %s", content)
	}
	if !strings.Contains(content, "2025   55") || !strings.Contains(content, "2026   56") {
		t.Fatalf("expected one table row per year, got: %s", content)
	}
}

func TestConsoleVerboseNoSignals(t *testing.T) {
	res := buildTestResult()
	res.Summary.Signals = nil
	out, err := ConsoleVerboseFormatter{}.Format(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "SIGNALS\n=======\nNone") {
		t.Fatalf("expected explicit empty signal section")
	}
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d", len(lines))
	}
	if lines[1] != "BASE,360,30,true,false,833000000,2025-07,,1,1" {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestCSVDetailedExporter(t *testing.T) {
	out, err := CSVDetailedExporter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 25 {
		t.Fatalf("expected header plus 24 months, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Month,Date,Age,Phase,Growth") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[7], "7,2025-07,55,PRIVATE_PENSION,993000000,") {
		t.Fatalf("unexpected month 7 row: %s", lines[7])
	}
	if !strings.HasSuffix(lines[7], "SELL_TIER_GROWTH,GROWTH,RECHARGE_BUFFER") {
		t.Fatalf("month 7 decision missing: %s", lines[7])
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{`"total_survival_years": 30`, `"growth_asset_sell_start_date": "2025-07"`, `"monthly_data": [`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %s in JSON output", want)
		}
	}
}

func TestHTMLFormatterBasic(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "<h2>Summary</h2>") || !strings.Contains(content, "Key Assumptions") {
		t.Fatalf("expected summary and assumptions sections in HTML output")
	}
	if strings.Count(content, "<tr><td>") != 2 {
		t.Fatalf("expected two yearly rows in HTML output")
	}
	if !strings.Contains(content, `class="RED"`) {
		t.Fatalf("expected red signal styling")
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := MarkdownFormatter{}.Format(buildTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.HasPrefix(content, "# Retirement Runway") {
		t.Fatalf("missing heading: %s", content)
	}
	if !strings.Contains(content, "- **RED** `MARKET_PANIC`: Market down 30%") {
		t.Fatalf("missing signal bullet: %s", content)
	}
}

func TestFormatterAliasResolution(t *testing.T) {
	cases := map[string]string{
		"console-verbose": "console",
		"summary":         "console-lite",
		"Monthly-CSV":     "detailed-csv",
		"md":              "markdown",
		"json":            "json",
	}
	for alias, want := range cases {
		f := GetFormatterByName(alias)
		if f == nil {
			t.Fatalf("alias %s did not resolve to a formatter", alias)
		}
		if f.Name() != want {
			t.Fatalf("alias %s resolved to %q, want %q", alias, f.Name(), want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("unknown format resolved")
	}
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "survival", F: func(r *domain.SimulationResult) ([]byte, error) {
		return []byte(intToString(r.SurvivalMonths)), nil
	}}
	out, err := f.Format(buildTestResult())
	if err != nil || string(out) != "360" || f.Name() != "survival" {
		t.Fatalf("FormatterFunc = %q, %v", out, err)
	}
}
