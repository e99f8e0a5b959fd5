package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// CSVDetailedExporter writes one row per retained monthly snapshot.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(result *domain.SimulationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Date", "Age", "Phase", "Growth", "Income", "Bond", "CashBuffer", "CorpBalance", "PensionBalance", "NetWorth", "TargetCashflow", "PrivatePension", "NationalPension", "CorpOperatingCost", "LoanRepaid", "LoanBalance", "State", "TargetAsset", "Reason"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range result.MonthlyData {
		row := []string{
			intToString(s.Month),
			snapshotDate(s),
			intToString(s.Age),
			string(s.Phase),
			s.Tiers.Growth.StringFixed(0),
			s.Tiers.Income.StringFixed(0),
			s.Tiers.Bond.StringFixed(0),
			s.Tiers.CashBuffer.StringFixed(0),
			s.CorpBalance.StringFixed(0),
			s.PensionBalance.StringFixed(0),
			s.NetWorth.StringFixed(0),
			s.TargetCashflow.StringFixed(0),
			s.PrivatePensionDraw.StringFixed(0),
			s.NationalPensionDraw.StringFixed(0),
			s.CorpOperatingCost.StringFixed(0),
			s.LoanRepaid.StringFixed(0),
			s.LoanBalance.StringFixed(0),
			string(s.State),
			string(s.TargetAsset),
			s.Reason,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
