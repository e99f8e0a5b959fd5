package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/retirement-runway/internal/calculation"
	"github.com/rpgo/retirement-runway/internal/domain"
)

// FormatEntityComparison renders the corporate-versus-personal holding table.
func FormatEntityComparison(cmp calculation.EntityComparison) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "ENTITY COMPARISON")
	fmt.Fprintln(&buf, "=================")
	fmt.Fprintf(&buf, "Assets: %s\n\n", FormatCurrency(cmp.Assets))
	fmt.Fprintf(&buf, "%-26s %20s %20s\n", "", "Corporate", "Personal")
	row := func(label, corp, personal string) {
		fmt.Fprintf(&buf, "%-26s %20s %20s\n", label, corp, personal)
	}
	row("Annual revenue", FormatCurrency(cmp.Corp.AnnualRevenue), FormatCurrency(cmp.Personal.AnnualRevenue))
	row("Annual expenses", FormatCurrency(cmp.Corp.AnnualExpenses), "-")
	row("Tax", FormatCurrency(cmp.Corp.CorpTax), FormatCurrency(cmp.Personal.IncomeTax))
	row("Health premium (annual)", "-", FormatCurrency(cmp.Personal.AnnualHealthPremium))
	row("Household income (month)", FormatCurrency(cmp.Corp.HouseholdIncome), FormatCurrency(cmp.Personal.HouseholdIncome))
	row("After-tax CAGR", FormatRate(cmp.Corp.AfterTaxCAGR), FormatRate(cmp.Personal.AfterTaxCAGR))
	fmt.Fprintln(&buf)

	preferred := "personal holding"
	if cmp.Preferred == domain.EntityCorp {
		preferred = "corporate holding"
	}
	fmt.Fprintf(&buf, "Preferred: %s (monthly gap %s)\n", preferred, FormatCurrency(cmp.MonthlyIncomeGap))
	return buf.Bytes()
}
