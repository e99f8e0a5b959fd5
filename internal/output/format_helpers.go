package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/pkg/dateutil"
	money "github.com/rpgo/retirement-runway/pkg/decimal"
)

// FormatCurrency formats a decimal in the household currency (KRW, whole won).
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.025) as a percentage ("2.50%").
func FormatRate(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func snapshotDate(s domain.MonthlySnapshot) string {
	return dateutil.FormatYearMonth(s.Year, s.CalendarMonth)
}
