package dateutil

import (
	"fmt"
	"time"
)

// YearMonthLayout is the layout used for calendar months in reports and config.
const YearMonthLayout = "2006-01"

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeAtMonth returns the attained age in whole years at a calendar month.
// Birthdays are treated as falling on the first of the birth month, so the
// age increments in the birth month itself.
func AgeAtMonth(birthYear, birthMonth, year, month int) int {
	age := year - birthYear
	if month < birthMonth {
		age--
	}
	return age
}

// AddMonths advances (year, month) by n months. n may be negative.
func AddMonths(year, month, n int) (int, int) {
	idx := year*12 + (month - 1) + n
	y := idx / 12
	m := idx%12 + 1
	if idx < 0 && idx%12 != 0 {
		y--
		m = idx%12 + 13
	}
	return y, m
}

// MonthIndex returns the calendar month reached after `step` months of a
// simulation that starts at (startYear, startMonth). Step 1 is the start month.
func MonthIndex(startYear, startMonth, step int) (int, int) {
	return AddMonths(startYear, startMonth, step-1)
}

// MonthsBetween returns the number of months from (y1, m1) to (y2, m2).
func MonthsBetween(y1, m1, y2, m2 int) int {
	return (y2*12 + m2) - (y1*12 + m1)
}

// FormatYearMonth renders a calendar month as YYYY-MM.
func FormatYearMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseYearMonth parses YYYY-MM.
func ParseYearMonth(s string) (int, int, error) {
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}

// YearsUntilDate calculates the number of years between two dates
func YearsUntilDate(fromDate, toDate time.Time) float64 {
	duration := toDate.Sub(fromDate)
	return duration.Hours() / 24 / 365.25
}
