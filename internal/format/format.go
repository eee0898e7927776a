// Package format renders amounts and dates the way the dashboard shows them
// to Indonesian operators.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var shortMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

var longMonths = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var printer = message.NewPrinter(language.Indonesian)

// ShortMonth returns the abbreviated month name for a 0-based month index,
// or "" when the index is out of range.
func ShortMonth(month int) string {
	if month < 0 || month >= len(shortMonths) {
		return ""
	}
	return shortMonths[month]
}

// LongMonth returns the full month name for a 0-based month index.
func LongMonth(month int) string {
	if month < 0 || month >= len(longMonths) {
		return ""
	}
	return longMonths[month]
}

// Number groups thousands with the Indonesian separator, e.g. 1.250.000.
// Fractions are rounded away.
func Number(amount float64) string {
	return printer.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

// Currency renders an amount in Rupiah without decimals, e.g. "Rp 50.000".
func Currency(amount float64) string {
	return "Rp " + Number(amount)
}

// Date renders a day as "15 Jan 2025".
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), shortMonths[t.Month()-1], t.Year())
}

// DateTime renders a timestamp as "15 Jan 2025 09.30".
func DateTime(t time.Time) string {
	return fmt.Sprintf("%s %02d.%02d", Date(t), t.Hour(), t.Minute())
}

// MonthYear renders the month heading used by the monthly summary,
// e.g. "Oktober 2026".
func MonthYear(t time.Time) string {
	return fmt.Sprintf("%s %d", longMonths[t.Month()-1], t.Year())
}

// Percent renders an integer percentage.
func Percent(p int) string {
	return fmt.Sprintf("%d%%", p)
}

// Days renders a day count, e.g. "1 hari" or "3 hari".
func Days(d float64) string {
	return fmt.Sprintf("%s hari", trimFloat(d))
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
