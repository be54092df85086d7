// Package report turns the aggregates of an enrichment pass into the
// opportunities, methodology and executive memo sections and the console
// summary.
package report

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats v as whole US dollars with thousands separators: $1,234,567.
func Money(v float64) string {
	return printer.Sprintf("$%.0f", math.Round(v))
}

// MoneyCents formats v with cents: $1,234,567.50.
func MoneyCents(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Compact formats v in the short form used in memo prose: $7.89M, $850K.
func Compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return printer.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return printer.Sprintf("$%.0fK", v/1e3)
	default:
		return Money(v)
	}
}

// Percent formats an already-scaled percentage: 39.5%.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Fraction formats a 0..1 rate as a whole percentage: 0.35 -> 35%.
func Fraction(v float64) string {
	return printer.Sprintf("%.0f%%", v*100)
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}

// Upper upper-cases s for memo headings. A Caser holds state, so each call
// builds its own.
func Upper(s string) string {
	return cases.Upper(language.English).String(s)
}
