// Package utils provides display formatting helpers for cleanmind.
//
// Every formatter accepts a possibly missing value and renders "N/A"
// instead of failing, so callers can pass upstream fields straight through.
package utils

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is rendered for null, NaN or infinite inputs.
const NotAvailable = "N/A"

var printer = message.NewPrinter(language.AmericanEnglish)

// currencySymbols covers the codes the settings page offers plus the
// crypto quote units. Anything else is rendered with its ISO code prefix.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"INR": "₹",
	"KRW": "₩",
	"CAD": "CA$",
	"AUD": "A$",
	"BTC": "₿",
	"ETH": "Ξ",
}

func missing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// FormatCurrency renders v as an en-US currency amount with 2 to 8
// fraction digits, e.g. 45000 → "$45,000.00", 0.00012345 → "$0.00012345".
// An empty code means USD.
func FormatCurrency(v float64, code string) string {
	if missing(v) {
		return NotAvailable
	}
	if code == "" {
		code = "USD"
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	prefix := code + " "
	if sym, ok := currencySymbols[code]; ok {
		prefix = sym
	} else if unit, err := currency.ParseISO(code); err == nil {
		prefix = unit.String() + " "
	}

	digits := printer.Sprint(number.Decimal(math.Abs(v),
		number.MinFractionDigits(2),
		number.MaxFractionDigits(8),
	))
	if v < 0 {
		return "-" + prefix + digits
	}
	return prefix + digits
}

// FormatCurrencyPtr is FormatCurrency for nullable fields.
func FormatCurrencyPtr(v *float64, code string) string {
	if v == nil {
		return NotAvailable
	}
	return FormatCurrency(*v, code)
}

// FormatCompact renders large magnitudes with a T/B/M/K suffix and two
// decimals, e.g. 1.5e12 → "1.50T", 999 → "999.00".
// Negative values never take a suffix.
func FormatCompact(v float64) string {
	if missing(v) {
		return NotAvailable
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// FormatCompactPtr is FormatCompact for nullable fields.
func FormatCompactPtr(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatCompact(*v)
}

// FormatPercentage renders a signed percentage: 2.5 → "+2.50%",
// -1.234 → "-1.23%", 0 → "+0.00%".
func FormatPercentage(v float64) string {
	if missing(v) {
		return NotAvailable
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPercentagePtr is FormatPercentage for nullable fields.
func FormatPercentagePtr(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatPercentage(*v)
}

// FormatVolumeUSD renders an exchange's 24h volume, e.g. 2.5e9 → "$2.50B".
func FormatVolumeUSD(v float64) string {
	if missing(v) {
		return NotAvailable
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// TrustScoreLabel maps an exchange trust score (0–10) to its label.
func TrustScoreLabel(score int) string {
	switch {
	case score >= 9:
		return "Excellent"
	case score >= 7:
		return "Good"
	case score >= 5:
		return "Fair"
	case score >= 3:
		return "Poor"
	default:
		return "Very Poor"
	}
}
