package currency

import (
	"fmt"
	"strconv"
)

// Static rate table, USD base. Approximate by design; the storefront shows
// indicative local prices, it does not quote live FX.
var usdRates = map[string]float64{
	"USD": 1,
	"INR": 83.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.0,
	"CNY": 7.2,
	"AUD": 1.52,
	"CAD": 1.36,
	"AED": 3.67,
	"SGD": 1.34,
}

var symbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"AED": "د.إ",
	"SGD": "S$",
}

// Supported reports whether code has a rate entry.
func Supported(code string) bool {
	_, ok := usdRates[code]
	return ok
}

// Convert turns a USD amount into code's currency. Unknown codes pass the
// amount through unchanged.
func Convert(amountUSD float64, code string) float64 {
	rate, ok := usdRates[code]
	if !ok {
		return amountUSD
	}
	return amountUSD * rate
}

// Symbol returns the display symbol for code, falling back to the code
// itself.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Format renders an amount for display: zero is "Free", everything else is
// the symbol plus a thousands-grouped integer, no decimals.
func Format(amount float64, code string) string {
	if amount <= 0 {
		return "Free"
	}
	return Symbol(code) + groupThousands(int64(amount+0.5))
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// String implements fmt.Stringer for State, handy in logs.
func (s State) String() string {
	return fmt.Sprintf("%s (via %s)", s.Code, s.Source)
}
