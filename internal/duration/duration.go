// Package duration normalizes the catalog's heterogeneous course-duration
// values ("3 Months", "12 weeks", raw day counts, short/medium/long) into a
// canonical day count, and formats day counts back into human strings.
//
// Parsing is deliberately best-effort and total: upstream data is
// inconsistent free text, so unknown inputs fall back to 30 days instead of
// failing. The round trip Format(Parse(s)) may differ textually from s; that
// is accepted lossy normalization, not a bug.
package duration

import (
	"fmt"
	"regexp"
	"strings"
)

const defaultDays = 30

var digitsRe = regexp.MustCompile(`\d+`)

// Parse converts any duration value received from the catalog into days.
// Numbers pass through (clamped at zero); strings are matched on unit words,
// then symbolic tokens, then any embedded integer, then the 30-day default.
func Parse(v any) int {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0
		}
		return n
	case int64:
		if n < 0 {
			return 0
		}
		return int(n)
	case float64:
		if n < 0 {
			return 0
		}
		return int(n)
	case string:
		return parseString(n)
	default:
		return defaultDays
	}
}

func parseString(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return defaultDays
	}

	// unit words first, in day/week/month/year order
	if strings.Contains(s, "day") {
		return firstInt(s, defaultDays)
	}
	if strings.Contains(s, "week") {
		return firstInt(s, 4) * 7
	}
	if strings.Contains(s, "month") {
		return firstInt(s, 1) * 30
	}
	if strings.Contains(s, "year") {
		return firstInt(s, 1) * 365
	}

	switch s {
	case "short":
		return 7
	case "medium":
		return 30
	case "long":
		return 90
	}

	return firstInt(s, defaultDays)
}

func firstInt(s string, def int) int {
	m := digitsRe.FindString(s)
	if m == "" {
		return def
	}
	n := 0
	for _, r := range m {
		n = n*10 + int(r-'0')
		if n > 1<<30 {
			return n
		}
	}
	return n
}

// Format renders a day count as a human duration. It keeps at most two
// units ("2 months, 1 week"); exact multiples stay in one unit, so 84 days
// is "12 weeks", not "2 months, 3 weeks".
func Format(days int) string {
	switch {
	case days < 0:
		return "Flexible duration"
	case days == 0:
		return "Less than a day"
	case days >= 365:
		y := days / 365
		rem := days % 365
		if rem >= 30 {
			return plural(y, "year") + ", " + plural(rem/30, "month")
		}
		return plural(y, "year")
	case days%30 == 0:
		return plural(days/30, "month")
	case days%7 == 0:
		return plural(days/7, "week")
	case days > 30:
		m := days / 30
		rem := days % 30
		if rem >= 7 {
			return plural(m, "month") + ", " + plural(rem/7, "week")
		}
		return plural(m, "month") + ", " + plural(rem, "day")
	case days > 7:
		return plural(days/7, "week") + ", " + plural(days%7, "day")
	default:
		return plural(days, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
