// Package normalize converts free-text monetary strings into comparable
// numeric values.
//
// Statement parsers and the invoice extraction pipeline both emit amounts
// as display strings ("AED 1,250.50", "1,250.50 CR"). Matching needs plain
// numbers, and a malformed amount must never abort a reconciliation pass.
package normalize

import (
	"strconv"
	"strings"
)

// Strip removes every character that is not a digit or a decimal point.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount strips currency formatting from s and parses the remainder
// as a float. The boolean reports whether s carried a usable value: empty
// input counts as zero, input with no parseable digits does not.
func ParseAmount(s string) (float64, bool) {
	if strings.TrimSpace(s) == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(Strip(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Amount is ParseAmount with malformed input degrading to 0.
func Amount(s string) float64 {
	v, _ := ParseAmount(s)
	return v
}
