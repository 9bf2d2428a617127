// Package similarity scores fuzzy overlap between transaction narrations
// and vendor or customer names.
package similarity

import (
	"math"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// PartialRatio returns a similarity score in [0, 100] for two free-text
// strings. Comparison is case-insensitive and substring-aware: the shorter
// string is slid across the longer one and the best-aligned window wins,
// so a narration like "AMZN MKTP PAYMENT REF1234" still scores against a
// vendor named "Amazon". Empty input on either side scores 0.
func PartialRatio(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(string(longer), string(shorter)) {
		return 100
	}

	best := 0
	n := len(shorter)
	for i := 0; i+n <= len(longer); i++ {
		d := levenshtein.DistanceForStrings(shorter, longer[i:i+n], levenshtein.DefaultOptions)
		// DefaultOptions costs a substitution 2 (insert + delete), so the
		// worst case for two length-n strings is 2n, not n.
		score := int(math.Round(100 * (1 - float64(d)/float64(2*n))))
		if score > best {
			best = score
		}
	}
	return best
}
