package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialRatio_ExactAndSubstring(t *testing.T) {
	assert.Equal(t, 100, PartialRatio("Amazon", "Amazon"))
	assert.Equal(t, 100, PartialRatio("AMAZON", "amazon"))
	assert.Equal(t, 100, PartialRatio("POS PURCHASE amazon.ae DUBAI", "amazon"))
}

func TestPartialRatio_AbbreviatedNarration(t *testing.T) {
	// "amzn web services" aligns against a window of "amazon web services"
	// with only two character edits.
	score := PartialRatio("AMZN WEB SERVICES", "Amazon Web Services")
	assert.GreaterOrEqual(t, score, 80)
	assert.Less(t, score, 100)
}

func TestPartialRatio_SubstitutionScoring(t *testing.T) {
	// Two substitutions over ten characters leave eight of ten aligned.
	assert.Equal(t, 80, PartialRatio("abxdeyghij", "abcdefghij"))
	// One substitution over five characters.
	assert.Equal(t, 80, PartialRatio("abcxe", "abcde"))
}

func TestPartialRatio_Unrelated(t *testing.T) {
	score := PartialRatio("SALARY TRANSFER", "Etisalat Telecom")
	assert.Less(t, score, 60)
}

func TestPartialRatio_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0, PartialRatio("", "Amazon"))
	assert.Equal(t, 0, PartialRatio("Amazon", ""))
	assert.Equal(t, 0, PartialRatio("   ", "Amazon"))
}

func TestPartialRatio_Symmetric(t *testing.T) {
	a, b := "DU TELECOM PAYMENT", "du"
	assert.Equal(t, PartialRatio(a, b), PartialRatio(b, a))
}
