// Package matcher implements the statement-to-invoice scoring model.
//
// A candidate invoice must survive two hard gates (transaction type and
// amount tolerance) before it is scored. The combined score weighs three
// factors:
//
//	amount 0.6 (always 100 once past the gate) + vendor 0.3 + date 0.1
//
// Matches at or above the acceptance threshold are committed by the
// reconciliation service; everything below stays unmatched.
package matcher

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerdesk/backoffice-backend/internal/domain/normalize"
	"github.com/ledgerdesk/backoffice-backend/internal/domain/similarity"
)

// Statement items carry DD/MM/YYYY dates, invoices DD-MM-YYYY.
const (
	txDateLayout      = "02/01/2006"
	invoiceDateLayout = "02-01-2006"
)

// Matcher scores filtered invoice candidates against transactions.
type Matcher struct {
	config Config
}

// New creates a matcher with the given config.
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Config returns the matcher's scoring parameters.
func (m *Matcher) Config() Config {
	return m.config
}

// FilterCandidates narrows invoices to the ones eligible for scoring
// against tx: type-compatible and within the amount tolerance. An invoice
// whose total cannot be normalized is excluded outright.
func (m *Matcher) FilterCandidates(tx Transaction, invoices []Invoice) []Invoice {
	var out []Invoice
	for _, inv := range invoices {
		if tx.Type == TypeDebit && inv.Type != InvoiceTypeExpense {
			continue
		}
		if tx.Type == TypeCredit && inv.Type != InvoiceTypeSales {
			continue
		}
		total, ok := normalize.ParseAmount(inv.Total)
		if !ok {
			continue
		}
		if math.Abs(tx.Amount-total) > m.config.AmountTolerance {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Score combines the factor scores for one candidate that already passed
// FilterCandidates. The amount factor is fixed at 100: amount is gated
// upstream, so within tolerance it always contributes full weight.
func (m *Matcher) Score(tx Transaction, inv Invoice) MatchResult {
	const amountScore = 100

	vendorScore := similarity.PartialRatio(tx.Description, inv.VendorName)
	dateScore := DateProximityScore(tx.Date, inv.Date)

	total := amountScore*m.config.AmountWeight +
		float64(vendorScore)*m.config.VendorWeight +
		float64(dateScore)*m.config.DateWeight

	reason := fmt.Sprintf("amount match (%s) + vendor %d%% + date_score %d",
		formatAmount(tx.Amount), vendorScore, dateScore)

	return MatchResult{InvoiceID: inv.ID, Score: total, Reason: reason}
}

// formatAmount renders the shortest decimal form, keeping one fractional
// digit for whole amounts ("250.0", "250.75").
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FindBest filters and scores every candidate and returns the winner, or
// nil when nothing survives the gates. Ties break in favor of the first
// candidate seen, i.e. the order invoices were passed in; callers that
// need a stable outcome should pass a stably ordered slice.
func (m *Matcher) FindBest(tx Transaction, invoices []Invoice) *MatchResult {
	var best *MatchResult
	for _, inv := range m.FilterCandidates(tx, invoices) {
		result := m.Score(tx, inv)
		if best == nil || result.Score > best.Score {
			best = &result
		}
	}
	return best
}

// DateProximityScore returns a tiered score for the day distance between
// a transaction date and an invoice date. A parse failure on either side
// yields 0: date is an optional positive signal, never a hard gate.
//
//	0-3 days  -> 100
//	4-7 days  -> 70
//	8-15 days -> 40
//	>15 days  -> 0
func DateProximityScore(txDate, invoiceDate string) int {
	txT, err := time.Parse(txDateLayout, txDate)
	if err != nil {
		return 0
	}
	invT, err := time.Parse(invoiceDateLayout, invoiceDate)
	if err != nil {
		return 0
	}

	days := int(math.Abs(txT.Sub(invT).Hours() / 24))
	switch {
	case days <= 3:
		return 100
	case days <= 7:
		return 70
	case days <= 15:
		return 40
	default:
		return 0
	}
}
