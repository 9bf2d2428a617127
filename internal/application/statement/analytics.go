package statement

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice-backend/internal/domain/normalize"
)

// Analytics summarizes an owner's statement activity. Money totals are
// accumulated with decimal arithmetic and rendered back as strings.
type Analytics struct {
	Statements   int     `json:"statements"`
	Items        int     `json:"items"`
	Matched      int     `json:"matched"`
	MatchRate    float64 `json:"match_rate"`
	TotalCredits string  `json:"total_credits"`
	TotalDebits  string  `json:"total_debits"`
}

// Analytics computes per-owner totals across all statements. Items whose
// amount does not normalize to a number are counted but excluded from
// the money totals.
func (s *Service) Analytics(ownerID int64) (*Analytics, error) {
	statements, err := s.repo.ListStatements(ownerID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItemsForOwner(ownerID)
	if err != nil {
		return nil, err
	}

	credits := decimal.Zero
	debits := decimal.Zero
	matched := 0

	for _, item := range items {
		if item.IsMatched {
			matched++
		}
		amount, err := decimal.NewFromString(normalize.Strip(item.Amount))
		if err != nil {
			continue
		}
		switch item.TransactionType {
		case "credit":
			credits = credits.Add(amount)
		case "debit":
			debits = debits.Add(amount)
		}
	}

	out := &Analytics{
		Statements:   len(statements),
		Items:        len(items),
		Matched:      matched,
		TotalCredits: credits.StringFixed(2),
		TotalDebits:  debits.StringFixed(2),
	}
	if len(items) > 0 {
		out.MatchRate = float64(matched) / float64(len(items))
	}
	return out, nil
}
