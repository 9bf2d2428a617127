package matcher

// Transaction type values carried on statement line items.
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Invoice type values. Debits settle expense invoices, credits settle
// sales invoices.
const (
	InvoiceTypeExpense = "expense"
	InvoiceTypeSales   = "sales"
)

// Config holds the tunable parts of the scoring model.
type Config struct {
	// AmountTolerance is the hard gate on |transaction - invoice| amount,
	// in the statement's currency unit.
	AmountTolerance float64
	// AcceptThreshold is the minimum combined score required to commit
	// a match.
	AcceptThreshold float64
	// Factor weights. They are expected to sum to 1.
	AmountWeight float64
	VendorWeight float64
	DateWeight   float64
}

// DefaultConfig returns the production scoring parameters.
func DefaultConfig() Config {
	return Config{
		AmountTolerance: 1.00,
		AcceptThreshold: 70,
		AmountWeight:    0.6,
		VendorWeight:    0.3,
		DateWeight:      0.1,
	}
}

// Transaction is the slice of a statement line item the matcher needs.
// Amount is already normalized; the date stays in its raw DD/MM/YYYY form
// because an unparseable date is a missing signal, not an error.
type Transaction struct {
	Amount      float64
	Description string
	Date        string
	Type        string
}

// Invoice is the slice of an invoice record the matcher needs. Total and
// Date are free text exactly as extraction produced them (DD-MM-YYYY for
// the date).
type Invoice struct {
	ID         int64
	Type       string
	Total      string
	VendorName string
	Date       string
}

// MatchResult is the scored outcome for one (transaction, invoice) pair.
type MatchResult struct {
	InvoiceID int64
	Score     float64
	Reason    string
}
