package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateProximityScore_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		txDate  string
		invDate string
		want    int
	}{
		{"same day", "01/05/2024", "01-05-2024", 100},
		{"2 days apart", "03/05/2024", "01-05-2024", 100},
		{"3 days apart", "04/05/2024", "01-05-2024", 100},
		{"5 days apart", "06/05/2024", "01-05-2024", 70},
		{"7 days apart", "08/05/2024", "01-05-2024", 70},
		{"10 days apart", "11/05/2024", "01-05-2024", 40},
		{"15 days apart", "16/05/2024", "01-05-2024", 40},
		{"20 days apart", "21/05/2024", "01-05-2024", 0},
		{"invoice before transaction", "01/05/2024", "03-05-2024", 100},
		{"bad transaction date", "2024-05-01", "01-05-2024", 0},
		{"bad invoice date", "01/05/2024", "01/05/2024", 0},
		{"empty invoice date", "01/05/2024", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DateProximityScore(tt.txDate, tt.invDate))
		})
	}
}

func TestFilterCandidates_TypeGate(t *testing.T) {
	m := New(DefaultConfig())

	invoices := []Invoice{
		{ID: 1, Type: InvoiceTypeExpense, Total: "100.00"},
		{ID: 2, Type: InvoiceTypeSales, Total: "100.00"},
	}

	debit := Transaction{Amount: 100, Type: TypeDebit}
	credit := Transaction{Amount: 100, Type: TypeCredit}

	got := m.FilterCandidates(debit, invoices)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = m.FilterCandidates(credit, invoices)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestFilterCandidates_AmountGate(t *testing.T) {
	m := New(DefaultConfig())
	tx := Transaction{Amount: 250.00, Type: TypeDebit}

	invoices := []Invoice{
		{ID: 1, Type: InvoiceTypeExpense, Total: "250.00"},
		{ID: 2, Type: InvoiceTypeExpense, Total: "AED 250.75"},
		{ID: 3, Type: InvoiceTypeExpense, Total: "251.01"},
		{ID: 4, Type: InvoiceTypeExpense, Total: "400.00"},
		{ID: 5, Type: InvoiceTypeExpense, Total: "n/a"},
	}

	got := m.FilterCandidates(tx, invoices)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestScore_WeightedFormula(t *testing.T) {
	m := New(DefaultConfig())

	// Vendor names chosen so the similarity score is exactly 80
	// (two edits over ten characters), and dates two days apart so the
	// date score is 100: 100*0.6 + 80*0.3 + 100*0.1 = 94.
	tx := Transaction{
		Amount:      250,
		Description: "abxdeyghij",
		Date:        "03/05/2024",
		Type:        TypeDebit,
	}
	inv := Invoice{
		ID:         7,
		Type:       InvoiceTypeExpense,
		Total:      "250.00",
		VendorName: "abcdefghij",
		Date:       "01-05-2024",
	}

	result := m.Score(tx, inv)
	assert.InDelta(t, 94.0, result.Score, 0.0001)
	assert.Equal(t, "amount match (250.0) + vendor 80% + date_score 100", result.Reason)
}

func TestScore_MissingDateSignal(t *testing.T) {
	m := New(DefaultConfig())

	tx := Transaction{Amount: 100, Description: "Amazon", Date: "bad-date", Type: TypeDebit}
	inv := Invoice{ID: 1, Type: InvoiceTypeExpense, Total: "100.00", VendorName: "Amazon", Date: "01-05-2024"}

	result := m.Score(tx, inv)
	// 100*0.6 + 100*0.3 + 0*0.1
	assert.InDelta(t, 90.0, result.Score, 0.0001)
}

func TestFindBest_PicksHighestScore(t *testing.T) {
	m := New(DefaultConfig())

	tx := Transaction{
		Amount:      250,
		Description: "AMZN WEB SERVICES",
		Date:        "03/05/2024",
		Type:        TypeDebit,
	}
	invoices := []Invoice{
		{ID: 1, Type: InvoiceTypeExpense, Total: "250.00", VendorName: "Gulf Stationery", Date: "20-03-2024"},
		{ID: 2, Type: InvoiceTypeExpense, Total: "250.00", VendorName: "Amazon Web Services", Date: "01-05-2024"},
	}

	best := m.FindBest(tx, invoices)
	require.NotNil(t, best)
	assert.Equal(t, int64(2), best.InvoiceID)
	assert.GreaterOrEqual(t, best.Score, 70.0)
}

func TestFindBest_TieKeepsFirstSeen(t *testing.T) {
	m := New(DefaultConfig())

	tx := Transaction{Amount: 100, Description: "Amazon", Date: "03/05/2024", Type: TypeDebit}
	invoices := []Invoice{
		{ID: 10, Type: InvoiceTypeExpense, Total: "100.00", VendorName: "Amazon", Date: "01-05-2024"},
		{ID: 11, Type: InvoiceTypeExpense, Total: "100.00", VendorName: "Amazon", Date: "01-05-2024"},
	}

	best := m.FindBest(tx, invoices)
	require.NotNil(t, best)
	assert.Equal(t, int64(10), best.InvoiceID)
}

func TestFindBest_NoSurvivors(t *testing.T) {
	m := New(DefaultConfig())

	tx := Transaction{Amount: 250, Description: "AMZN WEB SERVICES", Date: "03/05/2024", Type: TypeDebit}
	invoices := []Invoice{
		{ID: 1, Type: InvoiceTypeExpense, Total: "400.00", VendorName: "Amazon Web Services", Date: "01-05-2024"},
		{ID: 2, Type: InvoiceTypeSales, Total: "250.00", VendorName: "Amazon Web Services", Date: "01-05-2024"},
	}

	assert.Nil(t, m.FindBest(tx, invoices))
}
