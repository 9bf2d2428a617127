package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStatementRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	id, err := s.SaveStatement(&Statement{
		OwnerID:       42,
		StatementType: "bank",
		FileName:      "may.csv",
		FileKey:       "statements/42/abc.csv",
	})
	require.NoError(t, err)

	stmt, err := s.GetStatement(id)
	require.NoError(t, err)
	require.NotNil(t, stmt)
	assert.Equal(t, int64(42), stmt.OwnerID)
	assert.Equal(t, "bank", stmt.StatementType)
	assert.Equal(t, "may.csv", stmt.FileName)

	missing, err := s.GetStatement(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := s.ListStatements(42)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestItemsAndCommitMatches(t *testing.T) {
	s := newTestStorage(t)

	stmtID, err := s.SaveStatement(&Statement{OwnerID: 1, StatementType: "bank"})
	require.NoError(t, err)

	items := []*StatementItem{
		{TransactionDate: "03/05/2024", Description: "AMZN WEB SERVICES", TransactionType: "debit", Amount: "250.00"},
		{TransactionDate: "04/05/2024", Description: "SALARY", TransactionType: "credit", Amount: "9,000.00"},
	}
	require.NoError(t, s.SaveItems(stmtID, items))
	assert.NotZero(t, items[0].ID)

	loaded, err := s.ListItemsForStatement(stmtID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.False(t, loaded[0].IsMatched)
	assert.Nil(t, loaded[0].MatchedInvoiceID)

	// Commit a match on the first item only.
	invID := int64(7)
	conf := 94
	loaded[0].MatchedInvoiceID = &invID
	loaded[0].MatchConfidence = &conf
	loaded[0].MatchReason = "amount match (250.0) + vendor 88% + date_score 100"
	loaded[0].IsMatched = true
	require.NoError(t, s.CommitMatches([]*StatementItem{loaded[0]}))

	reloaded, err := s.ListItemsForStatement(stmtID)
	require.NoError(t, err)
	require.Len(t, reloaded, 2)
	require.NotNil(t, reloaded[0].MatchedInvoiceID)
	assert.Equal(t, int64(7), *reloaded[0].MatchedInvoiceID)
	require.NotNil(t, reloaded[0].MatchConfidence)
	assert.Equal(t, 94, *reloaded[0].MatchConfidence)
	assert.True(t, reloaded[0].IsMatched)
	assert.False(t, reloaded[1].IsMatched)

	single, err := s.GetItem(reloaded[0].ID)
	require.NoError(t, err)
	require.NotNil(t, single)
	assert.Equal(t, "AMZN WEB SERVICES", single.Description)

	missing, err := s.GetItem(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListItemsForOwner_ScopesByOwner(t *testing.T) {
	s := newTestStorage(t)

	stmtA, err := s.SaveStatement(&Statement{OwnerID: 1, StatementType: "bank"})
	require.NoError(t, err)
	stmtB, err := s.SaveStatement(&Statement{OwnerID: 2, StatementType: "bank"})
	require.NoError(t, err)

	require.NoError(t, s.SaveItems(stmtA, []*StatementItem{{Description: "a", Amount: "1"}}))
	require.NoError(t, s.SaveItems(stmtB, []*StatementItem{{Description: "b", Amount: "2"}}))

	items, err := s.ListItemsForOwner(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Description)
}

func TestInvoiceRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.SaveInvoice(&Invoice{OwnerID: 1, Type: "expense", VendorName: "Amazon Web Services", Total: "250.00", InvoiceDate: "01-05-2024"})
	require.NoError(t, err)
	_, err = s.SaveInvoice(&Invoice{OwnerID: 1, Type: "sales", VendorName: "Acme LLC", Total: "900.00"})
	require.NoError(t, err)
	_, err = s.SaveInvoice(&Invoice{OwnerID: 2, Type: "expense", VendorName: "Other", Total: "10.00"})
	require.NoError(t, err)

	invoices, err := s.ListInvoicesForOwner(1)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "Amazon Web Services", invoices[0].VendorName)
	assert.Equal(t, "sales", invoices[1].Type)

	single, err := s.GetInvoice(invoices[0].ID)
	require.NoError(t, err)
	require.NotNil(t, single)
	assert.Equal(t, "Amazon Web Services", single.VendorName)
	assert.Equal(t, "01-05-2024", single.InvoiceDate)

	missing, err := s.GetInvoice(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStorage(t)

	runID, err := s.StartRun(3, 1)
	require.NoError(t, err)

	run, err := s.GetRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusRunning, run.Status)

	require.NoError(t, s.CompleteRun(runID, 10, 6, 3, 1, RunStatusCompleted))

	run, err = s.GetRun(runID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 10, run.ItemsTotal)
	assert.Equal(t, 6, run.ItemsMatched)
	assert.Equal(t, 3, run.ItemsUnmatched)
	assert.Equal(t, 1, run.ItemsSkipped)
	assert.NotEmpty(t, run.CompletedAt)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestDeleteStatementCascadesItems(t *testing.T) {
	s := newTestStorage(t)

	stmtID, err := s.SaveStatement(&Statement{OwnerID: 1, StatementType: "bank"})
	require.NoError(t, err)
	require.NoError(t, s.SaveItems(stmtID, []*StatementItem{{Description: "x", Amount: "1"}}))

	require.NoError(t, s.DeleteStatement(stmtID))

	items, err := s.ListItemsForStatement(stmtID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
