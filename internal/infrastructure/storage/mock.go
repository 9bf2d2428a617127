package storage

import (
	"sort"
	"time"
)

// MockRepository is an in-memory implementation of Repository for tests.
type MockRepository struct {
	statements map[int64]*Statement
	items      map[int64]*StatementItem
	invoices   map[int64]*Invoice
	runs       map[int64]*ReconcileRun

	nextStatementID int64
	nextItemID      int64
	nextInvoiceID   int64
	nextRunID       int64

	// Hooks for test assertions
	CommitMatchesCalled bool
	LastCommittedItems  []*StatementItem

	// Error injection for testing failure paths
	SaveStatementErr error
	SaveItemsErr     error
	CommitMatchesErr error
	ListItemsErr     error
	ListInvoicesErr  error
	StartRunErr      error
}

// Compile-time check that MockRepository implements Repository.
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates a new mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		statements:      make(map[int64]*Statement),
		items:           make(map[int64]*StatementItem),
		invoices:        make(map[int64]*Invoice),
		runs:            make(map[int64]*ReconcileRun),
		nextStatementID: 1,
		nextItemID:      1,
		nextInvoiceID:   1,
		nextRunID:       1,
	}
}

// Close does nothing for the mock.
func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) SaveStatement(stmt *Statement) (int64, error) {
	if m.SaveStatementErr != nil {
		return 0, m.SaveStatementErr
	}
	stmt.ID = m.nextStatementID
	m.nextStatementID++
	if stmt.UploadedAt.IsZero() {
		stmt.UploadedAt = time.Now().UTC()
	}
	copied := *stmt
	m.statements[stmt.ID] = &copied
	return stmt.ID, nil
}

func (m *MockRepository) GetStatement(id int64) (*Statement, error) {
	stmt, ok := m.statements[id]
	if !ok {
		return nil, nil
	}
	copied := *stmt
	return &copied, nil
}

func (m *MockRepository) ListStatements(ownerID int64) ([]*Statement, error) {
	var out []*Statement
	for _, stmt := range m.statements {
		if stmt.OwnerID == ownerID {
			copied := *stmt
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockRepository) DeleteStatement(id int64) error {
	delete(m.statements, id)
	for itemID, item := range m.items {
		if item.StatementID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *MockRepository) SaveItems(statementID int64, items []*StatementItem) error {
	if m.SaveItemsErr != nil {
		return m.SaveItemsErr
	}
	for _, item := range items {
		item.ID = m.nextItemID
		item.StatementID = statementID
		m.nextItemID++
		copied := *item
		m.items[item.ID] = &copied
	}
	return nil
}

func (m *MockRepository) ListItemsForStatement(statementID int64) ([]*StatementItem, error) {
	if m.ListItemsErr != nil {
		return nil, m.ListItemsErr
	}
	var out []*StatementItem
	for _, item := range m.items {
		if item.StatementID == statementID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) ListItemsForOwner(ownerID int64) ([]*StatementItem, error) {
	if m.ListItemsErr != nil {
		return nil, m.ListItemsErr
	}
	var out []*StatementItem
	for _, item := range m.items {
		stmt := m.statements[item.StatementID]
		if stmt != nil && stmt.OwnerID == ownerID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) UpdateItem(item *StatementItem) error {
	stored, ok := m.items[item.ID]
	if !ok {
		return nil
	}
	stored.TransactionDate = item.TransactionDate
	stored.Description = item.Description
	stored.TransactionType = item.TransactionType
	stored.Amount = item.Amount
	stored.Balance = item.Balance
	return nil
}

func (m *MockRepository) DeleteItem(id int64) error {
	delete(m.items, id)
	return nil
}

func (m *MockRepository) CommitMatches(items []*StatementItem) error {
	m.CommitMatchesCalled = true
	m.LastCommittedItems = items
	if m.CommitMatchesErr != nil {
		return m.CommitMatchesErr
	}
	for _, item := range items {
		stored, ok := m.items[item.ID]
		if !ok {
			continue
		}
		stored.MatchedInvoiceID = item.MatchedInvoiceID
		stored.MatchConfidence = item.MatchConfidence
		stored.MatchReason = item.MatchReason
		stored.IsMatched = item.IsMatched
	}
	return nil
}

func (m *MockRepository) SaveInvoice(inv *Invoice) (int64, error) {
	inv.ID = m.nextInvoiceID
	m.nextInvoiceID++
	copied := *inv
	m.invoices[inv.ID] = &copied
	return inv.ID, nil
}

func (m *MockRepository) GetInvoice(id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	copied := *inv
	return &copied, nil
}

func (m *MockRepository) ListInvoicesForOwner(ownerID int64) ([]*Invoice, error) {
	if m.ListInvoicesErr != nil {
		return nil, m.ListInvoicesErr
	}
	var out []*Invoice
	for _, inv := range m.invoices {
		if inv.OwnerID == ownerID {
			copied := *inv
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) StartRun(statementID, ownerID int64) (int64, error) {
	if m.StartRunErr != nil {
		return 0, m.StartRunErr
	}
	id := m.nextRunID
	m.nextRunID++
	m.runs[id] = &ReconcileRun{
		ID:          id,
		StatementID: statementID,
		OwnerID:     ownerID,
		StartedAt:   time.Now().UTC().Format(time.RFC3339),
		Status:      RunStatusRunning,
	}
	return id, nil
}

func (m *MockRepository) CompleteRun(runID int64, total, matched, unmatched, skipped int, status string) error {
	run, ok := m.runs[runID]
	if !ok {
		return nil
	}
	run.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	run.ItemsTotal = total
	run.ItemsMatched = matched
	run.ItemsUnmatched = unmatched
	run.ItemsSkipped = skipped
	run.Status = status
	return nil
}

func (m *MockRepository) ListRuns(limit int) ([]ReconcileRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []ReconcileRun
	for _, run := range m.runs {
		out = append(out, *run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockRepository) GetRun(runID int64) (*ReconcileRun, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// GetItem retrieves a line item by ID; nil when absent.
func (m *MockRepository) GetItem(id int64) (*StatementItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}
