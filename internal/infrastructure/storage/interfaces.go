package storage

// Repository defines the complete storage interface. It allows swapping
// implementations (SQLite today, PostgreSQL later) and makes testing with
// the in-memory mock straightforward.
type Repository interface {
	StatementRepository
	InvoiceRepository
	RunRepository
	Close() error
}

// StatementRepository handles statements and their line items.
type StatementRepository interface {
	// SaveStatement inserts a statement and returns its ID.
	SaveStatement(stmt *Statement) (int64, error)

	// GetStatement retrieves a statement by ID; nil when absent.
	GetStatement(id int64) (*Statement, error)

	// ListStatements returns all statements for an owner.
	ListStatements(ownerID int64) ([]*Statement, error)

	// DeleteStatement removes a statement and its items.
	DeleteStatement(id int64) error

	// SaveItems inserts parsed line items for a statement.
	SaveItems(statementID int64, items []*StatementItem) error

	// ListItemsForStatement returns all line items of one statement,
	// ordered by ID.
	ListItemsForStatement(statementID int64) ([]*StatementItem, error)

	// ListItemsForOwner returns every line item across an owner's
	// statements.
	ListItemsForOwner(ownerID int64) ([]*StatementItem, error)

	// GetItem retrieves a line item by ID; nil when absent.
	GetItem(id int64) (*StatementItem, error)

	// UpdateItem persists user edits to a line item's raw fields.
	UpdateItem(item *StatementItem) error

	// DeleteItem removes a single line item.
	DeleteItem(id int64) error

	// CommitMatches writes the match fields of all given items in a
	// single transaction. All-or-nothing: a failure leaves every item
	// untouched.
	CommitMatches(items []*StatementItem) error
}

// InvoiceRepository handles invoice records. The reconciliation engine
// only ever reads them.
type InvoiceRepository interface {
	// SaveInvoice inserts an invoice and returns its ID.
	SaveInvoice(inv *Invoice) (int64, error)

	// GetInvoice retrieves an invoice by ID; nil when absent.
	GetInvoice(id int64) (*Invoice, error)

	// ListInvoicesForOwner returns all invoices for an owner, ordered
	// by ID.
	ListInvoicesForOwner(ownerID int64) ([]*Invoice, error)
}

// RunRepository tracks reconciliation runs.
type RunRepository interface {
	// StartRun records the start of a run and returns the run ID.
	StartRun(statementID, ownerID int64) (int64, error)

	// CompleteRun records the outcome of a run.
	CompleteRun(runID int64, total, matched, unmatched, skipped int, status string) error

	// ListRuns returns recent runs, newest first.
	ListRuns(limit int) ([]ReconcileRun, error)

	// GetRun retrieves a run by ID; nil when absent.
	GetRun(runID int64) (*ReconcileRun, error)
}
