package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for statements, invoices and
// reconciliation runs. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository.
var _ Repository = (*Storage)(nil)

// NewStorage opens (and if necessary creates) the SQLite database at
// dbPath and runs all pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite ships with foreign keys off.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveStatement inserts a statement and returns its ID.
func (s *Storage) SaveStatement(stmt *Statement) (int64, error) {
	if stmt.UploadedAt.IsZero() {
		stmt.UploadedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`
	INSERT INTO statements (owner_id, statement_type, file_name, file_key, uploaded_at)
	VALUES (?, ?, ?, ?, ?)`,
		stmt.OwnerID, stmt.StatementType, stmt.FileName, stmt.FileKey, stmt.UploadedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	stmt.ID = id
	return id, nil
}

// GetStatement retrieves a statement by ID; nil when absent.
func (s *Storage) GetStatement(id int64) (*Statement, error) {
	stmt := &Statement{}
	err := s.db.QueryRow(`
	SELECT id, owner_id, statement_type, file_name, file_key, uploaded_at
	FROM statements WHERE id = ?`, id).Scan(
		&stmt.ID, &stmt.OwnerID, &stmt.StatementType, &stmt.FileName, &stmt.FileKey, &stmt.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// ListStatements returns all statements for an owner, newest first.
func (s *Storage) ListStatements(ownerID int64) ([]*Statement, error) {
	rows, err := s.db.Query(`
	SELECT id, owner_id, statement_type, file_name, file_key, uploaded_at
	FROM statements WHERE owner_id = ? ORDER BY uploaded_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []*Statement
	for rows.Next() {
		stmt := &Statement{}
		if err := rows.Scan(&stmt.ID, &stmt.OwnerID, &stmt.StatementType,
			&stmt.FileName, &stmt.FileKey, &stmt.UploadedAt); err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, rows.Err()
}

// DeleteStatement removes a statement; items cascade.
func (s *Storage) DeleteStatement(id int64) error {
	_, err := s.db.Exec("DELETE FROM statements WHERE id = ?", id)
	return err
}

// SaveItems inserts parsed line items for a statement in one transaction.
func (s *Storage) SaveItems(statementID int64, items []*StatementItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
	INSERT INTO statement_items
	(statement_id, transaction_date, description, transaction_type, amount, balance)
	VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		res, err := stmt.Exec(statementID, item.TransactionDate, item.Description,
			item.TransactionType, item.Amount, item.Balance)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if id, err := res.LastInsertId(); err == nil {
			item.ID = id
			item.StatementID = statementID
		}
	}
	return tx.Commit()
}

const itemColumns = `id, statement_id, transaction_date, description, transaction_type,
	amount, balance, matched_invoice_id, match_confidence, match_reason, is_matched`

func scanItem(scanner interface{ Scan(...any) error }) (*StatementItem, error) {
	item := &StatementItem{}
	var (
		matchedID  sql.NullInt64
		confidence sql.NullInt64
		reason     sql.NullString
		balance    sql.NullString
	)
	err := scanner.Scan(&item.ID, &item.StatementID, &item.TransactionDate,
		&item.Description, &item.TransactionType, &item.Amount, &balance,
		&matchedID, &confidence, &reason, &item.IsMatched)
	if err != nil {
		return nil, err
	}
	item.Balance = balance.String
	item.MatchReason = reason.String
	if matchedID.Valid {
		v := matchedID.Int64
		item.MatchedInvoiceID = &v
	}
	if confidence.Valid {
		v := int(confidence.Int64)
		item.MatchConfidence = &v
	}
	return item, nil
}

func (s *Storage) queryItems(query string, args ...any) ([]*StatementItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*StatementItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListItemsForStatement returns all line items of one statement, ordered
// by ID.
func (s *Storage) ListItemsForStatement(statementID int64) ([]*StatementItem, error) {
	return s.queryItems(`
	SELECT `+itemColumns+` FROM statement_items
	WHERE statement_id = ? ORDER BY id`, statementID)
}

// ListItemsForOwner returns every line item across an owner's statements.
func (s *Storage) ListItemsForOwner(ownerID int64) ([]*StatementItem, error) {
	return s.queryItems(`
	SELECT i.id, i.statement_id, i.transaction_date, i.description, i.transaction_type,
		i.amount, i.balance, i.matched_invoice_id, i.match_confidence, i.match_reason, i.is_matched
	FROM statement_items i
	JOIN statements s ON s.id = i.statement_id
	WHERE s.owner_id = ? ORDER BY i.id`, ownerID)
}

// GetItem retrieves a line item by ID; nil when absent.
func (s *Storage) GetItem(id int64) (*StatementItem, error) {
	row := s.db.QueryRow(`
	SELECT `+itemColumns+` FROM statement_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem persists user edits to a line item's raw fields. Match
// fields are written only through CommitMatches.
func (s *Storage) UpdateItem(item *StatementItem) error {
	_, err := s.db.Exec(`
	UPDATE statement_items
	SET transaction_date = ?, description = ?, transaction_type = ?, amount = ?, balance = ?
	WHERE id = ?`,
		item.TransactionDate, item.Description, item.TransactionType,
		item.Amount, item.Balance, item.ID)
	return err
}

// DeleteItem removes a single line item.
func (s *Storage) DeleteItem(id int64) error {
	_, err := s.db.Exec("DELETE FROM statement_items WHERE id = ?", id)
	return err
}

// CommitMatches writes the match fields of all given items in a single
// transaction.
func (s *Storage) CommitMatches(items []*StatementItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
	UPDATE statement_items
	SET matched_invoice_id = ?, match_confidence = ?, match_reason = ?, is_matched = ?
	WHERE id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, item := range items {
		var matchedID, confidence any
		if item.MatchedInvoiceID != nil {
			matchedID = *item.MatchedInvoiceID
		}
		if item.MatchConfidence != nil {
			confidence = *item.MatchConfidence
		}
		if _, err := stmt.Exec(matchedID, confidence, item.MatchReason, item.IsMatched, item.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveInvoice inserts an invoice and returns its ID.
func (s *Storage) SaveInvoice(inv *Invoice) (int64, error) {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`
	INSERT INTO invoices (owner_id, type, invoice_number, invoice_date, vendor_name, total, reviewed, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.OwnerID, inv.Type, inv.InvoiceNumber, inv.InvoiceDate,
		inv.VendorName, inv.Total, inv.Reviewed, inv.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	inv.ID = id
	return id, nil
}

// GetInvoice retrieves an invoice by ID; nil when absent.
func (s *Storage) GetInvoice(id int64) (*Invoice, error) {
	inv := &Invoice{}
	var number, date, vendor, total sql.NullString
	err := s.db.QueryRow(`
	SELECT id, owner_id, type, invoice_number, invoice_date, vendor_name, total, reviewed, created_at
	FROM invoices WHERE id = ?`, id).Scan(&inv.ID, &inv.OwnerID, &inv.Type,
		&number, &date, &vendor, &total, &inv.Reviewed, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number.String
	inv.InvoiceDate = date.String
	inv.VendorName = vendor.String
	inv.Total = total.String
	return inv, nil
}

// ListInvoicesForOwner returns all invoices for an owner, ordered by ID.
// The stable order makes reconciliation tie-breaking deterministic.
func (s *Storage) ListInvoicesForOwner(ownerID int64) ([]*Invoice, error) {
	rows, err := s.db.Query(`
	SELECT id, owner_id, type, invoice_number, invoice_date, vendor_name, total, reviewed, created_at
	FROM invoices WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv := &Invoice{}
		var number, date, vendor, total sql.NullString
		if err := rows.Scan(&inv.ID, &inv.OwnerID, &inv.Type, &number, &date,
			&vendor, &total, &inv.Reviewed, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.InvoiceNumber = number.String
		inv.InvoiceDate = date.String
		inv.VendorName = vendor.String
		inv.Total = total.String
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// StartRun records the start of a reconciliation run.
func (s *Storage) StartRun(statementID, ownerID int64) (int64, error) {
	res, err := s.db.Exec(`
	INSERT INTO reconcile_runs (statement_id, owner_id, status)
	VALUES (?, ?, ?)`, statementID, ownerID, RunStatusRunning)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CompleteRun records the outcome of a run.
func (s *Storage) CompleteRun(runID int64, total, matched, unmatched, skipped int, status string) error {
	_, err := s.db.Exec(`
	UPDATE reconcile_runs
	SET completed_at = CURRENT_TIMESTAMP, items_total = ?, items_matched = ?,
		items_unmatched = ?, items_skipped = ?, status = ?
	WHERE id = ?`, total, matched, unmatched, skipped, status, runID)
	return err
}

// ListRuns returns recent runs, newest first.
func (s *Storage) ListRuns(limit int) ([]ReconcileRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
	SELECT id, statement_id, owner_id, started_at, COALESCE(completed_at, ''),
		items_total, items_matched, items_unmatched, items_skipped, status
	FROM reconcile_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ReconcileRun
	for rows.Next() {
		var run ReconcileRun
		if err := rows.Scan(&run.ID, &run.StatementID, &run.OwnerID, &run.StartedAt,
			&run.CompletedAt, &run.ItemsTotal, &run.ItemsMatched,
			&run.ItemsUnmatched, &run.ItemsSkipped, &run.Status); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by ID; nil when absent.
func (s *Storage) GetRun(runID int64) (*ReconcileRun, error) {
	run := &ReconcileRun{}
	err := s.db.QueryRow(`
	SELECT id, statement_id, owner_id, started_at, COALESCE(completed_at, ''),
		items_total, items_matched, items_unmatched, items_skipped, status
	FROM reconcile_runs WHERE id = ?`, runID).Scan(
		&run.ID, &run.StatementID, &run.OwnerID, &run.StartedAt, &run.CompletedAt,
		&run.ItemsTotal, &run.ItemsMatched, &run.ItemsUnmatched, &run.ItemsSkipped, &run.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}
