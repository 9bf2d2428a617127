// Package statement owns the statement ingestion flow: store the
// uploaded file, parse it into line items and hand the statement to the
// reconciliation engine, all off the upload request path.
package statement

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ledgerdesk/backoffice-backend/internal/adapters/filestore"
	"github.com/ledgerdesk/backoffice-backend/internal/adapters/parser"
	"github.com/ledgerdesk/backoffice-backend/internal/application/reconcile"
	"github.com/ledgerdesk/backoffice-backend/internal/application/tasks"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

// Statement type values accepted by Upload.
const (
	TypeBank       = "bank"
	TypeCreditCard = "credit_card"
)

// ErrInvalidStatementType is returned by Upload for unknown types.
var ErrInvalidStatementType = fmt.Errorf("invalid statement type: allowed types are %s, %s", TypeBank, TypeCreditCard)

// Service handles statement uploads, processing and queries.
type Service struct {
	repo       storage.Repository
	files      filestore.Store
	parser     parser.Parser
	reconciler *reconcile.Service
	runner     *tasks.Runner
	logger     *slog.Logger
}

// NewService creates a statement service.
func NewService(
	repo storage.Repository,
	files filestore.Store,
	p parser.Parser,
	reconciler *reconcile.Service,
	runner *tasks.Runner,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		files:      files,
		parser:     p,
		reconciler: reconciler,
		runner:     runner,
		logger:     logger,
	}
}

// Upload stores the statement file and record, then enqueues the
// parse-then-reconcile pipeline. The returned statement has no items
// yet; parsing happens in the background.
func (s *Service) Upload(ctx context.Context, ownerID int64, statementType, filename string, data []byte) (*storage.Statement, error) {
	if statementType != TypeBank && statementType != TypeCreditCard {
		return nil, ErrInvalidStatementType
	}

	key := fmt.Sprintf("statements/%d/%s%s", ownerID, uuid.NewString(), filepath.Ext(filename))
	if err := s.files.Put(ctx, key, data); err != nil {
		return nil, fmt.Errorf("failed to store statement file: %w", err)
	}

	stmt := &storage.Statement{
		OwnerID:       ownerID,
		StatementType: statementType,
		FileName:      filename,
		FileKey:       key,
	}
	if _, err := s.repo.SaveStatement(stmt); err != nil {
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	s.runner.Submit(fmt.Sprintf("statement-pipeline-%d", stmt.ID), func(jobCtx context.Context) error {
		return s.Process(jobCtx, stmt, data)
	})

	return stmt, nil
}

// Process parses the statement bytes into line items and reconciles
// them. It is normally invoked through the task runner, but is exported
// so a one-shot CLI run can call it synchronously.
func (s *Service) Process(ctx context.Context, stmt *storage.Statement, data []byte) error {
	rows, err := s.parser.Parse(ctx, data, filepath.Ext(stmt.FileName))
	if err != nil {
		return fmt.Errorf("failed to parse statement %d: %w", stmt.ID, err)
	}

	items := make([]*storage.StatementItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &storage.StatementItem{
			TransactionDate: row.Date,
			Description:     row.Description,
			TransactionType: row.Type,
			Amount:          row.Amount,
			Balance:         row.Balance,
		})
	}
	if err := s.repo.SaveItems(stmt.ID, items); err != nil {
		return fmt.Errorf("failed to save items for statement %d: %w", stmt.ID, err)
	}

	s.logger.Info("statement parsed", "statement_id", stmt.ID, "items", len(items))

	return s.reconciler.Reconcile(ctx, stmt.OwnerID, stmt.ID)
}

// EnqueueReconcile schedules a reconciliation-only run for an existing
// statement, used by the manual re-run endpoint.
func (s *Service) EnqueueReconcile(ownerID, statementID int64) {
	s.runner.Submit(fmt.Sprintf("reconcile-%d", statementID), func(jobCtx context.Context) error {
		return s.reconciler.Reconcile(jobCtx, ownerID, statementID)
	})
}

// Get returns a statement if it exists and belongs to ownerID.
func (s *Service) Get(ownerID, statementID int64) (*storage.Statement, error) {
	stmt, err := s.repo.GetStatement(statementID)
	if err != nil {
		return nil, err
	}
	if stmt == nil || stmt.OwnerID != ownerID {
		return nil, nil
	}
	return stmt, nil
}

// List returns all statements for an owner.
func (s *Service) List(ownerID int64) ([]*storage.Statement, error) {
	return s.repo.ListStatements(ownerID)
}

// Items returns the line items of one statement, owner-checked.
func (s *Service) Items(ownerID, statementID int64) ([]*storage.StatementItem, error) {
	stmt, err := s.Get(ownerID, statementID)
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		return nil, nil
	}
	return s.repo.ListItemsForStatement(statementID)
}

// Delete removes a statement, its items and its stored file.
func (s *Service) Delete(ctx context.Context, ownerID, statementID int64) error {
	stmt, err := s.Get(ownerID, statementID)
	if err != nil {
		return err
	}
	if stmt == nil {
		return nil
	}
	if stmt.FileKey != "" {
		if err := s.files.Delete(ctx, stmt.FileKey); err != nil {
			s.logger.Warn("failed to delete statement file", "file_key", stmt.FileKey, "error", err)
		}
	}
	return s.repo.DeleteStatement(statementID)
}
