// Package reconcile matches statement line items against invoices.
//
// Reconciliation is a best-effort background enrichment step: it mutates
// the match fields of statement items and nothing else. Failures are
// reported to the caller (typically the task runner, which logs them)
// and never reach the user who uploaded the statement.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgerdesk/backoffice-backend/internal/domain/matcher"
	"github.com/ledgerdesk/backoffice-backend/internal/domain/normalize"
	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

// Service is the reconciliation orchestrator.
type Service struct {
	repo    storage.Repository
	matcher *matcher.Matcher
	logger  *slog.Logger
}

// NewService creates a reconciliation service.
func NewService(repo storage.Repository, m *matcher.Matcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, matcher: m, logger: logger}
}

// Reconcile evaluates every line item of the statement against the
// owner's invoices and commits all accepted matches in one transaction.
//
// Items are always re-evaluated from scratch, including ones matched by
// a previous run: a later run may replace an earlier match if invoice
// data changed in between. Ties between equally scored candidates go to
// the invoice with the lowest ID, because invoices are scanned in ID
// order and only a strictly higher score displaces the current best.
func (s *Service) Reconcile(ctx context.Context, ownerID, statementID int64) error {
	items, err := s.repo.ListItemsForStatement(statementID)
	if err != nil {
		return fmt.Errorf("failed to load statement items: %w", err)
	}
	if len(items) == 0 {
		s.logger.Debug("no items to reconcile", "statement_id", statementID)
		return nil
	}

	invoices, err := s.repo.ListInvoicesForOwner(ownerID)
	if err != nil {
		return fmt.Errorf("failed to load invoices: %w", err)
	}
	if len(invoices) == 0 {
		s.logger.Debug("owner has no invoices", "owner_id", ownerID)
		return nil
	}

	runID, err := s.repo.StartRun(statementID, ownerID)
	if err != nil {
		// Run tracking is bookkeeping, not a reason to skip matching.
		s.logger.Warn("failed to record reconcile run", "statement_id", statementID, "error", err)
	}

	candidates := make([]matcher.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		candidates = append(candidates, matcher.Invoice{
			ID:         inv.ID,
			Type:       inv.Type,
			Total:      inv.Total,
			VendorName: inv.VendorName,
			Date:       inv.InvoiceDate,
		})
	}

	threshold := s.matcher.Config().AcceptThreshold

	var matched []*storage.StatementItem
	skipped := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			// Abort before the commit point: all-or-nothing.
			return err
		}

		amount, ok := normalize.ParseAmount(item.Amount)
		if !ok {
			skipped++
			continue
		}

		tx := matcher.Transaction{
			Amount:      amount,
			Description: item.Description,
			Date:        item.TransactionDate,
			Type:        item.TransactionType,
		}

		best := s.matcher.FindBest(tx, candidates)
		if best == nil || best.Score < threshold {
			continue
		}

		invoiceID := best.InvoiceID
		confidence := int(best.Score)
		item.MatchedInvoiceID = &invoiceID
		item.MatchConfidence = &confidence
		item.MatchReason = best.Reason
		item.IsMatched = true
		matched = append(matched, item)

		s.logger.Debug("matched statement item",
			"item_id", item.ID,
			"invoice_id", invoiceID,
			"confidence", confidence,
		)
	}

	if err := s.repo.CommitMatches(matched); err != nil {
		s.completeRun(runID, len(items), len(matched), skipped, storage.RunStatusFailed)
		return fmt.Errorf("failed to commit matches for statement %d: %w", statementID, err)
	}

	s.completeRun(runID, len(items), len(matched), skipped, storage.RunStatusCompleted)

	s.logger.Info("reconciliation completed",
		"statement_id", statementID,
		"owner_id", ownerID,
		"items", len(items),
		"matched", len(matched),
		"skipped", skipped,
	)
	return nil
}

func (s *Service) completeRun(runID int64, total, matched, skipped int, status string) {
	if runID == 0 {
		return
	}
	unmatched := total - matched - skipped
	if err := s.repo.CompleteRun(runID, total, matched, unmatched, skipped, status); err != nil {
		s.logger.Warn("failed to complete reconcile run", "run_id", runID, "error", err)
	}
}
