package storage

import "time"

// Statement is an uploaded bank or credit-card statement.
type Statement struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	StatementType string    `json:"statement_type"` // "bank" | "credit_card"
	FileName      string    `json:"file_name"`
	FileKey       string    `json:"file_key"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// StatementItem is a single parsed movement on a statement. The match
// fields are owned exclusively by the reconciliation service: they are
// nil/false until a match at or above the acceptance threshold is
// committed.
//
// Amount, TransactionDate and Balance stay free text, exactly as the
// parser produced them.
type StatementItem struct {
	ID              int64  `json:"id"`
	StatementID     int64  `json:"statement_id"`
	TransactionDate string `json:"transaction_date"` // DD/MM/YYYY
	Description     string `json:"description"`
	TransactionType string `json:"transaction_type"` // "credit" | "debit"
	Amount          string `json:"amount"`
	Balance         string `json:"balance,omitempty"`

	MatchedInvoiceID *int64 `json:"matched_invoice_id,omitempty"`
	MatchConfidence  *int   `json:"match_confidence,omitempty"`
	MatchReason      string `json:"match_reason,omitempty"`
	IsMatched        bool   `json:"is_matched"`
}

// Invoice is an invoice record as produced by the extraction/review flow.
// Read-only from the reconciliation engine's perspective.
type Invoice struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Type          string    `json:"type"` // "expense" | "sales"
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	InvoiceDate   string    `json:"invoice_date,omitempty"` // DD-MM-YYYY
	VendorName    string    `json:"vendor_name,omitempty"`
	Total         string    `json:"total,omitempty"`
	Reviewed      bool      `json:"reviewed"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReconcileRun records one orchestrator pass over a statement.
type ReconcileRun struct {
	ID             int64  `json:"id"`
	StatementID    int64  `json:"statement_id"`
	OwnerID        int64  `json:"owner_id"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	ItemsTotal     int    `json:"items_total"`
	ItemsMatched   int    `json:"items_matched"`
	ItemsUnmatched int    `json:"items_unmatched"`
	ItemsSkipped   int    `json:"items_skipped"`
	Status         string `json:"status"` // "running" | "completed" | "failed"
}

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
