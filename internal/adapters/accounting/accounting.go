// Package accounting pushes approved invoices to external books
// providers (Zoho Books, QuickBooks) behind one narrow interface.
package accounting

import (
	"context"

	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

// Outcome classifies the result of a push.
type Outcome string

const (
	// OutcomeSuccess means the provider accepted the invoice.
	OutcomeSuccess Outcome = "success"
	// OutcomeDuplicate means the provider already has this invoice.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeFailed means the provider rejected the invoice.
	OutcomeFailed Outcome = "failed"
)

// PushResult reports what the provider did with an invoice.
type PushResult struct {
	Outcome     Outcome `json:"outcome"`
	ProviderRef string  `json:"provider_ref,omitempty"`
	Message     string  `json:"message,omitempty"`
}

// Pusher is the capability the rest of the system consumes.
type Pusher interface {
	PushInvoice(ctx context.Context, inv *storage.Invoice) (*PushResult, error)
}

// Account is one ledger account from the provider's chart of accounts.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "expense" | "income" | ...
}
