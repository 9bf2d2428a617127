package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

// ClientConfig holds provider connection settings.
type ClientConfig struct {
	BaseURL string
	Token   string
	// CacheTTL bounds how long the chart of accounts is reused.
	CacheTTL time.Duration
}

// Client pushes invoices over a provider's REST API. Zoho Books and
// QuickBooks expose equivalent bill/invoice endpoints behind BaseURL,
// so one client covers both.
type Client struct {
	http   *retryablehttp.Client
	config ClientConfig
	coa    *COACache
	logger *slog.Logger
}

// Compile-time check that Client implements Pusher.
var _ Pusher = (*Client)(nil)

// NewClient creates a provider client. The retrying HTTP client absorbs
// transient 5xx/network failures; 4xx responses are not retried.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &Client{
		http:   rc,
		config: cfg,
		coa:    NewCOACache(cfg.CacheTTL),
		logger: logger,
	}
}

type pushPayload struct {
	InvoiceNumber string `json:"invoice_number"`
	VendorName    string `json:"vendor_name"`
	Total         string `json:"total"`
	InvoiceDate   string `json:"invoice_date"`
	AccountID     string `json:"account_id,omitempty"`
}

type pushResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// PushInvoice sends one invoice to the provider. The invoice is posted
// against the first chart-of-accounts entry whose type matches the
// invoice type, when one is known.
func (c *Client) PushInvoice(ctx context.Context, inv *storage.Invoice) (*PushResult, error) {
	payload := pushPayload{
		InvoiceNumber: inv.InvoiceNumber,
		VendorName:    inv.VendorName,
		Total:         inv.Total,
		InvoiceDate:   inv.InvoiceDate,
		AccountID:     c.accountFor(ctx, inv.Type),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/invoices", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider push failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed pushResponse
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &parsed)

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return &PushResult{Outcome: OutcomeSuccess, ProviderRef: parsed.ID}, nil
	case resp.StatusCode == http.StatusConflict:
		return &PushResult{Outcome: OutcomeDuplicate, ProviderRef: parsed.ID, Message: parsed.Message}, nil
	default:
		c.logger.Warn("provider rejected invoice",
			"invoice_id", inv.ID, "status", resp.StatusCode, "message", parsed.Message)
		return &PushResult{Outcome: OutcomeFailed, Message: parsed.Message}, nil
	}
}

// InvalidateAccounts clears the chart-of-accounts cache, e.g. after the
// provider connection is re-authorized.
func (c *Client) InvalidateAccounts() {
	c.coa.Invalidate()
}

// accountFor maps an invoice type to a provider account ID, best
// effort: an unreachable chart of accounts just means the invoice is
// pushed without an account hint.
func (c *Client) accountFor(ctx context.Context, invoiceType string) string {
	accounts, err := c.coa.Get(ctx, c.fetchAccounts)
	if err != nil {
		c.logger.Warn("failed to fetch chart of accounts", "error", err)
		return ""
	}

	want := "income"
	if invoiceType == "expense" {
		want = "expense"
	}
	for _, acc := range accounts {
		if acc.Type == want {
			return acc.ID
		}
	}
	return ""
}

func (c *Client) fetchAccounts(ctx context.Context) ([]Account, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/chartofaccounts", nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart of accounts request returned %d", resp.StatusCode)
	}

	var parsed struct {
		Accounts []Account `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Accounts, nil
}

func (c *Client) authorize(req *retryablehttp.Request) {
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}
