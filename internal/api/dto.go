package api

// APIError is the uniform error body for every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used across the API.
const (
	CodeNotFound        = "not_found"
	CodeBadRequest      = "bad_request"
	CodeValidationError = "validation_error"
	CodeInternalError   = "internal_error"
)

// UploadResponse acknowledges an accepted statement upload. Parsing and
// reconciliation happen in the background, so the response carries no
// items.
type UploadResponse struct {
	ID            int64  `json:"id"`
	StatementType string `json:"statement_type"`
	FileName      string `json:"file_name"`
	Status        string `json:"status"`
}

// ReconcileAccepted acknowledges a queued reconciliation run.
type ReconcileAccepted struct {
	StatementID int64  `json:"statement_id"`
	Status      string `json:"status"`
}

// ItemEditRequest carries user edits to a line item's raw fields. Match
// fields are never editable through the API.
type ItemEditRequest struct {
	TransactionDate *string `json:"transaction_date,omitempty"`
	Description     *string `json:"description,omitempty"`
	TransactionType *string `json:"transaction_type,omitempty"`
	Amount          *string `json:"amount,omitempty"`
	Balance         *string `json:"balance,omitempty"`
}

// InvoiceCreateRequest creates an invoice record.
type InvoiceCreateRequest struct {
	Type          string `json:"type" binding:"required"`
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	VendorName    string `json:"vendor_name"`
	Total         string `json:"total"`
}
