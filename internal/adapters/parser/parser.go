// Package parser turns raw statement files into transaction line items.
//
// OCR-driven formats (PDF scans, images) are handled by an external
// extraction service behind the same interface; this package owns the
// structured formats.
package parser

import "context"

// Transaction is one parsed statement row. All fields stay free text;
// normalization happens at matching time, not at parse time.
type Transaction struct {
	Date        string // DD/MM/YYYY
	Description string
	Type        string // "credit" | "debit"
	Amount      string
	Balance     string
}

// Parser extracts transactions from a statement file.
type Parser interface {
	Parse(ctx context.Context, data []byte, ext string) ([]Transaction, error)
}
