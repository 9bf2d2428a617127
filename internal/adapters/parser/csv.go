package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSV parses bank exports with a header row. Column order is free; the
// header names date, description, type, amount and balance are matched
// case-insensitively, and unknown columns are ignored.
type CSV struct{}

// NewCSV creates a CSV statement parser.
func NewCSV() *CSV {
	return &CSV{}
}

// Parse implements Parser.
func (p *CSV) Parse(_ context.Context, data []byte, ext string) ([]Transaction, error) {
	if ext != "" && !strings.EqualFold(ext, ".csv") {
		return nil, fmt.Errorf("unsupported statement format %q", ext)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := headerIndex(records[0])
	if _, ok := cols["amount"]; !ok {
		return nil, fmt.Errorf("statement csv has no amount column")
	}

	var out []Transaction
	for _, row := range records[1:] {
		tx := Transaction{
			Date:        field(row, cols, "date"),
			Description: field(row, cols, "description"),
			Type:        strings.ToLower(field(row, cols, "type")),
			Amount:      field(row, cols, "amount"),
			Balance:     field(row, cols, "balance"),
		}
		if tx.Date == "" && tx.Description == "" && tx.Amount == "" {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
