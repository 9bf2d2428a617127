package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_Parse(t *testing.T) {
	data := []byte(`date,description,type,amount,balance
03/05/2024,AMZN WEB SERVICES,debit,"250.00","12,450.00"
04/05/2024,SALARY TRANSFER,credit,"9,000.00","21,450.00"
`)

	txs, err := NewCSV().Parse(context.Background(), data, ".csv")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "03/05/2024", txs[0].Date)
	assert.Equal(t, "AMZN WEB SERVICES", txs[0].Description)
	assert.Equal(t, "debit", txs[0].Type)
	assert.Equal(t, "250.00", txs[0].Amount)
	assert.Equal(t, "12,450.00", txs[0].Balance)
	assert.Equal(t, "credit", txs[1].Type)
}

func TestCSV_Parse_ReorderedColumns(t *testing.T) {
	data := []byte(`Amount,Type,Date,Description
100.50,DEBIT,01/05/2024,DU TELECOM
`)

	txs, err := NewCSV().Parse(context.Background(), data, ".csv")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "100.50", txs[0].Amount)
	assert.Equal(t, "debit", txs[0].Type)
	assert.Equal(t, "DU TELECOM", txs[0].Description)
	assert.Equal(t, "", txs[0].Balance)
}

func TestCSV_Parse_SkipsBlankRows(t *testing.T) {
	data := []byte(`date,description,type,amount
01/05/2024,SHOP,debit,10.00
,,,
`)

	txs, err := NewCSV().Parse(context.Background(), data, ".csv")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestCSV_Parse_MissingAmountColumn(t *testing.T) {
	data := []byte("date,description\n01/05/2024,SHOP\n")

	_, err := NewCSV().Parse(context.Background(), data, ".csv")
	assert.Error(t, err)
}

func TestCSV_Parse_RejectsUnknownExtension(t *testing.T) {
	_, err := NewCSV().Parse(context.Background(), []byte("x"), ".pdf")
	assert.Error(t, err)
}
