package accounting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/backoffice-backend/internal/infrastructure/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL:  server.URL,
		Token:    "test-token",
		CacheTTL: time.Minute,
	}, nil)
}

func TestPushInvoice_Success(t *testing.T) {
	var coaCalls, pushCalls int
	var gotPayload pushPayload

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/chartofaccounts":
			coaCalls++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"accounts": []Account{
					{ID: "acc-inc", Name: "Sales", Type: "income"},
					{ID: "acc-exp", Name: "Office Supplies", Type: "expense"},
				},
			})
		case "/invoices":
			pushCalls++
			_ = json.NewDecoder(r.Body).Decode(&gotPayload)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "prov-42"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	inv := &storage.Invoice{
		ID: 1, Type: "expense", InvoiceNumber: "INV-7",
		VendorName: "Amazon Web Services", Total: "250.00", InvoiceDate: "01-05-2024",
	}

	result, err := client.PushInvoice(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, "prov-42", result.ProviderRef)
	assert.Equal(t, "acc-exp", gotPayload.AccountID)

	// Second push reuses the cached chart of accounts.
	_, err = client.PushInvoice(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, 1, coaCalls)
	assert.Equal(t, 2, pushCalls)
}

func TestPushInvoice_Duplicate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chartofaccounts" {
			_ = json.NewEncoder(w).Encode(map[string]any{"accounts": []Account{}})
			return
		}
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "prov-1", "message": "already exists"})
	})

	result, err := client.PushInvoice(context.Background(), &storage.Invoice{ID: 1, Type: "sales"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, result.Outcome)
	assert.Equal(t, "already exists", result.Message)
}

func TestPushInvoice_ProviderRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chartofaccounts" {
			_ = json.NewEncoder(w).Encode(map[string]any{"accounts": []Account{}})
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "missing vendor"})
	})

	result, err := client.PushInvoice(context.Background(), &storage.Invoice{ID: 1, Type: "sales"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, "missing vendor", result.Message)
}

func TestPushInvoice_COAFailureStillPushes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chartofaccounts" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var payload pushPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)
		assert.Empty(t, payload.AccountID)
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "prov-9"})
	})

	result, err := client.PushInvoice(context.Background(), &storage.Invoice{ID: 1, Type: "expense"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
}
