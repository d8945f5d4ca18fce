package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tradebook/api"
	"github.com/ledgerline/tradebook/books"
	"github.com/ledgerline/tradebook/books/store"
	"github.com/ledgerline/tradebook/trading"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	repo := store.NewMemory()
	fixed := time.Date(2026, time.March, 9, 15, 4, 5, 0, time.UTC)
	svc := trading.New(repo, nil, zerolog.Nop(),
		trading.WithClock(func() time.Time { return fixed }),
		trading.WithArtifactDirs(t.TempDir(), t.TempDir()))
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(svc)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createPurchase(t *testing.T, srv *httptest.Server, party string) books.TradeRecord {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/purchases", trading.RecordInput{
		Party: party,
		Lines: []trading.LineInput{{Product: "Pen", Qty: "10", Rate: "2"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec books.TradeRecord
	decode(t, resp, &rec)
	return rec
}

// =============================================================================
// RECORD ENDPOINTS
// =============================================================================

func TestAPI_CreateAndGetPurchase(t *testing.T) {
	srv := newTestServer(t)

	created := createPurchase(t, srv, "Acme")
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "P2603090001", created.Invoice)

	resp, err := http.Get(fmt.Sprintf("%s/api/purchases/%d", srv.URL, created.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got books.TradeRecord
	decode(t, resp, &got)
	assert.Equal(t, "Acme", got.Party)
	assert.Equal(t, "20", got.Total.String())
}

func TestAPI_CreateRejectsInvalidInput(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/sales", trading.RecordInput{Party: "Acme"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Error)
}

func TestAPI_UpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	created := createPurchase(t, srv, "Acme")

	body, err := json.Marshal(trading.RecordInput{
		Party: "Acme",
		Lines: []trading.LineInput{{Product: "Ink", Qty: "4", Rate: "7.5"}},
	})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/purchases/%d", srv.URL, created.ID), bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated books.TradeRecord
	decode(t, resp, &updated)
	assert.Equal(t, created.Invoice, updated.Invoice)
	assert.Equal(t, "30", updated.Total.String())

	req, err = http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/api/purchases/%d", srv.URL, created.ID), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(fmt.Sprintf("%s/api/purchases/%d", srv.URL, created.ID))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_UnknownKindIs404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/receipts")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// STOCK, LEDGER AND DASHBOARD ENDPOINTS
// =============================================================================

func TestAPI_StockReflectsHistory(t *testing.T) {
	srv := newTestServer(t)
	createPurchase(t, srv, "Acme")

	resp, err := http.Get(srv.URL + "/api/stock")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stock []books.StockEntry
	decode(t, resp, &stock)
	require.Len(t, stock, 1)
	assert.Equal(t, "Pen", stock[0].Product)
	assert.Equal(t, "10", stock[0].Available.String())
}

func TestAPI_StockExportIsCSV(t *testing.T) {
	srv := newTestServer(t)
	createPurchase(t, srv, "Acme")

	resp, err := http.Get(srv.URL + "/api/stock/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
}

func TestAPI_LedgerFlow(t *testing.T) {
	srv := newTestServer(t)
	created := createPurchase(t, srv, "Acme")

	resp, err := http.Get(srv.URL + "/api/ledger")
	require.NoError(t, err)
	var parties api.PartiesResponse
	decode(t, resp, &parties)
	assert.Equal(t, []string{"Acme"}, parties.Parties)

	resp, err = http.Get(srv.URL + "/api/ledger/Acme")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var acct books.PartyAccount
	decode(t, resp, &acct)
	require.Len(t, acct.Transactions, 1)
	assert.Equal(t, created.Invoice, acct.Transactions[0].Invoice)

	resp = postJSON(t, srv.URL+"/api/ledger/Acme/entries", trading.LedgerEntryInput{Credit: "15"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var row books.PartyTransaction
	decode(t, resp, &row)
	assert.Equal(t, books.LooseNumber("5.00"), row.Remaining)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/ledger/Acme/entries/1", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/ledger/Nobody")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_Dashboard(t *testing.T) {
	srv := newTestServer(t)
	createPurchase(t, srv, "Acme")

	resp, err := http.Get(srv.URL + "/api/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got books.DashboardSummary
	decode(t, resp, &got)
	assert.Equal(t, "20", got.TotalPurchases.String())
	assert.Equal(t, "-20", got.ProfitOrLoss.String())
}

func TestAPI_ReceiptArtifact(t *testing.T) {
	srv := newTestServer(t)
	created := createPurchase(t, srv, "Acme")

	resp := postJSON(t, srv.URL+fmt.Sprintf("/api/purchases/%d/receipt", created.ID), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var artifact api.ArtifactResponse
	decode(t, resp, &artifact)
	assert.Contains(t, artifact.Path, created.Invoice)
}
