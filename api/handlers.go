/*
handlers.go - HTTP API handlers for the trade book

PURPOSE:
  Exposes the trading service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Records (kind is "purchases" or "sales"):
    GET    /api/{kind}              List records
    POST   /api/{kind}              Create record
    GET    /api/{kind}/{id}         Get record
    PUT    /api/{kind}/{id}         Update record
    DELETE /api/{kind}/{id}         Delete record
    POST   /api/{kind}/{id}/receipt Write plain-text receipt
    POST   /api/{kind}/{id}/bill    Write invoice workbook

  Derived state:
    GET    /api/stock               Stock snapshot
    GET    /api/stock/export        Stock snapshot as CSV
    GET    /api/dashboard           Top-line aggregates

  Ledger:
    GET    /api/ledger                          Party names
    GET    /api/ledger/{party}                  One party's account
    POST   /api/ledger/{party}/entries          Append manual row
    DELETE /api/ledger/{party}/entries/{index}  Delete row by position

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record, party or row not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/tradebook/books"
	"github.com/ledgerline/tradebook/trading"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *trading.Service
}

// NewHandler creates a new handler over the trading service.
func NewHandler(svc *trading.Service) *Handler {
	return &Handler{Service: svc}
}

// kindParam resolves the {kind} route segment. The route pattern pins
// it to "purchases" or "sales" so the default branch never runs.
func kindParam(r *http.Request) books.Kind {
	if chi.URLParam(r, "kind") == "sales" {
		return books.KindSale
	}
	return books.KindPurchase
}

func idParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// partyParam decodes the {party} segment; party names come from
// operator input and may carry spaces or slashes.
func partyParam(r *http.Request) string {
	party := chi.URLParam(r, "party")
	if decoded, err := url.PathUnescape(party); err == nil {
		party = decoded
	}
	return party
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns the full collection for a kind.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListRecords(r.Context(), kindParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}
	if records == nil {
		records = []books.TradeRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// GetRecord returns a single record.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return
	}
	rec, err := h.Service.GetRecord(r.Context(), kindParam(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateRecord creates a purchase or sale from operator input.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var input trading.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rec, err := h.Service.AddRecord(r.Context(), kindParam(r), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord replaces a record's editable fields.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return
	}
	var input trading.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rec, err := h.Service.UpdateRecord(r.Context(), kindParam(r), id, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord permanently removes a record.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return
	}
	if err := h.Service.DeleteRecord(r.Context(), kindParam(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DERIVED STATE HANDLERS
// =============================================================================

// GetStock returns the stock snapshot.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.Service.Stock(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stock", err)
		return
	}
	if stock == nil {
		stock = []books.StockEntry{}
	}
	writeJSON(w, http.StatusOK, stock)
}

// ExportStock streams the stock snapshot as CSV.
func (h *Handler) ExportStock(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="stock.csv"`)
	if err := h.Service.ExportStockCSV(r.Context(), w); err != nil {
		// Headers are gone; all we can do is log via the middleware.
		fmt.Fprintln(w, "export failed:", err)
	}
}

// GetDashboard returns the four top-line aggregates.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// LEDGER HANDLERS
// =============================================================================

// ListParties returns all party names in the ledger.
func (h *Handler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.Service.Parties(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load ledger", err)
		return
	}
	if parties == nil {
		parties = []string{}
	}
	writeJSON(w, http.StatusOK, PartiesResponse{Parties: parties})
}

// GetPartyLedger returns one party's account.
func (h *Handler) GetPartyLedger(w http.ResponseWriter, r *http.Request) {
	acct, err := h.Service.PartyLedger(r.Context(), partyParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

// AddLedgerEntry appends a manual row to a party's ledger.
func (h *Handler) AddLedgerEntry(w http.ResponseWriter, r *http.Request) {
	var input trading.LedgerEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	row, err := h.Service.AddLedgerEntry(r.Context(), partyParam(r), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// DeleteLedgerEntry removes one ledger row by position.
func (h *Handler) DeleteLedgerEntry(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid index", err)
		return
	}
	if err := h.Service.DeleteLedgerEntry(r.Context(), partyParam(r), index); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ARTIFACT HANDLERS
// =============================================================================

// CreateReceipt writes the plain-text receipt for a record.
func (h *Handler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return
	}
	path, err := h.Service.SaveReceipt(r.Context(), kindParam(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ArtifactResponse{Path: path})
}

// CreateBill writes the invoice workbook for a record.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id", err)
		return
	}
	path, err := h.Service.SaveBill(r.Context(), kindParam(r), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ArtifactResponse{Path: path})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, books.ErrNotFound), errors.Is(err, books.ErrUnknownParty):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, books.ErrMissingParty),
		errors.Is(err, books.ErrNoLineItems),
		errors.Is(err, books.ErrMissingProduct):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
