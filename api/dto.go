/*
dto.go - Request/response data structures for the HTTP API

PURPOSE:
  Response shapes for the JSON surface. Domain types (TradeRecord,
  StockEntry, PartyAccount) serialize directly; the DTOs here exist for
  the surfaces that need a wrapper: error bodies, artifact paths, and
  the party list.

SEE ALSO:
  - handlers.go: where these are produced
  - trading/input.go: the request-side input types, decoded as-is
*/
package api

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PartiesResponse lists the ledger's party names.
type PartiesResponse struct {
	Parties []string `json:"parties"`
}

// ArtifactResponse reports where a generated receipt or bill landed.
type ArtifactResponse struct {
	Path string `json:"path"`
}
