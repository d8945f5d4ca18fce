/*
store.go - Persistence and mirroring interfaces

PURPOSE:
  Defines the boundary between the engine and its collaborators. The
  four collections (purchases, sales, stock, ledger) are owned by the
  Repository; the reconciliation code borrows read access to purchase
  and sale history and produces full replacement values for stock and
  ledger.

LOAD CONTRACT:
  A missing collection loads as its empty default (empty slice, or
  empty map for the ledger), never as an error. For the document
  stores an unreadable file also degrades to the empty default; the
  operator loses nothing but that document's contents. The database
  store has no partially-readable shape to salvage, so it surfaces
  decode failures as errors instead.

SAVE CONTRACT:
  Save methods overwrite the whole document. There is no append log and
  no partial-write protocol.

IMPLEMENTATIONS:
  - books/store/memory.go: in-memory, for tests and dev
  - store/jsonfile:        JSON document per collection
  - store/sqlite:          SQLite-backed

SEE ALSO:
  - mirror/redis: the fire-and-forget Mirror implementation
*/
package books

import "context"

// Repository persists the four named collections.
type Repository interface {
	LoadPurchases(ctx context.Context) ([]TradeRecord, error)
	SavePurchases(ctx context.Context, records []TradeRecord) error

	LoadSales(ctx context.Context) ([]TradeRecord, error)
	SaveSales(ctx context.Context, records []TradeRecord) error

	LoadStock(ctx context.Context) ([]StockEntry, error)
	SaveStock(ctx context.Context, entries []StockEntry) error

	LoadLedger(ctx context.Context) (Ledger, error)
	SaveLedger(ctx context.Context, ledger Ledger) error
}

// Mirror pushes the current value of a named collection to a remote
// store. One-way, no pull, no conflict resolution. Implementations must
// not surface failures to the caller; a failed push leaves local state
// authoritative.
type Mirror interface {
	Push(ctx context.Context, collection string, data any)
}

// NopMirror is the Mirror used when remote mirroring is disabled.
type NopMirror struct{}

func (NopMirror) Push(context.Context, string, any) {}
