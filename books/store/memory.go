// Package store provides an in-memory Repository (for testing/dev).
package store

import (
	"context"
	"sync"

	"github.com/ledgerline/tradebook/books"
)

// Memory keeps all four collections in process memory. Loads return
// deep-enough copies so callers can never mutate stored state through
// shared slices, mirroring the ownership rules of the file-backed
// repositories.
type Memory struct {
	mu        sync.RWMutex
	purchases []books.TradeRecord
	sales     []books.TradeRecord
	stock     []books.StockEntry
	ledger    books.Ledger
}

func NewMemory() *Memory {
	return &Memory{ledger: books.Ledger{}}
}

func (m *Memory) LoadPurchases(_ context.Context) ([]books.TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRecords(m.purchases), nil
}

func (m *Memory) SavePurchases(_ context.Context, records []books.TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purchases = copyRecords(records)
	return nil
}

func (m *Memory) LoadSales(_ context.Context) ([]books.TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRecords(m.sales), nil
}

func (m *Memory) SaveSales(_ context.Context, records []books.TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales = copyRecords(records)
	return nil
}

func (m *Memory) LoadStock(_ context.Context) ([]books.StockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]books.StockEntry, len(m.stock))
	copy(out, m.stock)
	return out, nil
}

func (m *Memory) SaveStock(_ context.Context, entries []books.StockEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stock = make([]books.StockEntry, len(entries))
	copy(m.stock, entries)
	return nil
}

func (m *Memory) LoadLedger(_ context.Context) (books.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.Clone(), nil
}

func (m *Memory) SaveLedger(_ context.Context, ledger books.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = ledger.Clone()
	return nil
}

func copyRecords(in []books.TradeRecord) []books.TradeRecord {
	out := make([]books.TradeRecord, len(in))
	for i, r := range in {
		items := make([]books.LineItem, len(r.Items))
		copy(items, r.Items)
		r.Items = items
		out[i] = r
	}
	return out
}
