/*
Package jsonfile persists each collection as one JSON document on disk.

PURPOSE:
  The historical storage format: purchase.json, sale.json, stock.json
  and ledger.json in a single data directory. Documents are rewritten
  whole on every save.

RECOVERY:
  A missing or unreadable document loads as the collection's empty
  default and is never a fatal error. There is no corruption-recovery
  mechanism beyond that; the write path keeps the window small by
  writing to a temp file and renaming over the document.

LEGACY RECORDS:
  Old purchase/sale documents carry a flattened single product instead
  of a line-item list. Both shapes decode into TradeRecord and are
  normalized by Lines(); resaving preserves whichever shape a record
  arrived in.

SEE ALSO:
  - books/store.go: the Repository contract
  - store/sqlite:   the database-backed alternative
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ledgerline/tradebook/books"
)

const (
	purchaseFile = "purchase.json"
	saleFile     = "sale.json"
	stockFile    = "stock.json"
	ledgerFile   = "ledger.json"
)

// Repo implements books.Repository over a data directory.
type Repo struct {
	dir string
	mu  sync.RWMutex
}

// New creates the data directory if needed and seeds empty documents
// for any collection file that does not exist yet.
func New(dir string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	r := &Repo{dir: dir}
	seeds := []struct {
		name  string
		empty any
	}{
		{purchaseFile, []books.TradeRecord{}},
		{saleFile, []books.TradeRecord{}},
		{stockFile, []books.StockEntry{}},
		{ledgerFile, books.Ledger{}},
	}
	for _, s := range seeds {
		path := filepath.Join(dir, s.name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := r.write(s.name, s.empty); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Repo) LoadPurchases(context.Context) ([]books.TradeRecord, error) {
	var records []books.TradeRecord
	r.read(purchaseFile, &records)
	return records, nil
}

func (r *Repo) SavePurchases(_ context.Context, records []books.TradeRecord) error {
	return r.writeLocked(purchaseFile, records)
}

func (r *Repo) LoadSales(context.Context) ([]books.TradeRecord, error) {
	var records []books.TradeRecord
	r.read(saleFile, &records)
	return records, nil
}

func (r *Repo) SaveSales(_ context.Context, records []books.TradeRecord) error {
	return r.writeLocked(saleFile, records)
}

func (r *Repo) LoadStock(context.Context) ([]books.StockEntry, error) {
	var entries []books.StockEntry
	r.read(stockFile, &entries)
	return entries, nil
}

func (r *Repo) SaveStock(_ context.Context, entries []books.StockEntry) error {
	return r.writeLocked(stockFile, entries)
}

func (r *Repo) LoadLedger(context.Context) (books.Ledger, error) {
	ledger := books.Ledger{}
	r.read(ledgerFile, &ledger)
	if ledger == nil {
		ledger = books.Ledger{}
	}
	return ledger, nil
}

func (r *Repo) SaveLedger(_ context.Context, ledger books.Ledger) error {
	return r.writeLocked(ledgerFile, ledger)
}

// read decodes a document into out. Any failure leaves out at its
// zero value: the collection's empty default.
func (r *Repo) read(name string, out any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

func (r *Repo) writeLocked(name string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(name, v)
}

// write rewrites the whole document: marshal, temp file, rename.
func (r *Repo) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(r.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
