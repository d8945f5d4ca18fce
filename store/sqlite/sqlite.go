/*
Package sqlite provides a SQLite-backed implementation of books.Repository.

PURPOSE:
  A database-backed alternative to the JSON document store. The
  Repository contract stays whole-document: every save replaces the
  entire collection inside one database transaction, so a recompute
  pass can never leave a collection half old, half new.

KEY TABLES:
  purchases, sales:  one row per trade record, line items as JSON
  stock:             one row per product, fully replaced on recompute
  ledger:            one row per party, transaction rows as JSON

DECIMALS:
  Monetary columns are stored as TEXT via decimal.String() and parsed
  back on load, never as floating point.

WAL MODE:
  The database is opened with WAL journaling. There is exactly one
  logical writer in this system, but WAL keeps reads cheap and improves
  crash recovery for the whole-collection rewrites.

USAGE:
  repo, err := sqlite.New("./data/tradebook.db")
  Use ":memory:" for an in-memory database in tests.

SEE ALSO:
  - books/store.go:  the Repository contract
  - store/jsonfile:  the document-file alternative
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/tradebook/books"
)

// Repo implements books.Repository using SQLite.
type Repo struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (creating if needed) the database at dbPath and migrates
// the schema.
func New(dbPath string) (*Repo, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	r := &Repo{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return r, nil
}

// Close closes the database connection.
func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS purchases (
		id INTEGER PRIMARY KEY,
		invoice TEXT NOT NULL,
		date TEXT NOT NULL,
		party TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		tax_no TEXT,
		place_of_supply TEXT,
		auth_sign TEXT,
		notes TEXT,
		items_json TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		discount_amt TEXT NOT NULL,
		tax_amt TEXT NOT NULL,
		total TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY,
		invoice TEXT NOT NULL,
		date TEXT NOT NULL,
		party TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		tax_no TEXT,
		place_of_supply TEXT,
		auth_sign TEXT,
		notes TEXT,
		items_json TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		discount_amt TEXT NOT NULL,
		tax_amt TEXT NOT NULL,
		total TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_purchases_invoice ON purchases(invoice);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_invoice ON sales(invoice);
	CREATE INDEX IF NOT EXISTS idx_purchases_party ON purchases(party);
	CREATE INDEX IF NOT EXISTS idx_sales_party ON sales(party);

	CREATE TABLE IF NOT EXISTS stock (
		product TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		purchased TEXT NOT NULL,
		sold TEXT NOT NULL,
		available TEXT NOT NULL,
		avg_price TEXT NOT NULL,
		value TEXT NOT NULL,
		unit TEXT NOT NULL,
		latest_invoice TEXT,
		latest_purchase_date TEXT
	);

	CREATE TABLE IF NOT EXISTS ledger (
		party TEXT PRIMARY KEY,
		purchases TEXT NOT NULL,
		sales TEXT NOT NULL,
		last_amount TEXT NOT NULL,
		transactions_json TEXT NOT NULL
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// =============================================================================
// TRADE RECORDS
// =============================================================================

func (r *Repo) LoadPurchases(ctx context.Context) ([]books.TradeRecord, error) {
	return r.loadRecords(ctx, "purchases")
}

func (r *Repo) SavePurchases(ctx context.Context, records []books.TradeRecord) error {
	return r.saveRecords(ctx, "purchases", records)
}

func (r *Repo) LoadSales(ctx context.Context) ([]books.TradeRecord, error) {
	return r.loadRecords(ctx, "sales")
}

func (r *Repo) SaveSales(ctx context.Context, records []books.TradeRecord) error {
	return r.saveRecords(ctx, "sales", records)
}

func (r *Repo) loadRecords(ctx context.Context, table string) ([]books.TradeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT id, invoice, date, party, phone, address, tax_no, place_of_supply,
		       auth_sign, notes, items_json, subtotal, discount_amt, tax_amt, total
		FROM %s ORDER BY id ASC`, table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var records []books.TradeRecord
	for rows.Next() {
		var (
			rec       books.TradeRecord
			phone     sql.NullString
			address   sql.NullString
			taxNo     sql.NullString
			place     sql.NullString
			authSign  sql.NullString
			notes     sql.NullString
			itemsJSON string
			subtotal  string
			discount  string
			tax       string
			total     string
		)
		if err := rows.Scan(&rec.ID, &rec.Invoice, &rec.Date, &rec.Party,
			&phone, &address, &taxNo, &place, &authSign, &notes,
			&itemsJSON, &subtotal, &discount, &tax, &total); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec.Phone = phone.String
		rec.Address = address.String
		rec.TaxNo = taxNo.String
		rec.PlaceOfSupply = place.String
		rec.AuthSign = authSign.String
		rec.Notes = notes.String
		if itemsJSON != "" {
			if err := json.Unmarshal([]byte(itemsJSON), &rec.Items); err != nil {
				return nil, fmt.Errorf("decode %s items: %w", table, err)
			}
		}
		rec.Subtotal = parseDecimal(subtotal)
		rec.DiscountAmt = parseDecimal(discount)
		rec.TaxAmt = parseDecimal(tax)
		rec.Total = parseDecimal(total)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *Repo) saveRecords(ctx context.Context, table string, records []books.TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, invoice, date, party, phone, address, tax_no,
			place_of_supply, auth_sign, notes, items_json, subtotal,
			discount_amt, tax_amt, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table)

	for _, rec := range records {
		// Legacy flattened records are normalized before they hit the
		// database; the JSON store keeps both shapes, this one does not.
		itemsJSON, err := json.Marshal(rec.Lines())
		if err != nil {
			return fmt.Errorf("encode items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert,
			rec.ID, rec.Invoice, rec.Date, rec.Party,
			rec.Phone, rec.Address, rec.TaxNo, rec.PlaceOfSupply,
			rec.AuthSign, rec.Notes, string(itemsJSON),
			rec.Subtotal.String(), rec.DiscountAmt.String(),
			rec.TaxAmt.String(), rec.Total.String(),
		); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// =============================================================================
// STOCK
// =============================================================================

func (r *Repo) LoadStock(ctx context.Context) ([]books.StockEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT product, purchased, sold, available, avg_price, value, unit,
		       latest_invoice, latest_purchase_date
		FROM stock ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}
	defer rows.Close()

	var entries []books.StockEntry
	for rows.Next() {
		var (
			e                            books.StockEntry
			purchased, sold, available   string
			avgPrice, value              string
			latestInvoice, latestPurDate sql.NullString
		)
		if err := rows.Scan(&e.Product, &purchased, &sold, &available,
			&avgPrice, &value, &e.Unit, &latestInvoice, &latestPurDate); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		e.Purchased = parseDecimal(purchased)
		e.Sold = parseDecimal(sold)
		e.Available = parseDecimal(available)
		e.AvgPrice = parseDecimal(avgPrice)
		e.Value = parseDecimal(value)
		e.LatestInvoice = latestInvoice.String
		e.LatestPurchaseDate = latestPurDate.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repo) SaveStock(ctx context.Context, entries []books.StockEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM stock"); err != nil {
		return fmt.Errorf("clear stock: %w", err)
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock (product, position, purchased, sold, available,
				avg_price, value, unit, latest_invoice, latest_purchase_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Product, i, e.Purchased.String(), e.Sold.String(),
			e.Available.String(), e.AvgPrice.String(), e.Value.String(),
			e.Unit, e.LatestInvoice, e.LatestPurchaseDate,
		); err != nil {
			return fmt.Errorf("insert stock: %w", err)
		}
	}
	return tx.Commit()
}

// =============================================================================
// LEDGER
// =============================================================================

func (r *Repo) LoadLedger(ctx context.Context) (books.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.QueryContext(ctx,
		"SELECT party, purchases, sales, last_amount, transactions_json FROM ledger")
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	ledger := books.Ledger{}
	for rows.Next() {
		var (
			party                     string
			purchases, sales, lastAmt string
			txJSON                    string
		)
		if err := rows.Scan(&party, &purchases, &sales, &lastAmt, &txJSON); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		acct := &books.PartyAccount{
			Purchases:  parseDecimal(purchases),
			Sales:      parseDecimal(sales),
			LastAmount: parseDecimal(lastAmt),
		}
		if txJSON != "" {
			if err := json.Unmarshal([]byte(txJSON), &acct.Transactions); err != nil {
				return nil, fmt.Errorf("decode ledger rows: %w", err)
			}
		}
		ledger[party] = acct
	}
	return ledger, rows.Err()
}

func (r *Repo) SaveLedger(ctx context.Context, ledger books.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM ledger"); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	for party, acct := range ledger {
		txJSON, err := json.Marshal(acct.Transactions)
		if err != nil {
			return fmt.Errorf("encode ledger rows: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ledger (party, purchases, sales, last_amount, transactions_json)
			VALUES (?, ?, ?, ?, ?)`,
			party, acct.Purchases.String(), acct.Sales.String(),
			acct.LastAmount.String(), string(txJSON),
		); err != nil {
			return fmt.Errorf("insert ledger: %w", err)
		}
	}
	return tx.Commit()
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
