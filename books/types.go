/*
Package books provides the core bookkeeping engine.

PURPOSE:
  This package contains the record types and pure algorithms for a
  single-operator trading book: purchase and sale records are the
  append-ordered source of truth, and both the stock snapshot and the
  per-party ledger are derived from them by full recomputation.

KEY CONCEPTS IN THIS FILE (types.go):
  - LineItem: one product's quantity/rate/discount/tax entry in a record
  - TradeRecord: a purchase or sale document with its line items
  - StockEntry: derived per-product availability and valuation
  - PartyAccount: derived per-party running ledger

DESIGN PRINCIPLES:
  1. Derived, not incremental: stock and ledger are rebuilt from the full
     purchase+sale history after every mutation. Recomputation is
     idempotent, so stored derived state can never drift from history.
  2. Precision: all money math uses decimal.Decimal, rounded to two
     places with banker's rounding at the final step only.
  3. Loose input, strict output: user-entered numerics arrive as
     LooseNumber and coerce to zero instead of failing; everything the
     engine writes back is well-formed.

SEE ALSO:
  - calc.go: line-item monetary arithmetic
  - stock.go: stock reconciliation
  - ledger.go: ledger reconciliation
  - store.go: Repository and Mirror interfaces
*/
package books

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD KINDS AND COLLECTION NAMES
// =============================================================================

// Kind tags a trade record as a purchase or a sale.
type Kind string

const (
	KindPurchase Kind = "Purchase"
	KindSale     Kind = "Sale"
)

// InvoicePrefix returns the invoice-code prefix for this kind.
func (k Kind) InvoicePrefix() string {
	if k == KindSale {
		return "S"
	}
	return "P"
}

// Collection names as used by Repository and Mirror.
const (
	CollectionPurchases = "purchases"
	CollectionSales     = "sales"
	CollectionStock     = "stock"
	CollectionLedger    = "ledger"
)

// DateLayout is the wire format for record dates. Dates are kept as
// zero-padded strings so lexicographic comparison is chronological
// comparison; the reconciliation code relies on that.
const DateLayout = "2006-01-02 15:04:05"

// DefaultUnit is the display unit used when no line ever names one.
const DefaultUnit = "pcs"

// =============================================================================
// LINE ITEM
// =============================================================================

// LineItem is one product line inside a trade record. The four derived
// fields are produced by CalcTotals and are never edited directly.
type LineItem struct {
	Product     string          `json:"product"`
	Unit        string          `json:"unit,omitempty"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	TaxPct      decimal.Decimal `json:"tax_pct"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	DiscountAmt decimal.Decimal `json:"discount_amt"`
	TaxAmt      decimal.Decimal `json:"tax_amt"`
	Total       decimal.Decimal `json:"total"`
}

// =============================================================================
// TRADE RECORD (purchase or sale)
// =============================================================================

// TradeRecord is a purchase or sale document. IDs are integers, unique
// and monotonic per collection; invoice codes are human-readable and
// unique per collection. All fields may be replaced in an update; a
// delete removes the record permanently.
//
// Older data carries a single flattened product instead of Items; the
// flattened fields survive round-trips, and Lines() presents both
// shapes as one normalized line sequence.
type TradeRecord struct {
	ID      int    `json:"id"`
	Invoice string `json:"invoice"`
	Date    string `json:"date"`
	Party   string `json:"party"`

	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	TaxNo         string `json:"gst_no,omitempty"`
	PlaceOfSupply string `json:"place_of_supply,omitempty"`
	AuthSign      string `json:"auth_sign,omitempty"`
	Notes         string `json:"notes,omitempty"`

	Items []LineItem `json:"products,omitempty"`

	// Legacy flattened single-product shape.
	LegacyProduct string      `json:"product,omitempty"`
	LegacyUnit    string      `json:"unit,omitempty"`
	LegacyQty     LooseNumber `json:"qty,omitempty"`
	LegacyRate    LooseNumber `json:"rate,omitempty"`

	Subtotal    decimal.Decimal `json:"subtotal"`
	DiscountAmt decimal.Decimal `json:"discount_amt"`
	TaxAmt      decimal.Decimal `json:"tax_amt"`
	Total       decimal.Decimal `json:"total"`
}

// Lines returns the normalized line-item sequence for this record.
// Multi-line records return Items as-is; legacy flattened records are
// presented as a single synthetic line. The reconciliation core only
// ever sees this one shape.
func (r *TradeRecord) Lines() []LineItem {
	if len(r.Items) > 0 {
		return r.Items
	}
	if r.LegacyProduct == "" {
		return nil
	}
	qty, _ := r.LegacyQty.Decimal()
	rate, _ := r.LegacyRate.Decimal()
	return []LineItem{{
		Product: r.LegacyProduct,
		Unit:    r.LegacyUnit,
		Qty:     qty,
		Rate:    rate,
	}}
}

// =============================================================================
// STOCK ENTRY - Derived per-product summary
// =============================================================================

// StockEntry is one product's derived availability and valuation. It is
// rebuilt from scratch on every reconciliation pass and never hand-edited.
type StockEntry struct {
	Product            string          `json:"product"`
	Purchased          decimal.Decimal `json:"purchased"`
	Sold               decimal.Decimal `json:"sold"`
	Available          decimal.Decimal `json:"available"`
	AvgPrice           decimal.Decimal `json:"avg_price"`
	Value              decimal.Decimal `json:"value"`
	Unit               string          `json:"unit"`
	LatestInvoice      string          `json:"latest_invoice"`
	LatestPurchaseDate string          `json:"latest_purchase_date,omitempty"`
}

// =============================================================================
// LEDGER
// =============================================================================

// PartyTransaction is one row of a party's running ledger. Auto-rows
// are sourced from purchase/sale records and keyed by (Type, Invoice);
// manual rows carry whatever the operator typed. Credit, debit, amount
// and remaining are loosely typed: unparseable values read as zero.
type PartyTransaction struct {
	Date      string      `json:"date"`
	Type      string      `json:"type"`
	Invoice   string      `json:"invoice"`
	Credit    LooseNumber `json:"credit"`
	Debit     LooseNumber `json:"debit"`
	Remaining LooseNumber `json:"remaining"`
	Amount    LooseNumber `json:"amount"`
}

// PartyAccount is one party's ledger: the append-ordered transaction
// rows plus accumulators rebuilt on every reconciliation pass.
type PartyAccount struct {
	Transactions []PartyTransaction `json:"transactions"`
	Purchases    decimal.Decimal    `json:"purchases"`
	Sales        decimal.Decimal    `json:"sales"`
	LastAmount   decimal.Decimal    `json:"last_amount"`
}

// Ledger maps party name to account. Party names are free text and act
// as the identity key; there is no separate stable id.
type Ledger map[string]*PartyAccount

// Clone deep-copies the ledger so reconciliation can never mutate the
// previously persisted value through shared slices.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for party, acct := range l {
		txs := make([]PartyTransaction, len(acct.Transactions))
		copy(txs, acct.Transactions)
		out[party] = &PartyAccount{
			Transactions: txs,
			Purchases:    acct.Purchases,
			Sales:        acct.Sales,
			LastAmount:   acct.LastAmount,
		}
	}
	return out
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardSummary holds the four top-line aggregates.
type DashboardSummary struct {
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	ProfitOrLoss    decimal.Decimal `json:"profit_or_loss"`
}
