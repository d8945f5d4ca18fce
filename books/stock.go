/*
stock.go - Stock reconciliation

PURPOSE:
  Folds the full purchase and sale history into a per-product stock
  snapshot: cumulative purchased/sold quantity, available quantity,
  weighted average purchase price and current valuation.

CONTRACT:
  ComputeStock is pure. It borrows read access to its inputs, never
  mutates them, and has no side effect other than its return value.
  Running it twice over unchanged history yields identical output,
  including entry order (first product seen first).

INVARIANTS:
  - available = max(0, purchased - sold). Oversells recorded in history
    never produce negative stock.
  - avg_price = purchase_value / purchased when purchased > 0, else 0.
    A product that only ever appears in sales is valued at zero.
  - latest invoice/date track the purchase record with the greatest
    date string. Dates are zero-padded ISO strings, so lexicographic
    comparison is chronological comparison.

SEE ALSO:
  - ledger.go: the sibling fold over the same history
  - calc.go: where line totals come from
*/
package books

import (
	"strings"

	"github.com/shopspring/decimal"
)

type stockAccum struct {
	purchased          decimal.Decimal
	sold               decimal.Decimal
	purchaseValue      decimal.Decimal
	unit               string
	latestInvoice      string
	latestPurchaseDate string
}

// ComputeStock rebuilds the stock snapshot from the full purchase and
// sale history. Purchases are scanned first, then sales; sales only
// accumulate sold quantity and may refresh the display unit.
func ComputeStock(purchases, sales []TradeRecord) []StockEntry {
	accums := make(map[string]*stockAccum)
	var order []string

	seed := func(name string, line LineItem, rec *TradeRecord, isPurchase bool) *stockAccum {
		acc, ok := accums[name]
		if ok {
			return acc
		}
		acc = &stockAccum{unit: DefaultUnit}
		if line.Unit != "" {
			acc.unit = line.Unit
		}
		if isPurchase {
			acc.latestInvoice = rec.Invoice
			acc.latestPurchaseDate = rec.Date
		}
		accums[name] = acc
		order = append(order, name)
		return acc
	}

	for i := range purchases {
		rec := &purchases[i]
		for _, line := range rec.Lines() {
			name := strings.TrimSpace(line.Product)
			if name == "" {
				continue
			}
			acc := seed(name, line, rec, true)
			acc.purchased = acc.purchased.Add(line.Qty)
			acc.purchaseValue = acc.purchaseValue.Add(line.Qty.Mul(line.Rate))
			if line.Unit != "" {
				acc.unit = line.Unit
			}
			// Strictly greater only: on equal dates the earlier record wins.
			if rec.Date != "" && (acc.latestPurchaseDate == "" || rec.Date > acc.latestPurchaseDate) {
				acc.latestPurchaseDate = rec.Date
				acc.latestInvoice = rec.Invoice
			}
		}
	}

	for i := range sales {
		rec := &sales[i]
		for _, line := range rec.Lines() {
			name := strings.TrimSpace(line.Product)
			if name == "" {
				continue
			}
			acc := seed(name, line, rec, false)
			acc.sold = acc.sold.Add(line.Qty)
			if line.Unit != "" {
				acc.unit = line.Unit
			}
		}
	}

	entries := make([]StockEntry, 0, len(order))
	for _, name := range order {
		acc := accums[name]
		available := acc.purchased.Sub(acc.sold)
		if available.IsNegative() {
			available = decimal.Zero
		}
		avg := decimal.Zero
		if acc.purchased.IsPositive() {
			avg = acc.purchaseValue.Div(acc.purchased)
		}
		entries = append(entries, StockEntry{
			Product:            name,
			Purchased:          acc.purchased,
			Sold:               acc.sold,
			Available:          available,
			AvgPrice:           avg.RoundBank(2),
			Value:              available.Mul(avg).RoundBank(2),
			Unit:               acc.unit,
			LatestInvoice:      acc.latestInvoice,
			LatestPurchaseDate: acc.latestPurchaseDate,
		})
	}
	return entries
}
