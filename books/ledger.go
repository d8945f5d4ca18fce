/*
ledger.go - Ledger reconciliation

PURPOSE:
  Folds the full purchase and sale history, plus the previously
  persisted ledger, into a full replacement per-party ledger. Each
  purchase/sale with a party contributes exactly one auto-row, keyed by
  (type, invoice) and updated in place when the same invoice is seen
  again. Rows the operator entered by hand carry no matching invoice
  and are preserved verbatim across every pass.

  Rows are never pruned. An auto-row whose record was later deleted
  stops being updated but stays in the list as a historical row, and
  (when first) keeps seeding the opening balance. Only the accumulators
  (purchases/sales totals) follow the surviving history.

RUNNING BALANCE:
  After the upsert pass, remaining balances are recomputed for every
  party over the entire row list in append order:

      remaining[i] = remaining[i-1] - credit[i] + debit[i]

  Credit decreases the balance owed, debit increases it. Unparseable
  credit/debit/amount cells read as zero.

  The first row is special: its remaining is taken from its own stored
  remaining (falling back to amount), not derived from a zero baseline.
  The opening balance is seeded, not computed. This is a compatibility
  quirk carried over deliberately; see the companion tests.

ORDER SENSITIVITY:
  Row order is whatever order rows were appended historically. New
  auto-rows append at the end rather than inserting by date, so
  deleting and re-adding history can reorder rows and shift computed
  remaining values even when the net financial effect is unchanged.
  Callers must treat row order as significant.

SEE ALSO:
  - stock.go: the sibling fold over the same history
  - loose.go: the coerce-to-zero numeric parser
*/
package books

import "github.com/shopspring/decimal"

// RecomputeLedger builds a full replacement ledger from history. The
// previous ledger is only read to recover existing rows (manual rows in
// particular); its accumulators are discarded and rebuilt from scratch.
func RecomputeLedger(purchases, sales []TradeRecord, previous Ledger) Ledger {
	ledger := make(Ledger, len(previous))
	for party, acct := range previous {
		txs := make([]PartyTransaction, len(acct.Transactions))
		copy(txs, acct.Transactions)
		ledger[party] = &PartyAccount{Transactions: txs}
	}

	upsert := func(rec *TradeRecord, kind Kind) {
		if rec.Party == "" {
			return
		}
		acct, ok := ledger[rec.Party]
		if !ok {
			acct = &PartyAccount{}
			ledger[rec.Party] = acct
		}
		switch kind {
		case KindPurchase:
			acct.Purchases = acct.Purchases.Add(rec.Total)
		case KindSale:
			acct.Sales = acct.Sales.Add(rec.Total)
		}

		auto := PartyTransaction{
			Date:      rec.Date,
			Type:      string(kind),
			Invoice:   rec.Invoice,
			Credit:    "",
			Debit:     "",
			Remaining: Loose(rec.Total),
			Amount:    Loose(rec.Total),
		}
		if i := findRow(acct.Transactions, string(kind), rec.Invoice); i >= 0 {
			acct.Transactions[i] = auto
		} else {
			acct.Transactions = append(acct.Transactions, auto)
		}
	}

	for i := range purchases {
		upsert(&purchases[i], KindPurchase)
	}
	for i := range sales {
		upsert(&sales[i], KindSale)
	}

	for _, acct := range ledger {
		recalcAccount(acct)
	}
	return ledger
}

func findRow(txs []PartyTransaction, txType, invoice string) int {
	for i := range txs {
		if txs[i].Type == txType && txs[i].Invoice == invoice {
			return i
		}
	}
	return -1
}

// recalcAccount recomputes remaining for every row in order and stores
// the final balance as the account's LastAmount. Amount cells are
// re-rounded in place; credit and debit stay as typed.
func recalcAccount(acct *PartyAccount) {
	if len(acct.Transactions) == 0 {
		acct.LastAmount = decimal.Zero
		return
	}

	// Opening balance: the first row's remaining is taken as given,
	// falling back to its amount only when the cell is blank.
	first := &acct.Transactions[0]
	var prev decimal.Decimal
	if first.Remaining != "" {
		prev, _ = first.Remaining.Decimal()
	} else {
		prev, _ = first.Amount.Decimal()
	}
	first.Remaining = Loose(prev)
	amt, _ := first.Amount.Decimal()
	first.Amount = Loose(amt)

	for i := 1; i < len(acct.Transactions); i++ {
		tx := &acct.Transactions[i]
		credit, _ := tx.Credit.Decimal()
		debit, _ := tx.Debit.Decimal()
		prev = prev.Sub(credit).Add(debit)
		tx.Remaining = Loose(prev)
		amt, _ := tx.Amount.Decimal()
		tx.Amount = Loose(amt)
	}
	acct.LastAmount = prev.RoundBank(2)
}
