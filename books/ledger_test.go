package books_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tradebook/books"
)

// =============================================================================
// AUTO-ROW TESTS
// =============================================================================

func TestRecomputeLedger_OpeningBalanceIsSeededNotSummed(t *testing.T) {
	// GIVEN: Two purchases from Acme, 100.00 then 50.00
	// WHEN: Recomputing the ledger from scratch
	// THEN: Both auto-rows exist, but the running balance stays at 100.00:
	//       the first row's remaining is taken as given and auto-rows
	//       carry no credit/debit, so the second contributes nothing to
	//       the balance. The opening balance is seeded, not computed.

	purchases := []books.TradeRecord{
		purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2)),
		purchase("P0002", "2026-01-06 10:00:00", "Acme", line("Ink", 10, 5)),
	}

	ledger := books.RecomputeLedger(purchases, nil, nil)
	acct := ledger["Acme"]
	require.NotNil(t, acct)
	require.Len(t, acct.Transactions, 2)

	assert.Equal(t, "100.00", string(acct.Transactions[0].Remaining))
	assert.Equal(t, "100.00", string(acct.Transactions[1].Remaining))
	assert.Equal(t, "50.00", string(acct.Transactions[1].Amount))
	assert.Equal(t, "100.00", acct.LastAmount.StringFixed(2))
	assert.Equal(t, "150.00", acct.Purchases.StringFixed(2))
}

func TestRecomputeLedger_UpsertByTypeAndInvoice(t *testing.T) {
	// GIVEN: A ledger already holding the auto-row for invoice P0001
	// WHEN: Recomputing after the record's total changed
	// THEN: The existing row is updated in place; no duplicate appears

	original := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2))}
	first := books.RecomputeLedger(original, nil, nil)

	edited := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 3))}
	second := books.RecomputeLedger(edited, nil, first)

	acct := second["Acme"]
	require.NotNil(t, acct)
	require.Len(t, acct.Transactions, 1)
	assert.Equal(t, "150.00", string(acct.Transactions[0].Amount))
}

func TestRecomputeLedger_PurchaseAndSaleSameInvoiceAreDistinct(t *testing.T) {
	// GIVEN: A purchase and a sale that happen to share an invoice code
	// WHEN: Recomputing
	// THEN: The (type, invoice) key keeps them as separate rows

	purchases := []books.TradeRecord{purchase("X0001", "2026-01-05 10:00:00", "Acme", line("Pen", 10, 2))}
	sales := []books.TradeRecord{purchase("X0001", "2026-01-06 10:00:00", "Acme", line("Pen", 5, 3))}

	ledger := books.RecomputeLedger(purchases, sales, nil)
	acct := ledger["Acme"]
	require.NotNil(t, acct)
	require.Len(t, acct.Transactions, 2)
	assert.Equal(t, string(books.KindPurchase), acct.Transactions[0].Type)
	assert.Equal(t, string(books.KindSale), acct.Transactions[1].Type)
}

func TestRecomputeLedger_RecordWithoutPartyContributesNothing(t *testing.T) {
	// GIVEN: A record whose party is blank
	// WHEN: Recomputing
	// THEN: No account is created for it

	purchases := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "", line("Pen", 10, 2))}

	ledger := books.RecomputeLedger(purchases, nil, nil)
	assert.Empty(t, ledger)
}

// =============================================================================
// MANUAL ROW AND RUNNING BALANCE TESTS
// =============================================================================

func TestRecomputeLedger_ManualRowsSurviveAndDriveBalance(t *testing.T) {
	// GIVEN: A previous ledger holding a manual payment row (credit 40)
	//        after the auto-row for P0001 (total 100)
	// WHEN: Recomputing from unchanged history
	// THEN: The manual row is preserved verbatim and the balance walks
	//       100 -> 60; LastAmount follows

	purchases := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2))}
	previous := books.RecomputeLedger(purchases, nil, nil)

	acct := previous["Acme"]
	acct.Transactions = append(acct.Transactions, books.PartyTransaction{
		Date:    "2026-01-08 12:00:00",
		Type:    string(books.KindPurchase),
		Invoice: "",
		Credit:  "40",
	})

	recomputed := books.RecomputeLedger(purchases, nil, previous)
	got := recomputed["Acme"]
	require.NotNil(t, got)
	require.Len(t, got.Transactions, 2)

	assert.Equal(t, "40", string(got.Transactions[1].Credit))
	assert.Equal(t, "60.00", string(got.Transactions[1].Remaining))
	assert.Equal(t, "60.00", got.LastAmount.StringFixed(2))
}

func TestRecomputeLedger_DebitIncreasesBalance(t *testing.T) {
	// GIVEN: An auto-row of 100 followed by a manual debit of 25
	// WHEN: Recomputing
	// THEN: remaining walks 100 -> 125

	purchases := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2))}
	previous := books.RecomputeLedger(purchases, nil, nil)
	previous["Acme"].Transactions = append(previous["Acme"].Transactions, books.PartyTransaction{
		Date:  "2026-01-08 12:00:00",
		Type:  string(books.KindPurchase),
		Debit: "25",
	})

	got := books.RecomputeLedger(purchases, nil, previous)["Acme"]
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "125.00", string(got.Transactions[1].Remaining))
}

func TestRecomputeLedger_OpeningRowFallsBackToAmountOnlyWhenBlank(t *testing.T) {
	// GIVEN: A first row with blank remaining but a stored amount, and
	//        another party whose first row has unparseable remaining
	// WHEN: Recomputing
	// THEN: blank falls back to amount; garbage coerces to zero and does
	//       NOT fall back

	previous := books.Ledger{
		"Blank": &books.PartyAccount{Transactions: []books.PartyTransaction{
			{Date: "2026-01-01 09:00:00", Type: "Opening", Amount: "75.50"},
		}},
		"Garbage": &books.PartyAccount{Transactions: []books.PartyTransaction{
			{Date: "2026-01-01 09:00:00", Type: "Opening", Remaining: "n/a", Amount: "75.50"},
		}},
	}

	got := books.RecomputeLedger(nil, nil, previous)

	assert.Equal(t, "75.50", string(got["Blank"].Transactions[0].Remaining))
	assert.Equal(t, "75.50", got["Blank"].LastAmount.StringFixed(2))

	assert.Equal(t, "0.00", string(got["Garbage"].Transactions[0].Remaining))
	assert.Equal(t, "0.00", got["Garbage"].LastAmount.StringFixed(2))
}

func TestRecomputeLedger_UnparseableCreditReadsAsZero(t *testing.T) {
	// GIVEN: A manual row whose credit cell holds garbage
	// WHEN: Recomputing
	// THEN: the row contributes nothing to the balance

	purchases := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2))}
	previous := books.RecomputeLedger(purchases, nil, nil)
	previous["Acme"].Transactions = append(previous["Acme"].Transactions, books.PartyTransaction{
		Date:   "2026-01-08 12:00:00",
		Type:   string(books.KindPurchase),
		Credit: "forty",
	})

	got := books.RecomputeLedger(purchases, nil, previous)["Acme"]
	require.Len(t, got.Transactions, 2)
	assert.Equal(t, "100.00", string(got.Transactions[1].Remaining))
}

// =============================================================================
// RECURRENCE AND ISOLATION TESTS
// =============================================================================

func TestRecomputeLedger_StableOverRepeatedRuns(t *testing.T) {
	// GIVEN: Unchanged history with a manual row mixed in
	// WHEN: Recomputing three times, feeding each output into the next
	// THEN: Row count and balances stop changing after the first pass

	purchases := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2))}
	ledger := books.RecomputeLedger(purchases, nil, nil)
	ledger["Acme"].Transactions = append(ledger["Acme"].Transactions, books.PartyTransaction{
		Date: "2026-01-08 12:00:00", Type: string(books.KindPurchase), Credit: "40",
	})

	ledger = books.RecomputeLedger(purchases, nil, ledger)
	want := ledger["Acme"].LastAmount

	for i := 0; i < 2; i++ {
		ledger = books.RecomputeLedger(purchases, nil, ledger)
	}

	acct := ledger["Acme"]
	require.Len(t, acct.Transactions, 2)
	assert.True(t, want.Equal(acct.LastAmount))
}

func TestRecomputeLedger_PreviousLedgerNotMutated(t *testing.T) {
	// GIVEN: A previous ledger
	// WHEN: Recomputing against changed history
	// THEN: the previous value is untouched

	purchases := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 2))}
	previous := books.RecomputeLedger(purchases, nil, nil)
	before := string(previous["Acme"].Transactions[0].Amount)

	edited := []books.TradeRecord{purchase("P0001", "2026-01-05 10:00:00", "Acme", line("Pen", 50, 9))}
	books.RecomputeLedger(edited, nil, previous)

	assert.Equal(t, before, string(previous["Acme"].Transactions[0].Amount))
}
