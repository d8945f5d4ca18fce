package books

import (
	"fmt"
	"time"
)

// NextID returns the next integer id for a collection: max existing id
// plus one, or 1 when the collection is empty. Ids are assigned at
// creation and never reused. When no record carries a positive id
// (malformed legacy data) the fallback is len+1.
func NextID(records []TradeRecord) int {
	if len(records) == 0 {
		return 1
	}
	max := 0
	for _, r := range records {
		if r.ID > max {
			max = r.ID
		}
	}
	if max <= 0 {
		return len(records) + 1
	}
	return max + 1
}

// Issue allocates the next record id together with its invoice code:
// prefix + YYMMDD + zero-padded 4-digit sequence, where the sequence is
// the id itself. Both come from the same read of the collection, so a
// single call is one logical issuance step; computing them separately
// risks skipped or duplicated invoice numbers.
func Issue(kind Kind, records []TradeRecord, now time.Time) (int, string) {
	id := NextID(records)
	return id, fmt.Sprintf("%s%s%04d", kind.InvoicePrefix(), now.Format("060102"), id)
}
