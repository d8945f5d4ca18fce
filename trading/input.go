package trading

import (
	"strings"

	"github.com/ledgerline/tradebook/books"
)

// LineInput is one operator-entered product line. Quantities, rates and
// percentages arrive loose: forms and older clients send numbers,
// strings or blanks interchangeably.
type LineInput struct {
	Product     string            `json:"product"`
	Unit        string            `json:"unit"`
	Qty         books.LooseNumber `json:"qty"`
	Rate        books.LooseNumber `json:"rate"`
	DiscountPct books.LooseNumber `json:"discount_pct"`
	TaxPct      books.LooseNumber `json:"tax_pct"`
}

// RecordInput is the operator-entered body of a purchase or sale.
// Id, invoice and date are never accepted from input; the service
// issues them.
type RecordInput struct {
	Party         string      `json:"party"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	TaxNo         string      `json:"gst_no"`
	PlaceOfSupply string      `json:"place_of_supply"`
	AuthSign      string      `json:"auth_sign"`
	Notes         string      `json:"notes"`
	Lines         []LineInput `json:"products"`
}

// LedgerEntryInput is one manual ledger row. Type and invoice are
// optional; blank values default from the party's last row.
type LedgerEntryInput struct {
	Type    string            `json:"type"`
	Invoice string            `json:"invoice"`
	Credit  books.LooseNumber `json:"credit"`
	Debit   books.LooseNumber `json:"debit"`
}

// validate rejects input before any state is written. A record needs a
// party and at least one line with a product name; everything numeric
// coerces rather than errors.
func (in RecordInput) validate() error {
	if strings.TrimSpace(in.Party) == "" {
		return books.ErrMissingParty
	}
	if len(in.Lines) == 0 {
		return books.ErrNoLineItems
	}
	for _, line := range in.Lines {
		if strings.TrimSpace(line.Product) == "" {
			return books.ErrMissingProduct
		}
	}
	return nil
}

// toRecord prices every line and rolls the totals up onto the record.
func (in RecordInput) toRecord() books.TradeRecord {
	rec := books.TradeRecord{
		Party:         strings.TrimSpace(in.Party),
		Phone:         in.Phone,
		Address:       in.Address,
		TaxNo:         in.TaxNo,
		PlaceOfSupply: in.PlaceOfSupply,
		AuthSign:      in.AuthSign,
		Notes:         in.Notes,
	}

	for _, line := range in.Lines {
		qty, _ := line.Qty.Decimal()
		rate, _ := line.Rate.Decimal()
		disc, _ := line.DiscountPct.Decimal()
		tax, _ := line.TaxPct.Decimal()
		rec.Items = append(rec.Items, books.PriceLine(books.LineItem{
			Product:     strings.TrimSpace(line.Product),
			Unit:        strings.TrimSpace(line.Unit),
			Qty:         qty,
			Rate:        rate,
			DiscountPct: disc,
			TaxPct:      tax,
		}))
	}

	totals := books.SumLines(rec.Items)
	rec.Subtotal = totals.Subtotal
	rec.DiscountAmt = totals.DiscountAmt
	rec.TaxAmt = totals.TaxAmt
	rec.Total = totals.Total
	return rec
}
