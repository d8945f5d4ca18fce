package books

import "github.com/shopspring/decimal"

// Totals is the result of the line-item monetary calculation. Every
// aggregate total in the system is a sum of these outputs; nothing
// recomputes them independently.
type Totals struct {
	Subtotal    decimal.Decimal
	DiscountAmt decimal.Decimal
	TaxAmt      decimal.Decimal
	Total       decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// CalcTotals computes subtotal, discount, tax and total for one line:
//
//	subtotal = qty * rate
//	discount = subtotal * discountPct / 100
//	taxable  = subtotal - discount
//	tax      = taxable * taxPct / 100
//	total    = taxable + tax
//
// Inputs are loosely typed and coerce to zero on parse failure; the
// calculation never fails. Intermediates are not pre-rounded; each
// output is rounded to two places, half to even, at the end.
func CalcTotals(qty, rate, discountPct, taxPct LooseNumber) Totals {
	q, _ := qty.Decimal()
	r, _ := rate.Decimal()
	d, _ := discountPct.Decimal()
	t, _ := taxPct.Decimal()
	return calcTotals(q, r, d, t)
}

func calcTotals(qty, rate, discountPct, taxPct decimal.Decimal) Totals {
	subtotal := qty.Mul(rate)
	discountAmt := subtotal.Mul(discountPct).Div(hundred)
	taxable := subtotal.Sub(discountAmt)
	taxAmt := taxable.Mul(taxPct).Div(hundred)
	total := taxable.Add(taxAmt)

	return Totals{
		Subtotal:    subtotal.RoundBank(2),
		DiscountAmt: discountAmt.RoundBank(2),
		TaxAmt:      taxAmt.RoundBank(2),
		Total:       total.RoundBank(2),
	}
}

// PriceLine fills a line item's derived fields from its inputs and
// returns the updated line.
func PriceLine(line LineItem) LineItem {
	t := calcTotals(line.Qty, line.Rate, line.DiscountPct, line.TaxPct)
	line.Subtotal = t.Subtotal
	line.DiscountAmt = t.DiscountAmt
	line.TaxAmt = t.TaxAmt
	line.Total = t.Total
	return line
}

// SumLines recomputes a record's collection-level aggregates as plain
// sums over its line items.
func SumLines(lines []LineItem) Totals {
	var t Totals
	for _, line := range lines {
		t.Subtotal = t.Subtotal.Add(line.Subtotal)
		t.DiscountAmt = t.DiscountAmt.Add(line.DiscountAmt)
		t.TaxAmt = t.TaxAmt.Add(line.TaxAmt)
		t.Total = t.Total.Add(line.Total)
	}
	return t
}
