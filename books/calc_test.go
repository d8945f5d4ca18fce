package books_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tradebook/books"
)

// =============================================================================
// LINE TOTAL TESTS
// =============================================================================

func TestCalcTotals_DiscountThenTax(t *testing.T) {
	// GIVEN: 10 units at 5.00, 10% discount, 5% tax
	// WHEN: Computing line totals
	// THEN: subtotal 50, discount 5, tax 2.25 (on the discounted 45), total 47.25

	got := books.CalcTotals("10", "5", "10", "5")

	assert.Equal(t, "50.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", got.DiscountAmt.StringFixed(2))
	assert.Equal(t, "2.25", got.TaxAmt.StringFixed(2))
	assert.Equal(t, "47.25", got.Total.StringFixed(2))
}

func TestCalcTotals_ZeroPercentages(t *testing.T) {
	// GIVEN: No discount and no tax
	// WHEN: Computing line totals
	// THEN: total equals subtotal

	got := books.CalcTotals("3", "19.99", "", "")

	assert.Equal(t, "59.97", got.Subtotal.StringFixed(2))
	assert.True(t, got.DiscountAmt.IsZero())
	assert.True(t, got.TaxAmt.IsZero())
	assert.Equal(t, "59.97", got.Total.StringFixed(2))
}

func TestCalcTotals_CoercesGarbageToZero(t *testing.T) {
	// GIVEN: Unparseable qty and blank rate, as found in old documents
	// WHEN: Computing line totals
	// THEN: The calculation does not fail; everything reads as zero

	got := books.CalcTotals("not-a-number", "", "10", "5")

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestCalcTotals_RoundsHalfToEven(t *testing.T) {
	// GIVEN: Inputs that land exactly on a half cent
	// WHEN: Rounding the final totals
	// THEN: Ties go to the even digit: 0.125 -> 0.12, 0.135 -> 0.14

	down := books.CalcTotals("1", "0.125", "", "")
	assert.Equal(t, "0.12", down.Total.StringFixed(2))

	up := books.CalcTotals("1", "0.135", "", "")
	assert.Equal(t, "0.14", up.Total.StringFixed(2))
}

func TestCalcTotals_NoIntermediateRounding(t *testing.T) {
	// GIVEN: A discount that produces a repeating intermediate value
	// WHEN: Computing tax on the unrounded discounted base
	// THEN: The total reflects full-precision intermediates, rounded once

	// 7 * 3.33 = 23.31; 15% discount = 3.4965 (kept unrounded);
	// taxable = 19.8135; 18% tax = 3.56643; total = 23.37993 -> 23.38
	got := books.CalcTotals("7", "3.33", "15", "18")

	assert.Equal(t, "3.50", got.DiscountAmt.StringFixed(2))
	assert.Equal(t, "3.57", got.TaxAmt.StringFixed(2))
	assert.Equal(t, "23.38", got.Total.StringFixed(2))
}

// =============================================================================
// LINE AND RECORD AGGREGATION TESTS
// =============================================================================

func TestPriceLine_FillsDerivedFields(t *testing.T) {
	// GIVEN: A raw line with only its input fields
	// WHEN: Pricing it
	// THEN: The four derived fields are populated

	line := books.PriceLine(books.LineItem{
		Product: "Pen",
		Qty:     decimal.NewFromInt(10),
		Rate:    decimal.NewFromInt(5),
	})

	assert.Equal(t, "50.00", line.Subtotal.StringFixed(2))
	assert.Equal(t, "50.00", line.Total.StringFixed(2))
}

func TestSumLines_SumsDerivedFields(t *testing.T) {
	// GIVEN: Two priced lines
	// WHEN: Rolling them up
	// THEN: Record aggregates are plain sums of line outputs

	lines := []books.LineItem{
		books.PriceLine(books.LineItem{Product: "Pen", Qty: decimal.NewFromInt(10), Rate: decimal.NewFromInt(2)}),
		books.PriceLine(books.LineItem{Product: "Ink", Qty: decimal.NewFromInt(4), Rate: decimal.NewFromFloat(7.5)}),
	}

	totals := books.SumLines(lines)
	require.Equal(t, "50.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "50.00", totals.Total.StringFixed(2))
}
