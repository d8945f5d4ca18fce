package books_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/tradebook/books"
)

func TestSummarize_FourAggregates(t *testing.T) {
	// GIVEN: Purchases of 150, sales of 90, stock valued at 120
	// WHEN: Summarizing
	// THEN: profit is sales minus purchases, a loss of 60

	purchases := []books.TradeRecord{
		{Total: decimal.NewFromInt(100)},
		{Total: decimal.NewFromInt(50)},
	}
	sales := []books.TradeRecord{{Total: decimal.NewFromInt(90)}}
	stock := []books.StockEntry{
		{Value: decimal.NewFromInt(100)},
		{Value: decimal.NewFromInt(20)},
	}

	got := books.Summarize(purchases, sales, stock)

	assert.Equal(t, "150.00", got.TotalPurchases.StringFixed(2))
	assert.Equal(t, "90.00", got.TotalSales.StringFixed(2))
	assert.Equal(t, "120.00", got.TotalStockValue.StringFixed(2))
	assert.Equal(t, "-60.00", got.ProfitOrLoss.StringFixed(2))
}

func TestSummarize_EmptyCollections(t *testing.T) {
	got := books.Summarize(nil, nil, nil)

	assert.True(t, got.TotalPurchases.IsZero())
	assert.True(t, got.TotalSales.IsZero())
	assert.True(t, got.TotalStockValue.IsZero())
	assert.True(t, got.ProfitOrLoss.IsZero())
}
