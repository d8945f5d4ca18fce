package books

import "github.com/shopspring/decimal"

// Dashboard aggregates: four pure derivations over already-persisted
// collections. They read derived state but never trigger reconciliation.

// TotalOf sums record totals for a collection, rounded to two places.
func TotalOf(records []TradeRecord) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Total)
	}
	return sum.RoundBank(2)
}

// TotalStockValue sums stock entry values, rounded to two places.
func TotalStockValue(stock []StockEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range stock {
		sum = sum.Add(e.Value)
	}
	return sum.RoundBank(2)
}

// Summarize derives the dashboard figures. Profit is total sales minus
// total purchases; a negative figure is a loss.
func Summarize(purchases, sales []TradeRecord, stock []StockEntry) DashboardSummary {
	totalPurchases := TotalOf(purchases)
	totalSales := TotalOf(sales)
	return DashboardSummary{
		TotalPurchases:  totalPurchases,
		TotalSales:      totalSales,
		TotalStockValue: TotalStockValue(stock),
		ProfitOrLoss:    totalSales.Sub(totalPurchases).RoundBank(2),
	}
}
