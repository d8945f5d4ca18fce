package render

import (
	"encoding/csv"
	"io"

	"github.com/ledgerline/tradebook/books"
)

// StockCSV writes the stock snapshot as CSV, one row per product.
func StockCSV(w io.Writer, stock []books.StockEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Product", "Purchased", "Sold", "Available",
		"Avg Price", "Value", "Unit", "Latest Invoice",
	}); err != nil {
		return err
	}
	for _, e := range stock {
		if err := cw.Write([]string{
			e.Product,
			e.Purchased.String(),
			e.Sold.String(),
			e.Available.String(),
			e.AvgPrice.StringFixed(2),
			e.Value.StringFixed(2),
			e.Unit,
			e.LatestInvoice,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
