package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/tradebook/books"
)

const billSheet = "Sheet1"

// BillWorkbook lays out a record as an invoice workbook: header block,
// party details, one row per product line, then the document totals.
func BillWorkbook(rec *books.TradeRecord, kind books.Kind) (*excelize.File, error) {
	f := excelize.NewFile()

	set := func(cell string, value any) {
		f.SetCellValue(billSheet, cell, value)
	}

	set("A1", fmt.Sprintf("%s BILL", strings.ToUpper(string(kind))))
	set("A2", "Invoice")
	set("B2", rec.Invoice)
	set("A3", "Date")
	set("B3", rec.Date)
	set("A4", "Party")
	set("B4", rec.Party)
	set("A5", "Phone")
	set("B5", rec.Phone)
	set("A6", "Address")
	set("B6", rec.Address)
	set("A7", "GST No")
	set("B7", rec.TaxNo)
	set("A8", "Place of Supply")
	set("B8", rec.PlaceOfSupply)

	headers := []string{"Product", "Unit", "Qty", "Rate", "Subtotal", "Discount", "Tax", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 10)
		set(cell, h)
	}

	row := 11
	for _, line := range rec.Lines() {
		values := []any{
			line.Product, line.Unit,
			line.Qty.InexactFloat64(), line.Rate.InexactFloat64(),
			line.Subtotal.InexactFloat64(), line.DiscountAmt.InexactFloat64(),
			line.TaxAmt.InexactFloat64(), line.Total.InexactFloat64(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			set(cell, v)
		}
		row++
	}

	row++
	set(fmt.Sprintf("G%d", row), "Subtotal")
	set(fmt.Sprintf("H%d", row), rec.Subtotal.InexactFloat64())
	row++
	set(fmt.Sprintf("G%d", row), "Discount")
	set(fmt.Sprintf("H%d", row), rec.DiscountAmt.InexactFloat64())
	row++
	set(fmt.Sprintf("G%d", row), "Tax")
	set(fmt.Sprintf("H%d", row), rec.TaxAmt.InexactFloat64())
	row++
	set(fmt.Sprintf("G%d", row), "Grand Total")
	set(fmt.Sprintf("H%d", row), rec.Total.InexactFloat64())
	row += 2
	set(fmt.Sprintf("A%d", row), "Authorized")
	set(fmt.Sprintf("B%d", row), rec.AuthSign)
	if rec.Notes != "" {
		row++
		set(fmt.Sprintf("A%d", row), "Notes")
		set(fmt.Sprintf("B%d", row), rec.Notes)
	}

	return f, nil
}

// SaveBill writes the invoice workbook and returns its path.
func SaveBill(dir string, rec *books.TradeRecord, kind books.Kind) (string, error) {
	f, err := BillWorkbook(rec, kind)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bills dir: %w", err)
	}
	name := fmt.Sprintf("%s_bill_%s.xlsx", strings.ToLower(string(kind)), rec.Invoice)
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("write bill: %w", err)
	}
	return path, nil
}
