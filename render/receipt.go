/*
Package render produces printable artifacts from finalized records.

PURPOSE:
  Display-only collaborators of the engine: a plain-text receipt, an
  invoice ("bill") workbook, and a CSV export of the stock snapshot.
  Renderers consume a finalized record and never mutate it.

OUTPUT:
  Receipts are written under the receipts directory as
  <kind>_receipt_<invoice>.txt, bills under the bills directory as
  <kind>_bill_<invoice>.xlsx.
*/
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ledgerline/tradebook/books"
)

const receiptTemplate = `{{upper .Kind}} RECEIPT
----------------------------------------
Invoice : {{.Record.Invoice}}
Date    : {{.Record.Date}}
Party   : {{.Record.Party}}
Phone   : {{.Record.Phone}}
Address : {{.Record.Address}}
GST No  : {{.Record.TaxNo}}
Place   : {{.Record.PlaceOfSupply}}
----------------------------------------
PRODUCTS:
{{range .Lines -}}
Product : {{.Product}}
Qty     : {{.Qty}} {{.Unit}}
Rate    : {{.Rate}}
Subtotal: {{.Subtotal}}
Discount: {{.DiscountAmt}}
Tax     : {{.TaxAmt}}
Total   : {{.Total}}
----------------------------------------
{{end -}}
Grand Total: {{.Record.Total}}
Authorized: {{.Record.AuthSign}}
----------------------------------------
Generated by Tradebook
`

var receiptTpl = template.Must(template.New("receipt").
	Funcs(template.FuncMap{"upper": strings.ToUpper}).
	Parse(receiptTemplate))

// ReceiptText renders the receipt for a record as plain text.
func ReceiptText(rec *books.TradeRecord, kind books.Kind) (string, error) {
	var b strings.Builder
	data := struct {
		Kind   string
		Record *books.TradeRecord
		Lines  []books.LineItem
	}{string(kind), rec, rec.Lines()}
	if err := receiptTpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return b.String(), nil
}

// SaveReceipt writes the receipt artifact and returns its path.
func SaveReceipt(dir string, rec *books.TradeRecord, kind books.Kind) (string, error) {
	text, err := ReceiptText(rec, kind)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts dir: %w", err)
	}
	name := fmt.Sprintf("%s_receipt_%s.txt", strings.ToLower(string(kind)), rec.Invoice)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
