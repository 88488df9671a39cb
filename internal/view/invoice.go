package view

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/GTDGit/om_console/internal/models"
)

const invoiceWidth = 40

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"upper":  strings.ToUpper,
	"center": center,
	"rule":   func() string { return strings.Repeat("-", invoiceWidth) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
}).Parse(`{{center (upper .Shop.ShopName)}}
{{center (printf "%s | %s" .Shop.Address .Shop.Contact)}}
{{rule}}
{{printf "Inv: #%-16d %17s" .Sale.ID (date .Sale.SaleDate)}}
{{printf "To: %-18s %17s" .Sale.CustomerLabel .Sale.PaymentMethod}}
{{rule}}
{{printf "%-26s %4s %8s" "Item" "Qty" "Price"}}
{{printf "%-26s %4d %8s" .Sale.ItemName .Sale.Quantity .Sale.TotalPrice.String}}
{{- if .Sale.IMEINumber}}
  IMEI: {{.Sale.IMEINumber}}
{{- end}}
{{rule}}
{{printf "%40s" (printf "Total: Rs. %s" .Sale.TotalPrice.String)}}
{{rule}}
{{center "Thank you for visiting!"}}
`))

func center(s string) string {
	if len(s) >= invoiceWidth {
		return s
	}
	return strings.Repeat(" ", (invoiceWidth-len(s))/2) + s
}

// RenderInvoice writes the printable receipt for one sale.
func RenderInvoice(w io.Writer, shop models.ShopProfile, sale models.SaleRecord) error {
	return invoiceTmpl.Execute(w, struct {
		Shop models.ShopProfile
		Sale models.SaleRecord
	}{shop, sale})
}
