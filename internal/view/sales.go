package view

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/om_console/internal/export"
	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/utils"
)

// minAutofillPhone is the phone length after which the customer name is
// looked up from earlier sales.
const minAutofillPhone = 5

// SaleForm is the new/edit sale modal.
type SaleForm struct {
	Item          string `json:"item" validate:"required"`
	Quantity      string `json:"quantity" validate:"required"`
	UnitPrice     string `json:"unit_price" validate:"required"`
	SaleType      string `json:"sale_type" validate:"required,oneof=Retail Wholesale"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=Cash Fonepay Bank Credit"`
	IMEINumber    string `json:"imei_number"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// SalesView records sales, prints invoices and exports the ledger.
type SalesView struct {
	*resource.Controller[models.SaleRecord, SaleForm]
	api      SalesAPI
	notifier resource.Notifier
	profile  ProfileSource
	catalog  Catalog
}

func NewSalesView(api SalesAPI, notifier resource.Notifier, profile ProfileSource, v *validator.Validate) *SalesView {
	view := &SalesView{api: api, notifier: notifier, profile: profile}
	res := resource.Resource[models.SaleRecord, SaleForm]{
		Name:      PageSales,
		ID:        func(s models.SaleRecord) int { return s.ID },
		List:      func(ctx context.Context) ([]models.SaleRecord, error) { return view.api.ListSales(ctx) },
		Companion: view.catalog.fetch(api),
		Create: func(ctx context.Context, f SaleForm) error {
			p, err := view.payload(f)
			if err != nil {
				return err
			}
			_, err = api.CreateSale(ctx, p)
			return err
		},
		Update: func(ctx context.Context, id int, f SaleForm) error {
			p, err := view.payload(f)
			if err != nil {
				return err
			}
			_, err = api.UpdateSale(ctx, id, p)
			return err
		},
		Delete: api.DeleteSale,
		EmptyForm: func() SaleForm {
			return SaleForm{
				Quantity:      "1",
				SaleType:      string(models.SaleRetail),
				PaymentMethod: string(models.PaymentCash),
			}
		},
		FormFrom: func(s models.SaleRecord) SaleForm {
			return SaleForm{
				Item:          strconv.Itoa(s.Item),
				Quantity:      strconv.Itoa(s.Quantity),
				UnitPrice:     s.UnitPrice.String(),
				SaleType:      string(s.SaleType),
				PaymentMethod: string(s.PaymentMethod),
				IMEINumber:    s.IMEINumber,
				CustomerName:  s.CustomerName,
				CustomerPhone: s.CustomerPhone,
			}
		},
		Adjust: view.adjust,
		SearchFields: func(s models.SaleRecord) []string {
			return []string{s.ItemName, s.ItemCategory}
		},
		SortKeys: map[string]resource.Compare[models.SaleRecord]{
			"sale_date":     resource.ByTime(func(s models.SaleRecord) time.Time { return s.SaleDate }),
			"item_name":     resource.ByString(func(s models.SaleRecord) string { return s.ItemName }),
			"customer_name": resource.ByString(func(s models.SaleRecord) string { return s.CustomerLabel() }),
			"quantity":      resource.ByInt(func(s models.SaleRecord) int { return s.Quantity }),
			"total_price":   resource.ByMoney(func(s models.SaleRecord) models.Money { return s.TotalPrice }),
		},
		Messages: resource.Messages{
			Created: "Sale recorded!",
			Updated: "Sale updated successfully!",
			Deleted: "Sale deleted!",
		},
	}
	view.Controller = resource.NewController(res, notifier, v)
	return view
}


func (v *SalesView) selected(f SaleForm) (models.InventoryItem, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(f.Item))
	if err != nil {
		return models.InventoryItem{}, false
	}
	return v.catalog.Find(id)
}

// adjust applies the form side effects: picking an item defaults the unit
// price to its selling price, IMEI only applies to handsets, and a known
// phone number fills in the customer name.
func (v *SalesView) adjust(prev, next SaleForm, sales []models.SaleRecord) SaleForm {
	item, found := v.selected(next)
	if next.Item != prev.Item {
		next.UnitPrice = ""
		if found {
			next.UnitPrice = item.Price.String()
		}
	}
	if !found || !item.NeedsIMEI() {
		next.IMEINumber = ""
	}

	phone := strings.TrimSpace(next.CustomerPhone)
	if phone != strings.TrimSpace(prev.CustomerPhone) && len(phone) > minAutofillPhone {
		for _, s := range sales {
			if s.CustomerPhone == phone && s.CustomerName != "" {
				next.CustomerName = s.CustomerName
				break
			}
		}
	}
	return next
}

func (v *SalesView) payload(f SaleForm) (models.SalePayload, error) {
	var p resource.Parser
	out := models.SalePayload{
		Item:          p.Int("item", f.Item),
		Quantity:      p.IntAtLeast("quantity", f.Quantity, 1),
		PaymentMethod: models.PaymentMethod(f.PaymentMethod),
		SaleType:      models.SaleType(f.SaleType),
		UnitPrice:     p.Money("unit_price", f.UnitPrice),
		CustomerName:  strings.TrimSpace(f.CustomerName),
		CustomerPhone: strings.TrimSpace(f.CustomerPhone),
	}
	errs := p.Fields()
	item, found := v.catalog.Find(out.Item)
	if _, bad := errs["item"]; !bad && !found {
		errs["item"] = "Select an item from the list."
	}
	if found && item.NeedsIMEI() {
		out.IMEINumber = strings.TrimSpace(f.IMEINumber)
	}
	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// GrandTotal is quantity × unit price as shown under the form, e.g.
// "Rs. 1500". Unparseable input counts as zero.
func GrandTotal(f SaleForm) string {
	qty, err := strconv.Atoi(strings.TrimSpace(f.Quantity))
	if err != nil {
		qty = 0
	}
	price, err := models.ParseMoney(strings.TrimSpace(f.UnitPrice))
	if err != nil {
		price = models.Money{}
	}
	return "Rs. " + price.Times(qty).String()
}

// Catalog returns the item picker groups.
func (v *SalesView) Catalog() []CategoryGroup {
	return v.catalog.Groups()
}

func (v *SalesView) Unmount() {
	v.Controller.Unmount()
	v.catalog.clear()
}

// SalesState is the rendered sales page.
type SalesState struct {
	resource.State[models.SaleRecord, SaleForm]
	Catalog        []CategoryGroup        `json:"catalog"`
	GrandTotal     string                 `json:"grandTotal,omitempty"`
	IMEIRequired   bool                   `json:"imeiRequired"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods"`
	SaleTypes      []models.SaleType      `json:"saleTypes"`
}

func (v *SalesView) Snapshot() any {
	st := SalesState{
		State:          v.State(),
		Catalog:        v.Catalog(),
		PaymentMethods: paymentMethods,
		SaleTypes:      []models.SaleType{models.SaleRetail, models.SaleWholesale},
	}
	if st.Modal != nil {
		st.GrandTotal = GrandTotal(st.Modal.Form)
		item, ok := v.selected(st.Modal.Form)
		st.IMEIRequired = ok && item.NeedsIMEI()
	}
	return st
}

// ExportCSV writes every loaded sale, ignoring the search filter.
func (v *SalesView) ExportCSV(w io.Writer) error {
	if err := export.WriteSalesCSV(w, v.Records()); err != nil {
		return err
	}
	if v.notifier != nil {
		v.notifier.Show("Sales database downloaded!")
	}
	return nil
}

func (v *SalesView) ExportName(now time.Time) string {
	return export.Filename(export.EntitySales, now)
}

// WriteInvoice prints the invoice for a loaded sale.
func (v *SalesView) WriteInvoice(w io.Writer, id int) error {
	sale, ok := v.Find(id)
	if !ok {
		return utils.ErrRecordNotFound
	}
	shop := models.DefaultShopProfile()
	if v.profile != nil {
		shop = v.profile.Get()
	}
	return RenderInvoice(w, shop, sale)
}
