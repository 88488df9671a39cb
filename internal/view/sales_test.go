package view

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/utils"
	"github.com/GTDGit/om_console/pkg/shopapi"
)

type fixedProfile models.ShopProfile

func (p fixedProfile) Get() models.ShopProfile { return models.ShopProfile(p) }

func mountedSales(t *testing.T) (*fakeShop, *SalesView, *toastLog) {
	t.Helper()
	shop, api := newFakeShop(t)
	shop.items = stockFixture()
	shop.sales = []models.SaleRecord{
		{ID: 50, Item: 3, ItemName: "Tempered Glass", ItemCategory: "Glass", Quantity: 2,
			UnitPrice: models.NewMoney(500), TotalPrice: models.NewMoney(1000), SaleType: models.SaleRetail,
			PaymentMethod: models.PaymentCash, CustomerName: "Ram Thapa", CustomerPhone: "9841000001",
			SaleDate: time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)},
	}
	toasts := &toastLog{}
	v := NewSalesView(api, toasts, fixedProfile(models.DefaultShopProfile()), nil)
	require.NoError(t, v.Mount(context.Background()))
	return shop, v, toasts
}

func TestGrandTotal(t *testing.T) {
	assert.Equal(t, "Rs. 1500", GrandTotal(SaleForm{Quantity: "3", UnitPrice: "500"}))
	assert.Equal(t, "Rs. 1501.5", GrandTotal(SaleForm{Quantity: "3", UnitPrice: "500.50"}))
	assert.Equal(t, "Rs. 0", GrandTotal(SaleForm{Quantity: "x", UnitPrice: "500"}))
}

func TestSaleFormShowsGrandTotalBeforeSubmit(t *testing.T) {
	shop, v, _ := mountedSales(t)

	require.NoError(t, v.OpenCreate())
	_, err := v.PatchForm([]byte(`{"item":"3","quantity":"3","unit_price":"500"}`))
	require.NoError(t, err)

	st := v.Snapshot().(SalesState)
	require.NotNil(t, st.Modal)
	assert.Equal(t, "Rs. 1500", st.GrandTotal)
	assert.Zero(t, shop.count("POST"))
}

func TestSelectingItemDefaultsPriceAndIMEI(t *testing.T) {
	_, v, _ := mountedSales(t)
	require.NoError(t, v.OpenCreate())

	form, err := v.PatchForm([]byte(`{"item":"1","imei_number":"356000000000001"}`))
	require.NoError(t, err)
	assert.Equal(t, "21000", form.UnitPrice)
	assert.Equal(t, "356000000000001", form.IMEINumber)
	assert.True(t, v.Snapshot().(SalesState).IMEIRequired)

	form, err = v.PatchForm([]byte(`{"unit_price":"20500"}`))
	require.NoError(t, err)
	assert.Equal(t, "20500", form.UnitPrice, "manual price survives when the item is unchanged")

	form, err = v.PatchForm([]byte(`{"item":"3"}`))
	require.NoError(t, err)
	assert.Equal(t, "500", form.UnitPrice)
	assert.Empty(t, form.IMEINumber, "IMEI only applies to handsets")
	assert.False(t, v.Snapshot().(SalesState).IMEIRequired)
}

func TestPhoneAutofillsKnownCustomer(t *testing.T) {
	_, v, _ := mountedSales(t)
	require.NoError(t, v.OpenCreate())

	form, _ := v.PatchForm([]byte(`{"customer_phone":"98410"}`))
	assert.Empty(t, form.CustomerName, "five characters is not enough")

	form, _ = v.PatchForm([]byte(`{"customer_phone":"9841000001"}`))
	assert.Equal(t, "Ram Thapa", form.CustomerName)

	form, _ = v.PatchForm([]byte(`{"customer_phone":"9800000009"}`))
	assert.Equal(t, "Ram Thapa", form.CustomerName, "unknown numbers leave the name alone")
}

func TestRecordSale(t *testing.T) {
	shop, v, toasts := mountedSales(t)

	require.NoError(t, v.OpenCreate())
	_, err := v.PatchForm([]byte(`{"item":"2","quantity":"2","payment_method":"Fonepay","imei_number":"111"}`))
	require.NoError(t, err)
	require.NoError(t, v.Submit(context.Background()))

	assert.JSONEq(t, `{"item":2,"quantity":2,"payment_method":"Fonepay","imei_number":"111","sale_type":"Retail",
		"unit_price":2600,"customer_name":"","customer_phone":""}`, string(shop.body("POST /api/sales/")))
	assert.Equal(t, 2, v.State().Total)
	assert.Equal(t, "Sale recorded!", toasts.last())

	// the refetched catalog reflects the server-side stock change
	item, ok := v.catalog.Find(2)
	require.True(t, ok)
	assert.Equal(t, 8, item.Stock)
}

func TestBackendRejectionStaysOnForm(t *testing.T) {
	_, v, _ := mountedSales(t)

	require.NoError(t, v.OpenCreate())
	_, _ = v.PatchForm([]byte(`{"item":"4","quantity":"5"}`))
	err := v.Submit(context.Background())
	assert.True(t, shopapi.IsValidation(err))

	st := v.State()
	require.NotNil(t, st.Modal)
	assert.Equal(t, resource.FieldErrors{"": "Insufficient stock"}, st.Modal.FieldErrors)
}

func TestUnknownItemIsRejectedLocally(t *testing.T) {
	shop, v, _ := mountedSales(t)
	require.NoError(t, v.OpenCreate())
	_, _ = v.PatchForm([]byte(`{"item":"999","quantity":"1","unit_price":"10"}`))

	var fe resource.FieldErrors
	require.ErrorAs(t, v.Submit(context.Background()), &fe)
	assert.Equal(t, "Select an item from the list.", fe["item"])
	assert.Zero(t, shop.count("POST"))
}

func TestSalesExportAndInvoice(t *testing.T) {
	_, v, toasts := mountedSales(t)

	var csvBuf bytes.Buffer
	require.NoError(t, v.ExportCSV(&csvBuf))
	assert.Contains(t, csvBuf.String(), "Ram Thapa,9841000001,Tempered Glass,Glass,Retail,,500,2,1000,Cash")
	assert.Equal(t, "Sales database downloaded!", toasts.last())

	var inv bytes.Buffer
	require.NoError(t, v.WriteInvoice(&inv, 50))
	text := inv.String()
	assert.Contains(t, text, "OM MOBILE REPAIRING CENTER")
	assert.Contains(t, text, "Inv: #50")
	assert.Contains(t, text, "To: Ram Thapa")
	assert.Contains(t, text, "2024-04-02")
	assert.Contains(t, text, "Total: Rs. 1000")
	assert.NotContains(t, text, "IMEI")

	assert.ErrorIs(t, v.WriteInvoice(&inv, 1), utils.ErrRecordNotFound)
}

func TestInvoiceGuestAndIMEI(t *testing.T) {
	var buf bytes.Buffer
	err := RenderInvoice(&buf, models.DefaultShopProfile(), models.SaleRecord{
		ID: 7, ItemName: "Redmi 13C", Quantity: 1, TotalPrice: models.NewMoney(17000),
		IMEINumber: "356789012345678", PaymentMethod: models.PaymentBank,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "To: Guest")
	assert.Contains(t, buf.String(), "IMEI: 356789012345678")
	assert.Contains(t, buf.String(), "Kathmandu, Nepal | 9800000000")
}
