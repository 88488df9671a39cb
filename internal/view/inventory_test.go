package view

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/utils"
)

func TestInventoryFlagsLowStockAndSortsNewestFirst(t *testing.T) {
	shop, api := newFakeShop(t)
	shop.items = stockFixture()
	v := NewInventoryView(api, &toastLog{}, nil, 5)
	require.NoError(t, v.Mount(context.Background()))

	st := v.Snapshot().(InventoryState)
	assert.Equal(t, resource.Loaded, st.Phase)
	assert.Equal(t, []int{5, 4, 3, 2, 1}, itemIDs(st.Items))
	assert.ElementsMatch(t, []int{1, 4}, st.LowStockIDs)
	assert.Contains(t, shop.requests(), "GET /api/items/")
}

func TestInventoryExportIgnoresSearch(t *testing.T) {
	shop, api := newFakeShop(t)
	shop.items = stockFixture()
	toasts := &toastLog{}
	v := NewInventoryView(api, toasts, nil, 0)
	require.NoError(t, v.Mount(context.Background()))
	v.Search("glass")
	require.Len(t, v.Visible(), 1)

	var buf bytes.Buffer
	require.NoError(t, v.ExportCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, len(shop.items)+1)
	assert.Equal(t, "Inventory_Backup_2024-06-30.csv", v.ExportName(time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Inventory database downloaded!", toasts.last())
}

func TestInventoryCreateSendsNumbers(t *testing.T) {
	shop, api := newFakeShop(t)
	toasts := &toastLog{}
	v := NewInventoryView(api, toasts, nil, 0)
	require.NoError(t, v.Mount(context.Background()))

	require.NoError(t, v.OpenCreate())
	_, err := v.PatchForm([]byte(`{"name":"Fast Charger","category":"Charger","stock":"12","cost_price":"350","price":"600.50"}`))
	require.NoError(t, err)
	require.NoError(t, v.Submit(context.Background()))

	assert.JSONEq(t,
		`{"name":"Fast Charger","category":"Charger","stock":12,"cost_price":350,"price":600.5}`,
		string(shop.body("POST /api/items/")))
	assert.Equal(t, 1, v.State().Total)
	assert.Equal(t, "New item added!", toasts.last())
}

func TestInventoryBadNumbersNeverLeave(t *testing.T) {
	shop, api := newFakeShop(t)
	v := NewInventoryView(api, nil, nil, 0)
	require.NoError(t, v.Mount(context.Background()))

	require.NoError(t, v.OpenCreate())
	_, err := v.PatchForm([]byte(`{"name":"Cable","category":"Accessories","stock":"many","price":"abc"}`))
	require.NoError(t, err)

	err = v.Submit(context.Background())
	var fe resource.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "stock")
	assert.Contains(t, fe, "price")
	assert.Zero(t, shop.count("POST"))
	assert.NotNil(t, v.State().Modal)
}

func TestInventoryDeleteFlow(t *testing.T) {
	shop, api := newFakeShop(t)
	shop.items = stockFixture()
	v := NewInventoryView(api, nil, nil, 0)
	require.NoError(t, v.Mount(context.Background()))

	require.NoError(t, v.RequestDelete(3))
	v.CancelDelete()
	assert.Zero(t, shop.count("DELETE"))

	require.NoError(t, v.RequestDelete(3))
	assert.Zero(t, shop.count("DELETE"))
	require.NoError(t, v.ConfirmDelete(context.Background()))
	assert.Equal(t, 1, shop.count("DELETE /api/items/3/"))
	assert.Equal(t, 4, v.State().Total)
}

func TestInventorySnapshotJSON(t *testing.T) {
	shop, api := newFakeShop(t)
	shop.items = stockFixture()[:1]
	v := NewInventoryView(api, nil, nil, 0)
	require.NoError(t, v.Mount(context.Background()))

	out, err := json.Marshal(v.Snapshot())
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "loaded", decoded["phase"])
	assert.Equal(t, "inventory", decoded["resource"])
	assert.Equal(t, []any{float64(1)}, decoded["lowStockIds"])
	assert.Equal(t, map[string]any{"key": "created_at", "desc": true}, decoded["sort"])
}

func TestMobileShopIsHandsetsOnlyAndCreateOnly(t *testing.T) {
	shop, api := newFakeShop(t)
	shop.items = stockFixture()
	v := NewMobileShopView(api, &toastLog{}, nil)
	require.NoError(t, v.Mount(context.Background()))

	assert.ElementsMatch(t, []int{1, 2}, itemIDs(v.Records()))
	assert.ErrorIs(t, v.OpenEdit(1), utils.ErrUnsupportedMode)
	assert.ErrorIs(t, v.RequestDelete(1), utils.ErrUnsupportedMode)

	require.NoError(t, v.OpenCreate())
	form, _ := v.Form()
	assert.Equal(t, "Android", form.Category)

	_, err := v.PatchForm([]byte(`{"name":"Itel A70","stock":"3","price":"11000"}`))
	require.NoError(t, err)
	require.NoError(t, v.Submit(context.Background()))
	assert.Len(t, v.Records(), 3)
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(stockFixture())
	var names []string
	for _, g := range groups {
		names = append(names, g.Category)
	}
	assert.Equal(t, []string{"Android", "Display", "Glass", "Keypad", models.UncategorizedLabel}, names)
	assert.Equal(t, "Loose Screws", groups[len(groups)-1].Items[0].Name)
}

func itemIDs(items []models.InventoryItem) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
