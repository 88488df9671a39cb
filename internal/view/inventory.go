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
)

// DefaultLowStockHighlight flags inventory rows below this stock.
const DefaultLowStockHighlight = 5

// ItemForm is the add/edit item modal.
type ItemForm struct {
	Name      string `json:"name" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Stock     string `json:"stock" validate:"required"`
	CostPrice string `json:"cost_price"`
	Price     string `json:"price" validate:"required"`
}

func (f ItemForm) payload() (models.ItemPayload, error) {
	var p resource.Parser
	out := models.ItemPayload{
		Name:      strings.TrimSpace(f.Name),
		Category:  f.Category,
		Stock:     p.IntAtLeast("stock", f.Stock, 0),
		CostPrice: p.Money("cost_price", f.CostPrice),
		Price:     p.Money("price", f.Price),
	}
	return out, p.Err()
}

func itemFormFrom(it models.InventoryItem) ItemForm {
	return ItemForm{
		Name:      it.Name,
		Category:  it.Category,
		Stock:     strconv.Itoa(it.Stock),
		CostPrice: it.CostPrice.String(),
		Price:     it.Price.String(),
	}
}

func itemSortKeys() map[string]resource.Compare[models.InventoryItem] {
	return map[string]resource.Compare[models.InventoryItem]{
		"name":       resource.ByString(func(i models.InventoryItem) string { return i.Name }),
		"category":   resource.ByString(func(i models.InventoryItem) string { return i.Category }),
		"stock":      resource.ByInt(func(i models.InventoryItem) int { return i.Stock }),
		"cost_price": resource.ByMoney(func(i models.InventoryItem) models.Money { return i.CostPrice }),
		"price":      resource.ByMoney(func(i models.InventoryItem) models.Money { return i.Price }),
		"created_at": resource.ByTime(func(i models.InventoryItem) time.Time { return i.CreatedAt }),
	}
}

func itemSearchFields(i models.InventoryItem) []string {
	return []string{i.Name, i.Category}
}

// InventoryView is the full stock list with CSV backup.
type InventoryView struct {
	*resource.Controller[models.InventoryItem, ItemForm]
	notifier  resource.Notifier
	highlight int
}

// NewInventoryView creates the inventory page. Rows with stock below
// highlight are flagged.
func NewInventoryView(api ItemsAPI, notifier resource.Notifier, v *validator.Validate, highlight int) *InventoryView {
	if highlight <= 0 {
		highlight = DefaultLowStockHighlight
	}
	res := resource.Resource[models.InventoryItem, ItemForm]{
		Name: PageInventory,
		ID:   func(i models.InventoryItem) int { return i.ID },
		List: func(ctx context.Context) ([]models.InventoryItem, error) {
			return api.ListItems(ctx, "-created_at")
		},
		Create: func(ctx context.Context, f ItemForm) error {
			p, err := f.payload()
			if err != nil {
				return err
			}
			_, err = api.CreateItem(ctx, p)
			return err
		},
		Update: func(ctx context.Context, id int, f ItemForm) error {
			p, err := f.payload()
			if err != nil {
				return err
			}
			_, err = api.UpdateItem(ctx, id, p)
			return err
		},
		Delete:       api.DeleteItem,
		EmptyForm:    func() ItemForm { return ItemForm{} },
		FormFrom:     itemFormFrom,
		SearchFields: itemSearchFields,
		SortKeys:     itemSortKeys(),
		DefaultSort:  resource.Sort{Key: "created_at", Desc: true},
		Messages: resource.Messages{
			Created: "New item added!",
			Updated: "Item updated successfully!",
			Deleted: "Item deleted successfully!",
		},
	}
	return &InventoryView{
		Controller: resource.NewController(res, notifier, v),
		notifier:   notifier,
		highlight:  highlight,
	}
}

// InventoryState is the rendered inventory page.
type InventoryState struct {
	resource.State[models.InventoryItem, ItemForm]
	LowStockIDs []int             `json:"lowStockIds"`
	Categories  []models.Category `json:"categories"`
}

// LowStock reports whether item gets the low-stock row treatment.
func (v *InventoryView) LowStock(item models.InventoryItem) bool {
	return item.Stock < v.highlight
}

func (v *InventoryView) Snapshot() any {
	st := InventoryState{State: v.State(), Categories: models.Categories, LowStockIDs: []int{}}
	for _, it := range st.Items {
		if v.LowStock(it) {
			st.LowStockIDs = append(st.LowStockIDs, it.ID)
		}
	}
	return st
}

// ExportCSV writes every loaded item, ignoring the search filter.
func (v *InventoryView) ExportCSV(w io.Writer) error {
	if err := export.WriteInventoryCSV(w, v.Records()); err != nil {
		return err
	}
	if v.notifier != nil {
		v.notifier.Show("Inventory database downloaded!")
	}
	return nil
}

// ExportName is the download filename for today's backup.
func (v *InventoryView) ExportName(now time.Time) string {
	return export.Filename(export.EntityInventory, now)
}
