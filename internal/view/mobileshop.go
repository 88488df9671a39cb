package view

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
)

// MobileShopView lists handsets (Android and Keypad stock) and adds new
// ones. Editing and deleting stay on the inventory page.
type MobileShopView struct {
	*resource.Controller[models.InventoryItem, ItemForm]
}

func NewMobileShopView(api ItemsAPI, notifier resource.Notifier, v *validator.Validate) *MobileShopView {
	res := resource.Resource[models.InventoryItem, ItemForm]{
		Name: PageMobileShop,
		ID:   func(i models.InventoryItem) int { return i.ID },
		List: func(ctx context.Context) ([]models.InventoryItem, error) {
			items, err := api.ListItems(ctx, "-created_at")
			if err != nil {
				return nil, err
			}
			phones := make([]models.InventoryItem, 0, len(items))
			for _, it := range items {
				if it.IsHandset() {
					phones = append(phones, it)
				}
			}
			return phones, nil
		},
		Create: func(ctx context.Context, f ItemForm) error {
			p, err := f.payload()
			if err != nil {
				return err
			}
			_, err = api.CreateItem(ctx, p)
			return err
		},
		EmptyForm: func() ItemForm {
			return ItemForm{Category: string(models.CategoryAndroid)}
		},
		FormFrom:     itemFormFrom,
		SearchFields: itemSearchFields,
		SortKeys:     itemSortKeys(),
		Messages:     resource.Messages{Created: "Phone added successfully!"},
	}
	return &MobileShopView{Controller: resource.NewController(res, notifier, v)}
}

// MobileShopState is the rendered mobile shop page.
type MobileShopState struct {
	resource.State[models.InventoryItem, ItemForm]
	Categories []models.Category `json:"categories"`
}

func (v *MobileShopView) Snapshot() any {
	return MobileShopState{
		State:      v.State(),
		Categories: []models.Category{models.CategoryAndroid, models.CategoryKeypad},
	}
}
