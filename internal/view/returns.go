package view

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
)

// DamageForm is the report damage modal.
type DamageForm struct {
	Item     string `json:"item" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

// ReturnsView tracks damaged and returned stock.
type ReturnsView struct {
	*resource.Controller[models.DamageReport, DamageForm]
	api     DamagedAPI
	catalog Catalog
}

func NewReturnsView(api DamagedAPI, notifier resource.Notifier, v *validator.Validate) *ReturnsView {
	view := &ReturnsView{api: api}
	res := resource.Resource[models.DamageReport, DamageForm]{
		Name:      PageReturns,
		ID:        func(r models.DamageReport) int { return r.ID },
		List:      func(ctx context.Context) ([]models.DamageReport, error) { return view.api.ListDamaged(ctx) },
		Companion: view.catalog.fetch(api),
		Create: func(ctx context.Context, f DamageForm) error {
			p, err := view.payload(f)
			if err != nil {
				return err
			}
			_, err = api.CreateDamaged(ctx, p)
			return err
		},
		Update: func(ctx context.Context, id int, f DamageForm) error {
			p, err := view.payload(f)
			if err != nil {
				return err
			}
			_, err = api.UpdateDamaged(ctx, id, p)
			return err
		},
		Delete:    api.DeleteDamaged,
		EmptyForm: func() DamageForm { return DamageForm{Quantity: "1"} },
		FormFrom: func(r models.DamageReport) DamageForm {
			return DamageForm{Item: strconv.Itoa(r.Item), Quantity: strconv.Itoa(r.Quantity), Reason: r.Reason}
		},
		SearchFields: func(r models.DamageReport) []string {
			return []string{r.ItemName}
		},
		SortKeys: map[string]resource.Compare[models.DamageReport]{
			"item_name":   resource.ByString(func(r models.DamageReport) string { return r.ItemName }),
			"quantity":    resource.ByInt(func(r models.DamageReport) int { return r.Quantity }),
			"reason":      resource.ByString(func(r models.DamageReport) string { return r.Reason }),
			"reported_at": resource.ByTime(func(r models.DamageReport) time.Time { return r.ReportedAt }),
		},
		DefaultSort: resource.Sort{Key: "reported_at", Desc: true},
		Messages: resource.Messages{
			Created: "Damage reported!",
			Updated: "Report updated!",
			Deleted: "Report deleted!",
		},
	}
	view.Controller = resource.NewController(res, notifier, v)
	return view
}


func (v *ReturnsView) payload(f DamageForm) (models.DamagePayload, error) {
	var p resource.Parser
	out := models.DamagePayload{
		Item:     p.Int("item", f.Item),
		Quantity: p.IntAtLeast("quantity", f.Quantity, 1),
		Reason:   strings.TrimSpace(f.Reason),
	}
	errs := p.Fields()
	if _, bad := errs["item"]; !bad {
		if _, ok := v.catalog.Find(out.Item); !ok {
			errs["item"] = "Select an item from the list."
		}
	}
	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

func (v *ReturnsView) Unmount() {
	v.Controller.Unmount()
	v.catalog.clear()
}

// ReturnsState is the rendered returns page.
type ReturnsState struct {
	resource.State[models.DamageReport, DamageForm]
	Catalog []CategoryGroup `json:"catalog"`
}

func (v *ReturnsView) Snapshot() any {
	return ReturnsState{State: v.State(), Catalog: v.catalog.Groups()}
}
