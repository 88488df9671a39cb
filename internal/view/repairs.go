package view

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
)

// RepairForm is the new/edit ticket modal. PartItem optionally names an
// inventory item consumed by the repair.
type RepairForm struct {
	CustomerID       string `json:"customer_id"`
	CustomerName     string `json:"customer_name" validate:"required"`
	DeviceModel      string `json:"device_model" validate:"required"`
	IssueDescription string `json:"issue_description" validate:"required"`
	EstimatedCost    string `json:"estimated_cost" validate:"required"`
	Status           string `json:"status" validate:"required"`
	PaymentMethod    string `json:"payment_method" validate:"required"`
	PartItem         string `json:"part_item"`
}

var paymentMethods = []models.PaymentMethod{
	models.PaymentCash, models.PaymentFonepay, models.PaymentBank, models.PaymentCredit,
}

func validPayment(s string) bool {
	for _, m := range paymentMethods {
		if string(m) == s {
			return true
		}
	}
	return false
}

func validStatus(s string) bool {
	for _, st := range models.RepairStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// RepairsView manages repair tickets and the parts they consume.
type RepairsView struct {
	*resource.Controller[models.RepairTicket, RepairForm]
	api     RepairsAPI
	catalog Catalog

	mu          sync.Mutex
	partWarning string
}

func NewRepairsView(api RepairsAPI, notifier resource.Notifier, v *validator.Validate) *RepairsView {
	view := &RepairsView{api: api}
	res := resource.Resource[models.RepairTicket, RepairForm]{
		Name:      PageRepairs,
		ID:        func(t models.RepairTicket) int { return t.ID },
		List:      func(ctx context.Context) ([]models.RepairTicket, error) { return view.api.ListRepairs(ctx) },
		Companion: view.catalog.fetch(api),
		Create: func(ctx context.Context, f RepairForm) error {
			p, part, err := view.payload(f)
			if err != nil {
				return err
			}
			ticket, err := api.CreateRepair(ctx, p)
			if err != nil {
				return err
			}
			view.attachPart(ctx, ticket.ID, part)
			return nil
		},
		Update: func(ctx context.Context, id int, f RepairForm) error {
			p, part, err := view.payload(f)
			if err != nil {
				return err
			}
			if _, err := api.UpdateRepair(ctx, id, p); err != nil {
				return err
			}
			view.attachPart(ctx, id, part)
			return nil
		},
		Delete: api.DeleteRepair,
		EmptyForm: func() RepairForm {
			return RepairForm{Status: string(models.RepairReceived), PaymentMethod: string(models.PaymentCash)}
		},
		FormFrom: func(t models.RepairTicket) RepairForm {
			f := RepairForm{
				CustomerName:     t.CustomerName,
				DeviceModel:      t.DeviceModel,
				IssueDescription: t.IssueDescription,
				EstimatedCost:    t.EstimatedCost.String(),
				Status:           string(t.Status),
				PaymentMethod:    string(t.PaymentMethod),
			}
			if t.CustomerID != nil {
				f.CustomerID = *t.CustomerID
			}
			return f
		},
		SearchFields: func(t models.RepairTicket) []string {
			return []string{t.CustomerName, t.DeviceModel}
		},
		SortKeys: map[string]resource.Compare[models.RepairTicket]{
			"customer_name":  resource.ByString(func(t models.RepairTicket) string { return t.CustomerName }),
			"device_model":   resource.ByString(func(t models.RepairTicket) string { return t.DeviceModel }),
			"status":         resource.ByInt(func(t models.RepairTicket) int { return statusRank(t.Status) }),
			"estimated_cost": resource.ByMoney(func(t models.RepairTicket) models.Money { return t.EstimatedCost }),
			"created_at":     resource.ByTime(func(t models.RepairTicket) time.Time { return t.CreatedAt }),
		},
		Messages: resource.Messages{
			Created: "New ticket created!",
			Updated: "Repair updated successfully!",
			Deleted: "Ticket deleted successfully!",
		},
	}
	view.Controller = resource.NewController(res, notifier, v)
	return view
}

func statusRank(s models.RepairStatus) int {
	for i, st := range models.RepairStatuses {
		if st == s {
			return i
		}
	}
	return len(models.RepairStatuses)
}


func (v *RepairsView) payload(f RepairForm) (models.RepairPayload, int, error) {
	var p resource.Parser
	out := models.RepairPayload{
		CustomerID:       strings.TrimSpace(f.CustomerID),
		CustomerName:     strings.TrimSpace(f.CustomerName),
		DeviceModel:      strings.TrimSpace(f.DeviceModel),
		IssueDescription: f.IssueDescription,
		EstimatedCost:    p.WholeAmount("estimated_cost", f.EstimatedCost),
		Status:           models.RepairStatus(f.Status),
		PaymentMethod:    models.PaymentMethod(f.PaymentMethod),
	}
	part := p.Int("part_item", f.PartItem)

	errs := p.Fields()
	if !validStatus(f.Status) {
		errs["status"] = "Choose a valid status."
	}
	if !validPayment(f.PaymentMethod) {
		errs["payment_method"] = "Choose a valid payment method."
	}
	if part != 0 {
		if _, ok := v.catalog.Find(part); !ok {
			errs["part_item"] = "Select an item from the list."
		}
	}
	if len(errs) > 0 {
		return out, 0, errs
	}
	return out, part, nil
}

// attachPart records the consumed part; the backend decrements its stock.
// The ticket is already saved at this point, so a failure is reported on
// the page instead of failing the submit.
func (v *RepairsView) attachPart(ctx context.Context, repairID, itemID int) {
	if itemID == 0 {
		return
	}
	err := v.api.AddRepairPart(ctx, models.RepairPartRequest{RepairID: repairID, Item: itemID, Quantity: 1})

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		log.Warn().Err(err).Int("repair_id", repairID).Int("item_id", itemID).Msg("Failed to attach repair part")
		v.partWarning = fmt.Sprintf("Ticket #%d saved, but the part could not be attached: %v", repairID, err)
		return
	}
	v.partWarning = ""
}

// Parts returns the picker groups for the part-used field.
func (v *RepairsView) Parts() []CategoryGroup {
	return v.catalog.Groups()
}

// Unmount also drops the part catalog.
func (v *RepairsView) Unmount() {
	v.Controller.Unmount()
	v.catalog.clear()
	v.mu.Lock()
	v.partWarning = ""
	v.mu.Unlock()
}

// RepairsState is the rendered repairs page.
type RepairsState struct {
	resource.State[models.RepairTicket, RepairForm]
	Parts          []CategoryGroup        `json:"parts"`
	Statuses       []models.RepairStatus  `json:"statuses"`
	PaymentMethods []models.PaymentMethod `json:"paymentMethods"`
	ActiveCount    int                    `json:"activeCount"`
	PartWarning    string                 `json:"partWarning,omitempty"`
}

func (v *RepairsView) Snapshot() any {
	st := RepairsState{
		State:          v.State(),
		Parts:          v.Parts(),
		Statuses:       models.RepairStatuses,
		PaymentMethods: paymentMethods,
	}
	for _, t := range v.Records() {
		if t.Active() {
			st.ActiveCount++
		}
	}
	v.mu.Lock()
	st.PartWarning = v.partWarning
	v.mu.Unlock()
	return st
}
