// Package view implements the console pages on top of the shop API: one
// list/CRUD page per backend collection plus the dashboard.
package view

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/GTDGit/om_console/internal/models"
)

// Page names as used by the console routes.
const (
	PageDashboard  = "dashboard"
	PageInventory  = "inventory"
	PageMobileShop = "mobile-shop"
	PageRepairs    = "repairs"
	PageReturns    = "returns"
	PageSales      = "sales"
)

// ItemsAPI is the inventory part of the shop API.
type ItemsAPI interface {
	ListItems(ctx context.Context, ordering string) ([]models.InventoryItem, error)
	CreateItem(ctx context.Context, p models.ItemPayload) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, id int, p models.ItemPayload) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id int) error
}

// RepairsAPI is the repair ticket part of the shop API.
type RepairsAPI interface {
	ListItems(ctx context.Context, ordering string) ([]models.InventoryItem, error)
	ListRepairs(ctx context.Context) ([]models.RepairTicket, error)
	CreateRepair(ctx context.Context, p models.RepairPayload) (*models.RepairTicket, error)
	UpdateRepair(ctx context.Context, id int, p models.RepairPayload) (*models.RepairTicket, error)
	DeleteRepair(ctx context.Context, id int) error
	AddRepairPart(ctx context.Context, p models.RepairPartRequest) error
}

// SalesAPI is the sales part of the shop API.
type SalesAPI interface {
	ListItems(ctx context.Context, ordering string) ([]models.InventoryItem, error)
	ListSales(ctx context.Context) ([]models.SaleRecord, error)
	CreateSale(ctx context.Context, p models.SalePayload) (*models.SaleRecord, error)
	UpdateSale(ctx context.Context, id int, p models.SalePayload) (*models.SaleRecord, error)
	DeleteSale(ctx context.Context, id int) error
}

// DamagedAPI is the returns/damaged stock part of the shop API.
type DamagedAPI interface {
	ListItems(ctx context.Context, ordering string) ([]models.InventoryItem, error)
	ListDamaged(ctx context.Context) ([]models.DamageReport, error)
	CreateDamaged(ctx context.Context, p models.DamagePayload) (*models.DamageReport, error)
	UpdateDamaged(ctx context.Context, id int, p models.DamagePayload) (*models.DamageReport, error)
	DeleteDamaged(ctx context.Context, id int) error
}

// DashboardAPI serves the aggregate snapshot.
type DashboardAPI interface {
	Dashboard(ctx context.Context) (*models.DashboardSnapshot, error)
}

// ProfileSource supplies the shop details printed on invoices.
type ProfileSource interface {
	Get() models.ShopProfile
}

var printer = message.NewPrinter(language.English)

// FormatRupees renders an amount the way the dashboard cards do, e.g.
// "Rs. 12,500" or "Rs. 1,234.5".
func FormatRupees(m models.Money) string {
	f, _ := m.Float64()
	return printer.Sprintf("Rs. %v", number.Decimal(f, number.MaxFractionDigits(2)))
}

// FormatCount renders a whole number with digit grouping.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
