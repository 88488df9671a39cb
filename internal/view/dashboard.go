package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/models"
	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/utils"
)

// Metric identifies one of the four dashboard cards.
type Metric string

const (
	MetricSales     Metric = "sales"
	MetricInventory Metric = "inventory"
	MetricRepairs   Metric = "repairs"
	MetricProfit    Metric = "profit"
)

var metrics = []Metric{MetricSales, MetricInventory, MetricRepairs, MetricProfit}

// MetricCard is a rendered summary card.
type MetricCard struct {
	Key    Metric `json:"key"`
	Title  string `json:"title"`
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// ChartBar is one bar of the revenue-by-item chart. Percent is relative to
// the best seller.
type ChartBar struct {
	Item    string       `json:"item"`
	Value   models.Money `json:"value"`
	Label   string       `json:"label"`
	Percent float64      `json:"percent"`
}

// LowStockAlert is the interstitial shown while stock is critical.
type LowStockAlert struct {
	Open  bool                   `json:"open"`
	Count int                    `json:"count"`
	Badge string                 `json:"badge"`
	Items []models.InventoryItem `json:"items"`
}

// DashboardState is the rendered dashboard.
type DashboardState struct {
	Phase         resource.Phase        `json:"phase"`
	Error         string                `json:"error,omitempty"`
	ActiveMetric  Metric                `json:"activeMetric"`
	Cards         []MetricCard          `json:"cards"`
	Chart         []ChartBar            `json:"chart"`
	LowStock      LowStockAlert         `json:"lowStock"`
	RecentRepairs []models.RepairTicket `json:"recentRepairs"`
}

// DashboardView shows the backend's aggregate snapshot. It never mutates
// anything. The low-stock alert opens after every successful fetch that
// reports critical stock, until it is dismissed for the session.
type DashboardView struct {
	api DashboardAPI

	mu     sync.Mutex
	life   context.Context
	cancel context.CancelFunc
	seq    uint64

	phase     resource.Phase
	snap      *models.DashboardSnapshot
	err       error
	active    Metric
	alertOpen bool
	dismissed bool
}

func NewDashboardView(api DashboardAPI) *DashboardView {
	return &DashboardView{api: api, active: MetricSales}
}

func (v *DashboardView) Name() string { return PageDashboard }

func (v *DashboardView) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.life, v.cancel = context.WithCancel(context.Background())
	v.snap, v.err = nil, nil
	v.active = MetricSales
	v.alertOpen = false
	v.mu.Unlock()
	return v.load(ctx)
}

func (v *DashboardView) Refresh(ctx context.Context) error {
	return v.load(ctx)
}

func (v *DashboardView) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.phase = resource.Idle
	v.snap, v.err = nil, nil
	v.alertOpen = false
}

// ResetSession forgets the low-stock dismissal; called on logout.
func (v *DashboardView) ResetSession() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dismissed = false
}

func (v *DashboardView) load(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel == nil {
		v.mu.Unlock()
		return utils.ErrViewNotMounted
	}
	v.seq++
	seq, life := v.seq, v.life
	v.phase = resource.Loading
	v.mu.Unlock()

	ctx, cancel := resource.Scope(ctx, life)
	defer cancel()
	snap, err := v.api.Dashboard(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq || life.Err() != nil {
		return resource.Stale(err)
	}
	if err != nil {
		v.phase = resource.Failed
		v.err = err
		log.Warn().Err(err).Msg("Failed to fetch dashboard")
		return err
	}
	v.phase = resource.Loaded
	v.err = nil
	v.snap = snap
	if snap.LowStockCount > 0 && !v.dismissed {
		v.alertOpen = true
	}
	return nil
}

// SelectMetric highlights a card. It does not refetch.
func (v *DashboardView) SelectMetric(key string) error {
	for _, m := range metrics {
		if string(m) == key {
			v.mu.Lock()
			v.active = m
			v.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %q", utils.ErrUnknownMetric, key)
}

// CloseLowStock hides the alert; the next fetch may open it again.
func (v *DashboardView) CloseLowStock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alertOpen = false
}

// DismissLowStock hides the alert for the rest of the session.
func (v *DashboardView) DismissLowStock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alertOpen = false
	v.dismissed = true
}

// LowStockBadge is the count label of the alert, e.g. "2 Items".
func LowStockBadge(count int) string {
	return fmt.Sprintf("%d Items", count)
}

func chartBars(points []models.ChartPoint) []ChartBar {
	var top models.Money
	for _, p := range points {
		if p.Value.GreaterThan(top.Decimal) {
			top = p.Value
		}
	}
	bars := make([]ChartBar, 0, len(points))
	for _, p := range points {
		bar := ChartBar{Item: p.ItemName, Value: p.Value, Label: FormatRupees(p.Value)}
		if top.IsPositive() {
			pct, _ := p.Value.Mul(models.NewMoney(100).Decimal).Div(top.Decimal).Round(1).Float64()
			bar.Percent = pct
		}
		bars = append(bars, bar)
	}
	return bars
}

func (v *DashboardView) Snapshot() any {
	v.mu.Lock()
	defer v.mu.Unlock()

	st := DashboardState{Phase: v.phase, ActiveMetric: v.active}
	if v.err != nil {
		st.Error = v.err.Error()
	}
	snap := v.snap
	if snap == nil {
		snap = &models.DashboardSnapshot{}
	}
	values := map[Metric]string{
		MetricSales:     FormatRupees(snap.TotalSales),
		MetricInventory: FormatRupees(snap.InventoryValue),
		MetricRepairs:   FormatCount(snap.ActiveRepairs),
		MetricProfit:    FormatRupees(snap.NetProfit),
	}
	titles := map[Metric]string{
		MetricSales:     "Total Revenue",
		MetricInventory: "Inventory Asset",
		MetricRepairs:   "Active Repairs",
		MetricProfit:    "Net Profit",
	}
	for _, m := range metrics {
		st.Cards = append(st.Cards, MetricCard{Key: m, Title: titles[m], Value: values[m], Active: m == v.active})
	}
	st.Chart = chartBars(snap.ChartData)
	st.RecentRepairs = snap.RecentRepairs
	st.LowStock = LowStockAlert{
		Open:  v.alertOpen,
		Count: snap.LowStockCount,
		Badge: LowStockBadge(snap.LowStockCount),
		Items: snap.LowStockItems,
	}
	return st
}
