package models

// DashboardSnapshot is the read-only aggregate served by /api/dashboard/.
type DashboardSnapshot struct {
	TotalSales     Money           `json:"total_sales"`
	InventoryValue Money           `json:"inventory_value"`
	ActiveRepairs  int             `json:"active_repairs"`
	NetProfit      Money           `json:"net_profit"`
	LowStockCount  int             `json:"low_stock_count"`
	ChartData      []ChartPoint    `json:"chart_data"`
	RecentRepairs  []RepairTicket  `json:"recent_repairs"`
	LowStockItems  []InventoryItem `json:"low_stock_items"`
}

// ChartPoint is the revenue earned by one item.
type ChartPoint struct {
	ItemName string `json:"item__name"`
	Value    Money  `json:"value"`
}

// Credentials is the body for /api/token/.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned by /api/token/ and /api/token/refresh/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// ShopProfile is the locally persisted shop information form.
type ShopProfile struct {
	ShopName      string `json:"shopName" validate:"required"`
	OwnerName     string `json:"ownerName" validate:"required"`
	Contact       string `json:"contact" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Notifications bool   `json:"notifications"`
}

// DefaultShopProfile is used until the profile has been saved once.
func DefaultShopProfile() ShopProfile {
	return ShopProfile{
		ShopName:      "Om Mobile Repairing Center",
		OwnerName:     "Your Name",
		Contact:       "9800000000",
		Address:       "Kathmandu, Nepal",
		Notifications: true,
	}
}
