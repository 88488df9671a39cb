package models

import (
	"strings"
	"time"
)

// Category enumerates the inventory categories offered by the item form.
type Category string

const (
	CategoryDisplay     Category = "Display"
	CategoryBattery     Category = "Battery"
	CategoryCharger     Category = "Charger"
	CategoryGlass       Category = "Glass"
	CategoryAccessories Category = "Accessories"
	CategoryAndroid     Category = "Android"
	CategoryKeypad      Category = "Keypad"
)

// Categories lists every category in form order.
var Categories = []Category{
	CategoryDisplay, CategoryBattery, CategoryCharger, CategoryGlass,
	CategoryAccessories, CategoryAndroid, CategoryKeypad,
}

// UncategorizedLabel groups items with a blank category in pickers.
const UncategorizedLabel = "Uncategorized"

// CriticalStockLevel is the dashboard alert threshold (stock <= 2); the
// backend applies it when computing low_stock_count.
const CriticalStockLevel = 2

// InventoryItem is a stock keeping unit as exposed by /api/items/.
type InventoryItem struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	CostPrice Money     `json:"cost_price"`
	Price     Money     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// IsHandset reports whether the item belongs on the mobile shop floor
// (category exactly Android or Keypad, ignoring case).
func (i InventoryItem) IsHandset() bool {
	c := strings.ToLower(i.Category)
	return c == "android" || c == "keypad"
}

// NeedsIMEI reports whether selling the item should capture an IMEI number.
func (i InventoryItem) NeedsIMEI() bool {
	c := strings.ToLower(i.Category)
	return strings.Contains(c, "android") || strings.Contains(c, "keypad")
}

// ItemPayload is the create/update body for /api/items/.
type ItemPayload struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Stock     int    `json:"stock"`
	CostPrice Money  `json:"cost_price"`
	Price     Money  `json:"price"`
}
