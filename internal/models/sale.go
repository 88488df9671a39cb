package models

import "time"

// SaleType distinguishes retail from wholesale pricing.
type SaleType string

const (
	SaleRetail    SaleType = "Retail"
	SaleWholesale SaleType = "Wholesale"
)

// GuestCustomer is shown when a sale has no customer name.
const GuestCustomer = "Guest"

// SaleRecord is a completed sale as exposed by /api/sales/.
type SaleRecord struct {
	ID            int           `json:"id"`
	Item          int           `json:"item"`
	ItemName      string        `json:"item_name"`
	ItemCategory  string        `json:"item_category"`
	Quantity      int           `json:"quantity"`
	UnitPrice     Money         `json:"unit_price"`
	TotalPrice    Money         `json:"total_price"`
	SaleType      SaleType      `json:"sale_type"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	IMEINumber    string        `json:"imei_number"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	Profit        Money         `json:"profit"`
	SaleDate      time.Time     `json:"sale_date"`
}

// CustomerLabel returns the customer name or GuestCustomer.
func (s SaleRecord) CustomerLabel() string {
	if s.CustomerName == "" {
		return GuestCustomer
	}
	return s.CustomerName
}

// SalePayload is the create/update body for /api/sales/.
type SalePayload struct {
	Item          int           `json:"item"`
	Quantity      int           `json:"quantity"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	IMEINumber    string        `json:"imei_number"`
	SaleType      SaleType      `json:"sale_type"`
	UnitPrice     Money         `json:"unit_price"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
}
