package models

import "time"

// RepairStatus tracks a ticket through the workshop.
type RepairStatus string

const (
	RepairReceived   RepairStatus = "Received"
	RepairInProgress RepairStatus = "In Progress"
	RepairDone       RepairStatus = "Done"
	RepairDelivered  RepairStatus = "Delivered"
)

// RepairStatuses lists statuses in lifecycle order.
var RepairStatuses = []RepairStatus{RepairReceived, RepairInProgress, RepairDone, RepairDelivered}

// PaymentMethod enumerates how a customer settled.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentFonepay PaymentMethod = "Fonepay"
	PaymentBank    PaymentMethod = "Bank"
	PaymentCredit  PaymentMethod = "Credit"
)

// RepairTicket is a device repair job as exposed by /api/repairs/.
type RepairTicket struct {
	ID               int           `json:"id"`
	CustomerID       *string       `json:"customer_id"`
	CustomerName     string        `json:"customer_name"`
	DeviceModel      string        `json:"device_model"`
	IssueDescription string        `json:"issue_description"`
	EstimatedCost    Money         `json:"estimated_cost"`
	Status           RepairStatus  `json:"status"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	Parts            []RepairPart  `json:"parts"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Active reports whether the ticket still occupies the workshop.
func (t RepairTicket) Active() bool {
	return t.Status != RepairDone && t.Status != RepairDelivered
}

// RepairPart is an inventory item consumed by a repair.
type RepairPart struct {
	ID       int    `json:"id"`
	Item     int    `json:"item"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// RepairPayload is the create/update body for /api/repairs/.
type RepairPayload struct {
	CustomerID       string        `json:"customer_id"`
	CustomerName     string        `json:"customer_name"`
	DeviceModel      string        `json:"device_model"`
	IssueDescription string        `json:"issue_description"`
	EstimatedCost    int           `json:"estimated_cost"`
	Status           RepairStatus  `json:"status"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
}

// RepairPartRequest attaches a consumed part to a ticket via /api/repairs/parts/.
type RepairPartRequest struct {
	RepairID int `json:"repair_id"`
	Item     int `json:"item"`
	Quantity int `json:"quantity"`
}
