package models

import "time"

// DamageReport records stock written off as damaged or returned.
type DamageReport struct {
	ID         int       `json:"id"`
	Item       int       `json:"item"`
	ItemName   string    `json:"item_name"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason"`
	ReportedAt time.Time `json:"reported_at"`
}

// DamagePayload is the create/update body for /api/damaged/.
type DamagePayload struct {
	Item     int    `json:"item"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}
