package order

import "time"

// Order represents an order row as seen by the status workflow. The order
// pre-exists; this service only reads it and writes status and updated_at.
type Order struct {
	ID            int64     `json:"id"`
	StatusID      int64     `json:"statusId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	PurchasedAt   time.Time `json:"purchasedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
