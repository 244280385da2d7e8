package models

import "time"

// Order is a marketplace order as synced or backfilled into the orders table.
// Pack and test data live in packer_logs / tech_serial_numbers and are joined
// on at read time by tracking-number suffix; they are not columns here.
type Order struct {
	ID                     int        `json:"id"`
	OrderID                string     `json:"order_id"`
	ProductTitle           string     `json:"product_title"`
	Condition              string     `json:"condition"`
	ShippingTrackingNumber string     `json:"shipping_tracking_number"`
	SKU                    string     `json:"sku"`
	Quantity               string     `json:"quantity"`
	StatusHistory          []StatusHistoryEntry `json:"status_history"`
	IsShipped              bool       `json:"is_shipped"`
	ShipByDate             string     `json:"ship_by_date"`
	TesterID               *int       `json:"tester_id"` // FK to staff.id - assigned tester
	PackerID               *int       `json:"packer_id"` // FK to staff.id - assigned packer
	Notes                  string     `json:"notes"`
	OutOfStock             string     `json:"out_of_stock"`
	AccountSource          string     `json:"account_source"` // eBay account, Amazon, Ecwid, ...
	OrderDate              *time.Time `json:"order_date"`
	CreatedAt              time.Time  `json:"created_at"`
}

// StatusHistoryEntry is one element of the append-only status_history JSONB log.
type StatusHistoryEntry struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	PreviousStatus string `json:"previous_status,omitempty"`
}

// CurrentStatus returns the most recent status from the history log.
func (o *Order) CurrentStatus() string {
	if len(o.StatusHistory) == 0 {
		return ""
	}
	return o.StatusHistory[len(o.StatusHistory)-1].Status
}

// AssignOrderRequest is the body of POST /api/orders/assign. Only supplied
// fields change; absent fields keep their current values.
type AssignOrderRequest struct {
	OrderID    int    `json:"orderId"`
	OrderIDs   []int  `json:"orderIds"`
	TesterID   *int   `json:"testerId"`
	PackerID   *int   `json:"packerId"`
	ShipByDate *string `json:"shipByDate"`
	OutOfStock *string `json:"outOfStock"`
}

// SubmitShippedRequest is the body of POST /api/shipped/submit - a manual
// upsert that marks an order shipped from the shipped form.
type SubmitShippedRequest struct {
	OrderID                string `json:"order_id"`
	ProductTitle           string `json:"product_title"`
	Reason                 string `json:"reason"`
	Condition              string `json:"condition"`
	ShippingTrackingNumber string `json:"shipping_tracking_number"`
	SKU                    string `json:"sku"`
}
