package models

import "time"

// Stations that can raise an order exception.
const (
	StationTech   = "tech"
	StationPacker = "packer"
	StationVerify = "verify"
	StationMobile = "mobile"
)

// OrderException is a tracking number observed at a station (usually a packer
// scan) that has no matching order row - an orphan shipment event. It is
// resolved by deletion once a matching order appears.
type OrderException struct {
	ID                     int       `json:"id"`
	ShippingTrackingNumber string    `json:"shipping_tracking_number"`
	SourceStation          string    `json:"source_station"`
	StaffID                *int      `json:"staff_id"`
	StaffName              *string   `json:"staff_name"`
	ExceptionReason        string    `json:"exception_reason"`
	Notes                  *string   `json:"notes"`
	Status                 string    `json:"status"` // 'open' or 'resolved'
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// UpsertExceptionParams carries an orphan scan into the exceptions table.
type UpsertExceptionParams struct {
	ShippingTrackingNumber string
	SourceStation          string
	StaffID                *int
	StaffName              *string
	Reason                 string
	Notes                  *string
}

// ExceptionSweepResult summarizes one run of the exception-to-order sweep.
type ExceptionSweepResult struct {
	Scanned int `json:"scanned"`
	Matched int `json:"matched"`
	Deleted int `json:"deleted"`
}
