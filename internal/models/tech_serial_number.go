package models

import "time"

// TechSerialNumber is one tested unit at the tech station. Multi-unit
// shipments produce several rows sharing a tracking number; listings
// aggregate them at query time.
type TechSerialNumber struct {
	ID                     int        `json:"id"`
	ShippingTrackingNumber string     `json:"shipping_tracking_number"`
	SerialNumber           string     `json:"serial_number"`
	TestedBy               int        `json:"tested_by"` // FK to staff.id
	TestDateTime           *time.Time `json:"test_date_time"`
}

// TechLogWithOrder is a test event enriched with order metadata found via
// tracking-suffix match.
type TechLogWithOrder struct {
	TechSerialNumber
	OrderID      *string `json:"order_id"`
	ProductTitle *string `json:"product_title"`
	Condition    *string `json:"condition"`
	SKU          *string `json:"sku"`
	TestedByName string  `json:"tested_by_name,omitempty"`
}

// AddSerialRequest is the body of POST /api/tech/add-serial.
type AddSerialRequest struct {
	ShippingTrackingNumber string `json:"shippingTrackingNumber"`
	SerialNumber           string `json:"serialNumber"`
	TesterID               int    `json:"testerId"`
}
