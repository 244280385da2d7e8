package models

import "time"

// Tracking types recorded by the packer station.
const (
	TrackingTypeOrders = "ORDERS"
	TrackingTypeFBA    = "FBA"
	TrackingTypeWalkIn = "WALK_IN"
)

// PackerLog is one physical pack event. Rows are immutable after the scan
// except for delete and photo attachment.
type PackerLog struct {
	ID                     int           `json:"id"`
	ShippingTrackingNumber string        `json:"shipping_tracking_number"`
	PackedBy               int           `json:"packed_by"` // FK to staff.id
	PackDateTime           *time.Time    `json:"pack_date_time"`
	TrackingType           string        `json:"tracking_type"`
	PackerPhotosURL        []PackerPhoto `json:"packer_photos_url"`
}

// PackerPhoto is one element of the packer_photos_url JSONB array.
type PackerPhoto struct {
	URL        string `json:"url"`
	Index      int    `json:"index"`
	UploadedAt string `json:"uploadedAt"`
}

// PackerLogWithOrder is a pack event enriched with order metadata found via
// tracking-suffix match. Order fields are nil when no order matched.
type PackerLogWithOrder struct {
	PackerLog
	OrderID      *string `json:"order_id"`
	ProductTitle *string `json:"product_title"`
	Condition    *string `json:"condition"`
	Quantity     *string `json:"quantity"`
	SKU          *string `json:"sku"`
	PackedByName string  `json:"packed_by_name,omitempty"`
}

// CreatePackerLogRequest is the body of POST /api/packerlogs.
type CreatePackerLogRequest struct {
	ShippingTrackingNumber string        `json:"shippingTrackingNumber"`
	PackedBy               int           `json:"packedBy"`
	PackDateTime           *time.Time    `json:"packDateTime"`
	TrackingType           string        `json:"trackingType"`
	PackerPhotosURL        []PackerPhoto `json:"packerPhotosUrl"`
}
