package models

import "time"

// Row sources in the combined shipped feed.
const (
	RowSourceOrder     = "order"
	RowSourceException = "exception"
)

// ShippedRow is one row of the reconciled shipped feed: an order joined with
// its latest pack event and aggregated test events by tracking suffix, or an
// open exception (orphan shipment) optionally enriched with order metadata.
//
// IsShipped comes from the order row itself and pack-log linkage is a separate
// signal; the two can disagree and both are surfaced as-is.
type ShippedRow struct {
	ID                     int        `json:"id"`
	RowSource              string     `json:"row_source"`
	OrderID                string     `json:"order_id"`
	ProductTitle           string     `json:"product_title"`
	Condition              string     `json:"condition"`
	ShippingTrackingNumber string     `json:"shipping_tracking_number"`
	SKU                    string     `json:"sku"`
	Quantity               string     `json:"quantity"`
	ShipByDate             string     `json:"ship_by_date"`
	IsShipped              bool       `json:"is_shipped"`
	Notes                  string     `json:"notes"`

	// From the latest matching pack event.
	PackedBy     *int       `json:"packed_by"`
	PackedByName string     `json:"packed_by_name,omitempty"`
	PackDateTime *time.Time `json:"pack_date_time"`

	// Aggregated from matching test events: serials comma-joined in test
	// order, tester/time from the earliest scan.
	SerialNumber string     `json:"serial_number"`
	TestedBy     *int       `json:"tested_by"`
	TestedByName string     `json:"tested_by_name,omitempty"`
	TestDateTime *time.Time `json:"test_date_time"`

	// Exception-only fields.
	ExceptionReason string     `json:"exception_reason,omitempty"`
	SourceStation   string     `json:"source_station,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	StatusHistory []StatusHistoryEntry `json:"status_history,omitempty"`
}

// LegacyShippedRecord maps the legacy col_N shipped table still read by the
// previous-quarters views. New writes go to orders; this is read/search only.
type LegacyShippedRecord struct {
	ID             int                  `json:"id"`
	DateTime       string               `json:"date_time"`
	OrderID        string               `json:"order_id"`
	ProductTitle   string               `json:"product_title"`
	Sent           string               `json:"sent"`
	ShippingTrkNum string               `json:"shipping_trk_number"`
	SerialNumber   string               `json:"serial_number"`
	Boxed          string               `json:"boxed"`
	By             string               `json:"by"`
	SKU            string               `json:"sku"`
	Status         string               `json:"status"`
	StatusHistory  []StatusHistoryEntry `json:"status_history"`
}

// TrackingCheck is the diagnostics payload of GET /api/check-tracking.
// Reconciled is what the shipped feed would show for this number, built from
// the raw hits by the in-memory matching engine.
type TrackingCheck struct {
	Tracking   string                `json:"tracking"`
	Orders     []Order               `json:"found_in_orders"`
	PackEvents []PackerLog           `json:"found_in_packer_logs"`
	TestEvents []TechSerialNumber    `json:"found_in_tech_serials"`
	Exceptions []OrderException      `json:"found_in_exceptions"`
	Legacy     []LegacyShippedRecord `json:"found_in_legacy_shipped"`
	Reconciled []ShippedRow          `json:"reconciled_rows"`
	Summary    TrackingSummary       `json:"summary"`
}

// TrackingSummary flags where a tracking number was found. IsShipped and
// HasPackLog can disagree; neither is authoritative.
type TrackingSummary struct {
	InOrders        bool `json:"in_orders"`
	InPackerLogs    bool `json:"in_packer_logs"`
	InTechLogs      bool `json:"in_tech_logs"`
	InExceptions    bool `json:"in_exceptions"`
	InLegacyShipped bool `json:"in_legacy_shipped"`
	IsShipped       bool `json:"is_shipped"`
	HasPackLog      bool `json:"has_pack_log"`
}
