package models

import "time"

// FBAFnsku maps an Amazon FNSKU barcode to its SKU and product title. Tech
// station scans validate FBA shipments against this table.
type FBAFnsku struct {
	ID           int       `json:"id"`
	Fnsku        string    `json:"fnsku"`
	SKU          string    `json:"sku"`
	ProductTitle string    `json:"product_title"`
	CreatedAt    time.Time `json:"created_at"`
}

// SkuStock is the on-hand quantity per SKU, bumped by SKU:QTY packer scans.
type SkuStock struct {
	SKU          string `json:"sku"`
	Quantity     int    `json:"quantity"`
	ProductTitle string `json:"product_title"`
}

// UploadFnskusRequest is the body of POST /api/admin/fba-fnskus/upload.
type UploadFnskusRequest struct {
	Fnskus []FBAFnsku `json:"fnskus"`
}
