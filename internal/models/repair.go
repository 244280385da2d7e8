package models

// Repair is a repair-service ticket (rs table).
type Repair struct {
	ID            int                  `json:"id"`
	DateTime      string               `json:"date_time"`
	RSNumber      string               `json:"rs_number"`
	Contact       string               `json:"contact"`
	Product       string               `json:"product"`
	Price         string               `json:"price"`
	Issue         string               `json:"issue"`
	SerialNumber  string               `json:"serial_number"`
	Parts         string               `json:"parts"`
	Status        string               `json:"status"`
	Notes         string               `json:"notes"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
}

// UpdateRepairRequest is the body of PATCH /api/rs. Status, notes and the
// generic field/value update are each optional and applied independently.
type UpdateRepairRequest struct {
	ID     int     `json:"id"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
	Field  *string `json:"field"`
	Value  *string `json:"value"`
}

// CreateRepairRequest is the body of POST /api/rs.
type CreateRepairRequest struct {
	RSNumber     string `json:"rs_number"`
	Contact      string `json:"contact"`
	Product      string `json:"product"`
	Price        string `json:"price"`
	Issue        string `json:"issue"`
	SerialNumber string `json:"serial_number"`
	Parts        string `json:"parts"`
}
