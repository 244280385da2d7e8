package models

import "time"

// Staff roles.
const (
	RoleTechnician = "technician"
	RolePacker     = "packer"
)

// Staff is a warehouse staff member. Referenced by id from orders,
// packer_logs and tech_serial_numbers; names are resolved through the staff
// directory service, never duplicated in presentation code.
type Staff struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"` // 'technician' or 'packer'
	EmployeeID *string   `json:"employee_id"`
	Active     bool      `json:"active"`
	IsAdmin    bool      `json:"is_admin"`
	PinHash    string    `json:"-"` // bcrypt hash, admin login only
	CreatedAt  time.Time `json:"created_at"`
}

// CreateStaffRequest is the body of POST /api/staff.
type CreateStaffRequest struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	EmployeeID *string `json:"employee_id"`
}

// UpdateStaffRequest is the body of PUT /api/staff. Only supplied fields change.
type UpdateStaffRequest struct {
	ID         int     `json:"id"`
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	EmployeeID *string `json:"employee_id"`
	Active     *bool   `json:"active"`
}

// LoginRequest is the body of POST /api/auth/login for the admin surface.
type LoginRequest struct {
	EmployeeID string `json:"employee_id"`
	PIN        string `json:"pin"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	Staff *Staff `json:"staff"`
}
