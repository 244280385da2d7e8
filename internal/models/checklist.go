package models

import "time"

// TaskTemplate is a recurring daily task defined per role.
type TaskTemplate struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Role           string    `json:"role"`
	OrderNumber    *string   `json:"order_number"`
	TrackingNumber *string   `json:"tracking_number"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChecklistItem is a template joined with its per-staff instance for one day.
type ChecklistItem struct {
	TaskTemplate
	Status          string     `json:"status"` // 'pending', 'in_progress', 'completed'
	StartedAt       *time.Time `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	Notes           *string    `json:"notes"`
	TaskDate        *string    `json:"task_date"`
	Tags            []Tag      `json:"tags"`
}

// Tag labels task templates for filtering in the checklist view.
type Tag struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ToggleTaskRequest is the body of POST /api/checklist/toggle.
type ToggleTaskRequest struct {
	TemplateID int    `json:"templateId"`
	StaffID    int    `json:"staffId"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}
