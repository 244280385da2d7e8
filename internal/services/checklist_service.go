package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

var checklistStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"completed":   true,
}

// ChecklistService serves the daily role checklists.
type ChecklistService struct {
	Repo *repositories.ChecklistRepository
}

func NewChecklistService(repo *repositories.ChecklistRepository) *ChecklistService {
	return &ChecklistService{Repo: repo}
}

// ListForDay returns the role's checklist for a staff member on one day.
// A zero day means today.
func (s *ChecklistService) ListForDay(ctx context.Context, role string, staffID int, day time.Time) ([]*models.ChecklistItem, error) {
	if role != models.RoleTechnician && role != models.RolePacker {
		return nil, fmt.Errorf("unknown checklist role %q", role)
	}
	if staffID <= 0 {
		return nil, errors.New("staffId is required")
	}
	if day.IsZero() {
		day = time.Now()
	}
	return s.Repo.ListForDay(ctx, role, staffID, day)
}

// Toggle moves a task instance between statuses for today.
func (s *ChecklistService) Toggle(ctx context.Context, req *models.ToggleTaskRequest) error {
	if req.TemplateID <= 0 || req.StaffID <= 0 {
		return errors.New("templateId and staffId are required")
	}
	if !checklistStatuses[req.Status] {
		return fmt.Errorf("unknown status %q", req.Status)
	}
	if err := s.Repo.SetStatus(ctx, req.TemplateID, req.StaffID, time.Now(), req.Status, req.Notes); err != nil {
		return err
	}
	cache.InvalidateChecklistCaches(ctx)
	return nil
}

func (s *ChecklistService) CreateTemplate(ctx context.Context, t *models.TaskTemplate) error {
	if t.Title == "" {
		return errors.New("title is required")
	}
	if t.Role != models.RoleTechnician && t.Role != models.RolePacker {
		return fmt.Errorf("unknown checklist role %q", t.Role)
	}
	if err := s.Repo.CreateTemplate(ctx, t); err != nil {
		return err
	}
	cache.InvalidateChecklistCaches(ctx)
	return nil
}

func (s *ChecklistService) DeleteTemplate(ctx context.Context, id int) error {
	if err := s.Repo.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	cache.InvalidateChecklistCaches(ctx)
	return nil
}

func (s *ChecklistService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.Repo.ListTags(ctx)
}
