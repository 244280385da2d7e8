package services

import (
	"context"
	"errors"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

// RepairService wraps repair ticket CRUD. Status changes go through the
// history-appending repository path; generic field edits go through the
// whitelist.
type RepairService struct {
	Repo *repositories.RepairRepository
	Bus  *events.Bus
}

func NewRepairService(repo *repositories.RepairRepository, bus *events.Bus) *RepairService {
	return &RepairService{Repo: repo, Bus: bus}
}

func (s *RepairService) List(ctx context.Context, q string, limit, offset int) ([]*models.Repair, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if q != "" {
		return s.Repo.Search(ctx, q, limit)
	}
	return s.Repo.List(ctx, limit, offset)
}

func (s *RepairService) Get(ctx context.Context, id int) (*models.Repair, error) {
	return s.Repo.Get(ctx, id)
}

func (s *RepairService) Create(ctx context.Context, req *models.CreateRepairRequest) (*models.Repair, error) {
	if req.RSNumber == "" {
		return nil, errors.New("rs_number is required")
	}
	if req.Product == "" {
		return nil, errors.New("product is required")
	}

	repair, err := s.Repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	cache.InvalidateRepairCaches(ctx)
	s.Bus.Publish(events.TypeRepairUpdated, map[string]interface{}{"id": repair.ID, "created": true})
	return repair, nil
}

// Update applies a PATCH body: status (with history append), notes, and a
// whitelisted field edit, in that order. Each part is optional.
func (s *RepairService) Update(ctx context.Context, req *models.UpdateRepairRequest) (*models.Repair, error) {
	if req.ID == 0 {
		return nil, errors.New("id is required")
	}
	if req.Status == nil && req.Notes == nil && req.Field == nil {
		return nil, errors.New("nothing to update")
	}

	if req.Status != nil {
		if *req.Status == "" {
			return nil, errors.New("status cannot be empty")
		}
		if err := s.Repo.UpdateStatus(ctx, req.ID, *req.Status); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := s.Repo.UpdateField(ctx, req.ID, "notes", *req.Notes); err != nil {
			return nil, err
		}
	}
	if req.Field != nil {
		if req.Value == nil {
			return nil, errors.New("value is required with field")
		}
		if err := s.Repo.UpdateField(ctx, req.ID, *req.Field, *req.Value); err != nil {
			return nil, err
		}
	}

	cache.InvalidateRepairCaches(ctx)
	s.Bus.Publish(events.TypeRepairUpdated, map[string]interface{}{"id": req.ID})
	return s.Repo.Get(ctx, req.ID)
}
