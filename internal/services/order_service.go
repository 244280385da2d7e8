package services

import (
	"context"
	"errors"
	"fmt"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

type OrderService struct {
	Repo      *repositories.OrderRepository
	StaffRepo *repositories.StaffRepository
	Bus       *events.Bus
}

func NewOrderService(repo *repositories.OrderRepository, staffRepo *repositories.StaffRepository, bus *events.Bus) *OrderService {
	return &OrderService{Repo: repo, StaffRepo: staffRepo, Bus: bus}
}

func (s *OrderService) ListOrders(ctx context.Context, search string, limit, offset int) ([]*models.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, search, limit, offset)
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.Repo.Get(ctx, id)
}

// AssignOrders applies a partial assignment to one order or a batch. Absent
// fields keep their values; a 0 staff id clears the assignment. Assigned
// staff must hold the matching role.
func (s *OrderService) AssignOrders(ctx context.Context, req *models.AssignOrderRequest) (int, error) {
	ids := req.OrderIDs
	if len(ids) == 0 {
		if req.OrderID == 0 {
			return 0, errors.New("orderId or orderIds is required")
		}
		ids = []int{req.OrderID}
	}

	if req.TesterID == nil && req.PackerID == nil && req.ShipByDate == nil && req.OutOfStock == nil {
		return 0, errors.New("nothing to update")
	}

	if err := s.validateRole(ctx, req.TesterID, models.RoleTechnician); err != nil {
		return 0, err
	}
	if err := s.validateRole(ctx, req.PackerID, models.RolePacker); err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := s.Repo.Assign(ctx, id, req); err != nil {
			return updated, fmt.Errorf("failed to assign order %d: %w", id, err)
		}
		updated++
	}

	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeOrderAssigned, map[string]interface{}{
		"orderIds": ids,
		"testerId": req.TesterID,
		"packerId": req.PackerID,
	})
	return updated, nil
}

// validateRole checks an assignment target. The 0 sentinel (clear) skips the
// check.
func (s *OrderService) validateRole(ctx context.Context, id *int, role string) error {
	if id == nil || *id == 0 {
		return nil
	}
	staff, err := s.StaffRepo.Get(ctx, *id)
	if err != nil {
		return fmt.Errorf("staff %d not found", *id)
	}
	if !staff.Active {
		return fmt.Errorf("staff %s is inactive", staff.Name)
	}
	if staff.Role != role {
		return fmt.Errorf("staff %s is a %s, not a %s", staff.Name, staff.Role, role)
	}
	return nil
}

// UpdateStatus appends to the order's status history.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status string) error {
	if status == "" {
		return errors.New("status is required")
	}
	if err := s.Repo.AppendStatus(ctx, id, status); err != nil {
		return err
	}
	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeOrderUpdated, map[string]interface{}{"orderId": id, "status": status})
	return nil
}

// SubmitShipped is the manual shipped-form upsert: creates the order row if
// the marketplace never delivered it and flags it shipped.
func (s *OrderService) SubmitShipped(ctx context.Context, req *models.SubmitShippedRequest) (*models.Order, error) {
	if req.OrderID == "" {
		return nil, errors.New("order_id is required")
	}

	existing, err := s.Repo.GetByOrderID(ctx, req.OrderID)
	if err == nil {
		if err := s.Repo.SetShipped(ctx, existing.ID, true); err != nil {
			return nil, err
		}
		if req.ShippingTrackingNumber != "" && existing.ShippingTrackingNumber == "" {
			existing.ShippingTrackingNumber = req.ShippingTrackingNumber
			if _, err := s.Repo.Upsert(ctx, existing); err != nil {
				return nil, err
			}
		}
		existing.IsShipped = true
		cache.InvalidateOrderCaches(ctx)
		s.Bus.Publish(events.TypeOrderUpdated, map[string]interface{}{"orderId": existing.ID})
		return existing, nil
	}

	order := &models.Order{
		OrderID:                req.OrderID,
		ProductTitle:           req.ProductTitle,
		Condition:              req.Condition,
		ShippingTrackingNumber: req.ShippingTrackingNumber,
		SKU:                    req.SKU,
		Quantity:               "1",
		IsShipped:              true,
		Notes:                  req.Reason,
		AccountSource:          "manual",
	}
	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, err
	}

	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeOrderUpdated, map[string]interface{}{"orderId": order.ID})
	return order, nil
}

func (s *OrderService) UpdateField(ctx context.Context, id int, field, value string) error {
	if err := s.Repo.UpdateField(ctx, id, field, value); err != nil {
		return err
	}
	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeOrderUpdated, map[string]interface{}{"orderId": id, "field": field})
	return nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeOrderUpdated, map[string]interface{}{"orderId": id, "deleted": true})
	return nil
}
