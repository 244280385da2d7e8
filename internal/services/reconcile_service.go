package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/metrics"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/tracking"
)

// ReconcileService serves the combined shipped feed and keeps the exceptions
// table in step with the orders table.
type ReconcileService struct {
	Shipped    *repositories.ShippedRepository
	Exceptions *repositories.ExceptionRepository
	Legacy     *repositories.LegacyShippedRepository
	Directory  *StaffDirectoryService
	Bus        *events.Bus
}

func NewReconcileService(
	shipped *repositories.ShippedRepository,
	exceptions *repositories.ExceptionRepository,
	legacy *repositories.LegacyShippedRepository,
	directory *StaffDirectoryService,
	bus *events.Bus,
) *ReconcileService {
	return &ReconcileService{
		Shipped:    shipped,
		Exceptions: exceptions,
		Legacy:     legacy,
		Directory:  directory,
		Bus:        bus,
	}
}

// Feed returns one page of the combined shipped feed with staff names
// resolved. The unsearched first page is cached briefly; it is the dashboard
// landing query and every station refreshes it.
func (s *ReconcileService) Feed(ctx context.Context, search string, limit, offset int) ([]*models.ShippedRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	cacheable := search == "" && offset == 0 && limit == 100
	if cacheable {
		if data, ok := cache.GetCached(ctx, cache.ShippedFeedKey); ok {
			var rows []*models.ShippedRow
			if err := json.Unmarshal(data, &rows); err == nil {
				return rows, nil
			}
		}
	}

	rows, err := s.Shipped.ListFeed(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}
	s.Directory.DecorateFeed(ctx, rows)

	if cacheable {
		if data, err := json.Marshal(rows); err == nil {
			cache.SetCached(ctx, cache.ShippedFeedKey, data, 30*time.Second)
		}
	}
	return rows, nil
}

// CheckTracking is the diagnostics endpoint: where one tracking number
// appears across every table, including the legacy shipped archive, plus the
// reconciled view the feed would build from those raw hits.
func (s *ReconcileService) CheckTracking(ctx context.Context, trackingNo string) (*models.TrackingCheck, error) {
	if trackingNo == "" {
		return nil, errors.New("tracking parameter is required")
	}
	if !tracking.HasDigits(trackingNo) && len(trackingNo) < 4 {
		return nil, fmt.Errorf("tracking %q is too short to check", trackingNo)
	}

	check, err := s.Shipped.CheckTracking(ctx, trackingNo)
	if err != nil {
		return nil, err
	}
	legacy, err := s.Legacy.FindByTracking(ctx, trackingNo)
	if err != nil {
		return nil, err
	}
	buildTrackingDiagnostics(check, legacy)
	return check, nil
}

// buildTrackingDiagnostics folds the legacy archive hits into the check and
// derives the feed's view of the shipment with the in-memory engine, so the
// diagnostics page shows the same row the dashboard would.
func buildTrackingDiagnostics(check *models.TrackingCheck, legacy []*models.LegacyShippedRecord) {
	for _, rec := range legacy {
		check.Legacy = append(check.Legacy, *rec)
	}
	check.Summary.InLegacyShipped = len(check.Legacy) > 0

	check.Reconciled = reconcile.Combine(reconcile.Input{
		Orders:     check.Orders,
		PackEvents: check.PackEvents,
		TestEvents: check.TestEvents,
		Exceptions: check.Exceptions,
	})
}

// SweepExceptions resolves every open exception whose order has since
// arrived. Runs after marketplace syncs and on demand.
func (s *ReconcileService) SweepExceptions(ctx context.Context) (*models.ExceptionSweepResult, error) {
	result, err := s.Exceptions.Sweep(ctx)
	if err != nil {
		return nil, fmt.Errorf("exception sweep failed: %w", err)
	}

	if result.Deleted > 0 {
		cache.InvalidateExceptionCaches(ctx)
		s.Bus.Publish(events.TypeExceptionResolved, result)
	}

	if n, err := s.Exceptions.CountOpen(ctx); err == nil {
		metrics.OpenExceptions.Set(float64(n))
	}
	return result, nil
}

// ListExceptions returns open exceptions.
func (s *ReconcileService) ListExceptions(ctx context.Context) ([]*models.OrderException, error) {
	return s.Exceptions.ListOpen(ctx)
}

// ResolveException closes one exception by hand.
func (s *ReconcileService) ResolveException(ctx context.Context, id int) error {
	if err := s.Exceptions.Resolve(ctx, id); err != nil {
		return err
	}
	cache.InvalidateExceptionCaches(ctx)
	s.Bus.Publish(events.TypeExceptionResolved, map[string]interface{}{"id": id})
	if n, err := s.Exceptions.CountOpen(ctx); err == nil {
		metrics.OpenExceptions.Set(float64(n))
	}
	return nil
}

// LegacyList serves the previous-quarters archive.
func (s *ReconcileService) LegacyList(ctx context.Context, q string, limit, offset int) ([]*models.LegacyShippedRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if q != "" {
		return s.Legacy.Search(ctx, q, limit)
	}
	return s.Legacy.List(ctx, limit, offset)
}

// LegacyUpdateStatus appends to a legacy record's status history.
func (s *ReconcileService) LegacyUpdateStatus(ctx context.Context, id int, status string) error {
	if status == "" {
		return errors.New("status is required")
	}
	entry := models.StatusHistoryEntry{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.Legacy.UpdateStatus(ctx, id, status, entryJSON)
}
