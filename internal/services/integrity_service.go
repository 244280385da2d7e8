package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"warehouse-backend/internal/events"
	"warehouse-backend/internal/models"
)

// IntegrityService runs the full reconciliation sequence: eBay backfill, then
// ShipStation shipped-flag sync, then the exception sweep. The steps run
// strictly in that order because the sweep can only resolve exceptions against
// orders the earlier steps brought in; a failed step aborts the run.
type IntegrityService struct {
	Sync      *SyncService
	Reconcile *ReconcileService
	Bus       *events.Bus
}

func NewIntegrityService(sync *SyncService, reconcile *ReconcileService, bus *events.Bus) *IntegrityService {
	return &IntegrityService{Sync: sync, Reconcile: reconcile, Bus: bus}
}

// Run executes one integrity pass and reports per-step results. The run id
// ties the three steps together in logs.
func (s *IntegrityService) Run(ctx context.Context) *models.IntegrityResult {
	result := &models.IntegrityResult{RunID: uuid.NewString()}
	log.Printf("[Integrity] run %s started", result.RunID)

	accountResults, err := s.Sync.SyncEbay(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		result.FailedStep = "ebay_backfill"
		result.Error = err.Error()
		log.Printf("[Integrity] run %s aborted at %s: %v", result.RunID, result.FailedStep, err)
		return result
	}
	result.EbayBackfill = aggregateAccountStats(accountResults)

	ssStats, err := s.Sync.SyncShipStation(ctx, time.Now().AddDate(0, 0, -14))
	if err != nil {
		result.FailedStep = "shipstation"
		result.Error = err.Error()
		log.Printf("[Integrity] run %s aborted at %s: %v", result.RunID, result.FailedStep, err)
		return result
	}
	result.ShipStation = ssStats

	sweep, err := s.Reconcile.SweepExceptions(ctx)
	if err != nil {
		result.FailedStep = "exception_sweep"
		result.Error = err.Error()
		log.Printf("[Integrity] run %s aborted at %s: %v", result.RunID, result.FailedStep, err)
		return result
	}
	result.ExceptionSweep = sweep

	log.Printf("[Integrity] run %s complete: %d exceptions resolved", result.RunID, sweep.Deleted)
	s.Bus.Publish(events.TypeSyncCompleted, map[string]interface{}{
		"source": "integrity",
		"runId":  result.RunID,
	})
	return result
}

func aggregateAccountStats(results []models.AccountSyncResult) *models.SyncStats {
	total := &models.SyncStats{}
	for _, r := range results {
		total.Scanned += r.Scanned
		total.Matched += r.Matched
		total.Updated += r.Updated
		total.Unchanged += r.Unchanged
		total.Unmatched += r.Unmatched
		total.Errors = append(total.Errors, r.Errors...)
	}
	return total
}
