package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/marketplace"
	"warehouse-backend/internal/metrics"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
)

// SyncService pulls marketplace state into the orders table. Each sync is a
// match-and-update pass: it fills tracking numbers and shipped flags on rows
// we already have and (for eBay) creates rows we never saw.
type SyncService struct {
	Orders      *repositories.OrderRepository
	Accounts    *repositories.EbayAccountRepository
	Ebay        *marketplace.EbayClient
	Ecwid       *marketplace.EcwidClient
	ShipStation *marketplace.ShipStationClient
	Bus         *events.Bus
}

func NewSyncService(
	orders *repositories.OrderRepository,
	accounts *repositories.EbayAccountRepository,
	ebay *marketplace.EbayClient,
	ecwid *marketplace.EcwidClient,
	shipstation *marketplace.ShipStationClient,
	bus *events.Bus,
) *SyncService {
	return &SyncService{
		Orders:      orders,
		Accounts:    accounts,
		Ebay:        ebay,
		Ecwid:       ecwid,
		ShipStation: shipstation,
		Bus:         bus,
	}
}

// SyncEbay backfills orders from every active eBay account. Accounts run
// sequentially; one account's failure is recorded and does not stop the
// others.
func (s *SyncService) SyncEbay(ctx context.Context, modifiedSince time.Time) ([]models.AccountSyncResult, error) {
	accounts, err := s.Accounts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ebay accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no active ebay accounts configured")
	}

	var results []models.AccountSyncResult
	for _, account := range accounts {
		result := models.AccountSyncResult{AccountName: account.AccountName}

		token, err := s.Ebay.MintAccessToken(ctx, account.RefreshToken)
		if err != nil {
			log.Printf("[Sync] eBay %s: token refresh failed: %v", account.AccountName, err)
			result.Errors = append(result.Errors, err.Error())
			results = append(results, result)
			metrics.SyncRunsTotal.WithLabelValues("ebay", "error").Inc()
			continue
		}

		orders, err := s.Ebay.FetchOrders(ctx, token, modifiedSince, 5)
		if err != nil {
			log.Printf("[Sync] eBay %s: fetch failed: %v", account.AccountName, err)
			result.Errors = append(result.Errors, err.Error())
			results = append(results, result)
			metrics.SyncRunsTotal.WithLabelValues("ebay", "error").Inc()
			continue
		}

		for _, eo := range orders {
			result.Scanned++
			if eo.OrderID == "" {
				continue
			}

			var orderDate *time.Time
			if t, err := time.Parse(time.RFC3339, eo.CreationDate); err == nil {
				orderDate = &t
			}

			order := &models.Order{
				OrderID:                eo.OrderID,
				ProductTitle:           eo.FirstItemTitle(),
				SKU:                    eo.FirstItemSKU(),
				ShippingTrackingNumber: eo.TrackingNumber(),
				IsShipped:              eo.OrderFulfillmentStatus == "FULFILLED",
				AccountSource:          account.AccountName,
				Quantity:               "1",
				OrderDate:              orderDate,
			}

			changed, err := s.Orders.Upsert(ctx, order)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("order %s: %v", eo.OrderID, err))
				continue
			}
			if changed {
				result.Updated++
			} else {
				result.Unchanged++
			}
			result.Matched++
		}

		log.Printf("[Sync] eBay %s: %d scanned, %d updated", account.AccountName, result.Scanned, result.Updated)
		metrics.SyncRunsTotal.WithLabelValues("ebay", "ok").Inc()
		results = append(results, result)
	}

	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeSyncCompleted, map[string]interface{}{"source": "ebay"})
	return results, nil
}

// SyncEcwid fills tracking numbers on existing orders from the Ecwid store.
// Unlike eBay it never creates rows: Ecwid orders reach us another way and a
// sync that invented rows would duplicate them.
func (s *SyncService) SyncEcwid(ctx context.Context, maxPages int) (*models.SyncStats, error) {
	if maxPages < 1 {
		maxPages = 10
	}
	if maxPages > 50 {
		maxPages = 50
	}

	ecwidOrders, err := s.Ecwid.FetchOrders(ctx, maxPages)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("ecwid", "error").Inc()
		return nil, err
	}

	stats := &models.SyncStats{}
	for _, eo := range ecwidOrders {
		stats.Scanned++
		trackingNo := eo.TrackingNumber()

		existing, err := s.Orders.GetByOrderID(ctx, eo.OrderID())
		if err != nil {
			// Fall back to matching by tracking suffix for orders filed
			// under a different id.
			if trackingNo == "" {
				stats.Unmatched++
				continue
			}
			matches, ferr := s.Orders.FindByTracking(ctx, trackingNo)
			if ferr != nil || len(matches) == 0 {
				stats.Unmatched++
				continue
			}
			existing = matches[0]
		}

		stats.Matched++
		if trackingNo == "" || existing.ShippingTrackingNumber == trackingNo {
			stats.Unchanged++
			continue
		}
		if existing.ShippingTrackingNumber == "" {
			existing.ShippingTrackingNumber = trackingNo
			if _, err := s.Orders.Upsert(ctx, existing); err != nil {
				stats.Errors = append(stats.Errors, fmt.Sprintf("order %s: %v", existing.OrderID, err))
				continue
			}
			stats.Updated++
		} else {
			stats.Unchanged++
		}
	}

	log.Printf("[Sync] Ecwid: %d scanned, %d matched, %d updated, %d unmatched",
		stats.Scanned, stats.Matched, stats.Updated, stats.Unmatched)
	metrics.SyncRunsTotal.WithLabelValues("ecwid", "ok").Inc()
	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeSyncCompleted, map[string]interface{}{"source": "ecwid"})
	return stats, nil
}

// SyncShipStation marks orders shipped from ShipStation shipment records,
// matching by tracking suffix.
func (s *SyncService) SyncShipStation(ctx context.Context, since time.Time) (*models.SyncStats, error) {
	if since.IsZero() {
		since = time.Now().AddDate(0, 0, -14)
	}

	shipments, err := s.ShipStation.FetchShipments(ctx, since, 10)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("shipstation", "error").Inc()
		return nil, err
	}

	stats := &models.SyncStats{}
	for _, shipment := range shipments {
		stats.Scanned++
		if shipment.Voided || shipment.TrackingNumber == "" {
			continue
		}

		matches, err := s.Orders.FindByTracking(ctx, shipment.TrackingNumber)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("shipment %d: %v", shipment.ShipmentID, err))
			continue
		}
		if len(matches) == 0 {
			stats.Unmatched++
			continue
		}

		stats.Matched++
		order := matches[0]
		if order.IsShipped {
			stats.Unchanged++
			continue
		}
		if err := s.Orders.SetShipped(ctx, order.ID, true); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("order %d: %v", order.ID, err))
			continue
		}
		stats.Updated++
	}

	log.Printf("[Sync] ShipStation: %d scanned, %d matched, %d marked shipped",
		stats.Scanned, stats.Matched, stats.Updated)
	metrics.SyncRunsTotal.WithLabelValues("shipstation", "ok").Inc()
	cache.InvalidateOrderCaches(ctx)
	s.Bus.Publish(events.TypeSyncCompleted, map[string]interface{}{"source": "shipstation"})
	return stats, nil
}
