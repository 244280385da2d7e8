package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"warehouse-backend/internal/cache"
	"warehouse-backend/internal/events"
	"warehouse-backend/internal/metrics"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/tracking"
)

// Duplicate pack scans for the same tracking number inside this window are
// rejected. One hour matches how long a box realistically sits at the
// station.
const duplicateScanWindow = time.Hour

// ScanService classifies raw scan-station input and routes it: SKU:QTY bumps
// stock, tracking numbers become pack/test events, and tracking with no
// matching order opens an exception instead of failing the scan.
type ScanService struct {
	Orders     *repositories.OrderRepository
	PackerLogs *repositories.PackerLogRepository
	TechLogs   *repositories.TechSerialRepository
	Exceptions *repositories.ExceptionRepository
	Skus       *repositories.SkuRepository
	Directory  *StaffDirectoryService
	Bus        *events.Bus
}

func NewScanService(
	orders *repositories.OrderRepository,
	packerLogs *repositories.PackerLogRepository,
	techLogs *repositories.TechSerialRepository,
	exceptions *repositories.ExceptionRepository,
	skus *repositories.SkuRepository,
	directory *StaffDirectoryService,
	bus *events.Bus,
) *ScanService {
	return &ScanService{
		Orders:     orders,
		PackerLogs: packerLogs,
		TechLogs:   techLogs,
		Exceptions: exceptions,
		Skus:       skus,
		Directory:  directory,
		Bus:        bus,
	}
}

// PackerScanResult tells the station what the scan became.
type PackerScanResult struct {
	Type         string  `json:"type"` // 'TRACKING', 'SKU', 'EXCEPTION', 'DUPLICATE'
	Message      string  `json:"message"`
	Carrier      string  `json:"carrier,omitempty"`
	ProductTitle string  `json:"product_title,omitempty"`
	OrderID      string  `json:"order_id,omitempty"`
	NewQuantity  *int    `json:"new_quantity,omitempty"`
	LogID        int     `json:"log_id,omitempty"`
	ExceptionID  int     `json:"exception_id,omitempty"`
}

var skuQtyPattern = regexp.MustCompile(`^([A-Za-z0-9_-]+):(\d+)$`)

// PackerScan handles one raw input from the packer station.
func (s *ScanService) PackerScan(ctx context.Context, input string, packerID int) (*PackerScanResult, error) {
	value := strings.TrimSpace(input)
	if value == "" {
		return nil, errors.New("empty scan input")
	}
	if packerID <= 0 {
		return nil, errors.New("packerId is required")
	}

	// SKU:QTY adjusts stock and never touches pack events.
	if m := skuQtyPattern.FindStringSubmatch(value); m != nil {
		qty, _ := strconv.Atoi(m[2])
		if qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in %q", value)
		}
		newQty, err := s.Skus.AddStock(ctx, m[1], qty)
		if err != nil {
			return nil, fmt.Errorf("failed to add stock: %w", err)
		}
		cache.InvalidateScanCaches(ctx)
		metrics.ScansTotal.WithLabelValues("packer", "sku_stock").Inc()
		return &PackerScanResult{
			Type:        "SKU",
			Message:     fmt.Sprintf("Added %d to %s", qty, m[1]),
			NewQuantity: &newQty,
		}, nil
	}

	if !tracking.HasDigits(value) {
		return nil, fmt.Errorf("unrecognized scan input %q", value)
	}

	// Duplicate window: the same label scanned twice in an hour is almost
	// always a double-trigger, not a second box.
	if dup, err := s.PackerLogs.RecentByTracking(ctx, value, duplicateScanWindow); err != nil {
		return nil, err
	} else if dup != nil {
		metrics.ScansTotal.WithLabelValues("packer", "duplicate").Inc()
		return &PackerScanResult{
			Type:    "DUPLICATE",
			Message: "Duplicate scan within the last hour",
			LogID:   dup.ID,
		}, nil
	}

	carrier := tracking.DetectCarrier(value)

	log := &models.PackerLog{
		ShippingTrackingNumber: value,
		PackedBy:               packerID,
		TrackingType:           models.TrackingTypeOrders,
	}
	if err := s.PackerLogs.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to record pack event: %w", err)
	}

	cache.InvalidateScanCaches(ctx)

	orders, err := s.Orders.FindByTracking(ctx, value)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		// Orphan shipment: open (or refresh) an exception so the feed
		// shows the box even though no order exists yet.
		packerName := s.Directory.ResolveName(ctx, &packerID)
		exc, created, err := s.Exceptions.UpsertOpen(ctx, &models.UpsertExceptionParams{
			ShippingTrackingNumber: value,
			SourceStation:          models.StationPacker,
			StaffID:                &packerID,
			StaffName:              &packerName,
			Reason:                 "not_found",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open exception: %w", err)
		}
		cache.InvalidateExceptionCaches(ctx)
		metrics.ScansTotal.WithLabelValues("packer", "exception").Inc()
		if created {
			s.Bus.Publish(events.TypeExceptionOpened, exc)
		}
		s.publishOpenExceptionGauge(ctx)
		return &PackerScanResult{
			Type:        "EXCEPTION",
			Message:     "No matching order; logged as exception",
			Carrier:     string(carrier),
			LogID:       log.ID,
			ExceptionID: exc.ID,
		}, nil
	}

	matched := orders[0] // highest id wins
	metrics.ScansTotal.WithLabelValues("packer", "matched").Inc()
	s.Bus.Publish(events.TypePackerScan, map[string]interface{}{
		"tracking": value,
		"orderId":  matched.OrderID,
		"packerId": packerID,
	})

	return &PackerScanResult{
		Type:         "TRACKING",
		Message:      "Pack recorded",
		Carrier:      string(carrier),
		ProductTitle: matched.ProductTitle,
		OrderID:      matched.OrderID,
		LogID:        log.ID,
	}, nil
}

// TechScanResult is the tech station's answer.
type TechScanResult struct {
	Type         string        `json:"type"` // 'SERIAL', 'FNSKU', 'EXCEPTION'
	Message      string        `json:"message"`
	Order        *models.Order `json:"order,omitempty"`
	SKU          string        `json:"sku,omitempty"`
	ProductTitle string        `json:"product_title,omitempty"`
	SerialID     int           `json:"serial_id,omitempty"`
	ExceptionID  int           `json:"exception_id,omitempty"`
}

// AddSerial records one tested unit against a tracking number. The same
// serial cannot be recorded twice for one shipment; a missing order opens an
// exception but still records the test event.
func (s *ScanService) AddSerial(ctx context.Context, req *models.AddSerialRequest) (*TechScanResult, error) {
	trackingNo := strings.TrimSpace(req.ShippingTrackingNumber)
	serial := strings.TrimSpace(req.SerialNumber)
	if trackingNo == "" || serial == "" {
		return nil, errors.New("tracking number and serial number are required")
	}
	if req.TesterID <= 0 {
		return nil, errors.New("testerId is required")
	}

	exists, err := s.TechLogs.SerialExistsForTracking(ctx, trackingNo, serial)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("serial %s already recorded for this shipment", serial)
	}

	ts := &models.TechSerialNumber{
		ShippingTrackingNumber: trackingNo,
		SerialNumber:           serial,
		TestedBy:               req.TesterID,
	}
	if err := s.TechLogs.Add(ctx, ts); err != nil {
		return nil, fmt.Errorf("failed to record test event: %w", err)
	}

	cache.InvalidateScanCaches(ctx)

	orders, err := s.Orders.FindByTracking(ctx, trackingNo)
	if err != nil {
		return nil, err
	}

	result := &TechScanResult{
		Type:     "SERIAL",
		Message:  "Serial recorded",
		SerialID: ts.ID,
	}

	if len(orders) == 0 {
		testerName := s.Directory.ResolveName(ctx, &req.TesterID)
		exc, created, err := s.Exceptions.UpsertOpen(ctx, &models.UpsertExceptionParams{
			ShippingTrackingNumber: trackingNo,
			SourceStation:          models.StationTech,
			StaffID:                &req.TesterID,
			StaffName:              &testerName,
			Reason:                 "not_found",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open exception: %w", err)
		}
		cache.InvalidateExceptionCaches(ctx)
		metrics.ScansTotal.WithLabelValues("tech", "exception").Inc()
		if created {
			s.Bus.Publish(events.TypeExceptionOpened, exc)
		}
		s.publishOpenExceptionGauge(ctx)
		result.Type = "EXCEPTION"
		result.Message = "Serial recorded; no matching order (exception opened)"
		result.ExceptionID = exc.ID
		return result, nil
	}

	result.Order = orders[0]
	metrics.ScansTotal.WithLabelValues("tech", "matched").Inc()
	s.Bus.Publish(events.TypeTechScan, map[string]interface{}{
		"tracking": trackingNo,
		"serial":   serial,
		"testerId": req.TesterID,
	})
	return result, nil
}

// TechTrackingResult is what the tech station sees after scanning a label:
// the matched order (if any) and the serials already recorded against it.
type TechTrackingResult struct {
	Found   bool                      `json:"found"`
	Order   *models.Order             `json:"order,omitempty"`
	Serials []models.TechSerialNumber `json:"serials"`
}

// ScanTracking answers a tech station label scan with the matching order and
// any serials already recorded, so the tech knows how many units are left.
func (s *ScanService) ScanTracking(ctx context.Context, trackingNo string) (*TechTrackingResult, error) {
	trackingNo = strings.TrimSpace(trackingNo)
	if trackingNo == "" {
		return nil, errors.New("tracking number is required")
	}

	orders, err := s.Orders.FindByTracking(ctx, trackingNo)
	if err != nil {
		return nil, err
	}
	serials, err := s.TechLogs.ListByTracking(ctx, trackingNo)
	if err != nil {
		return nil, err
	}
	if serials == nil {
		serials = []models.TechSerialNumber{}
	}

	result := &TechTrackingResult{Serials: serials}
	if len(orders) > 0 {
		result.Found = true
		result.Order = orders[0]
		metrics.ScansTotal.WithLabelValues("tech", "lookup").Inc()
	}
	return result, nil
}

// UndoLast removes the most recent serial recorded for a tracking number.
func (s *ScanService) UndoLast(ctx context.Context, trackingNo string) (*models.TechSerialNumber, error) {
	trackingNo = strings.TrimSpace(trackingNo)
	if trackingNo == "" {
		return nil, errors.New("tracking number is required")
	}

	removed, err := s.TechLogs.UndoLast(ctx, trackingNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("no test events recorded for this tracking number")
		}
		return nil, err
	}
	cache.InvalidateScanCaches(ctx)
	return removed, nil
}

// LookupFnsku resolves an FBA barcode at the tech station.
func (s *ScanService) LookupFnsku(ctx context.Context, fnsku string) (*TechScanResult, error) {
	fnsku = strings.TrimSpace(fnsku)
	if fnsku == "" {
		return nil, errors.New("fnsku is required")
	}

	f, err := s.Skus.GetFnsku(ctx, fnsku)
	if err != nil {
		return nil, err
	}
	if f == nil {
		metrics.ScansTotal.WithLabelValues("tech", "fba_unknown").Inc()
		return &TechScanResult{Type: "FNSKU", Message: "Unknown FNSKU"}, nil
	}

	metrics.ScansTotal.WithLabelValues("tech", "fba").Inc()
	return &TechScanResult{
		Type:         "FNSKU",
		Message:      "FNSKU matched",
		SKU:          f.SKU,
		ProductTitle: f.ProductTitle,
	}, nil
}

func (s *ScanService) publishOpenExceptionGauge(ctx context.Context) {
	if n, err := s.Exceptions.CountOpen(ctx); err == nil {
		metrics.OpenExceptions.Set(float64(n))
	}
}
