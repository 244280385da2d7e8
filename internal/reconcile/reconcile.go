package reconcile

import (
	"sort"
	"strings"
	"time"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/tracking"
)

// Input is one snapshot of the four shipment signals. The engine associates
// rows across slices purely by tracking-number suffix; it never consults ids.
type Input struct {
	Orders     []models.Order
	PackEvents []models.PackerLog
	TestEvents []models.TechSerialNumber
	Exceptions []models.OrderException
}

// Combine builds the reconciled shipped feed from a snapshot: one row per
// order carrying its latest matching pack event and aggregated test events,
// unioned with open exceptions (orphan shipments) enriched from any
// late-arriving order match. Rows are ordered most-recently-actioned first:
// pack time when known, otherwise creation time, id as tie-break.
func Combine(in Input) []models.ShippedRow {
	rows := make([]models.ShippedRow, 0, len(in.Orders)+len(in.Exceptions))

	for _, o := range in.Orders {
		row := models.ShippedRow{
			ID:                     o.ID,
			RowSource:              models.RowSourceOrder,
			OrderID:                o.OrderID,
			ProductTitle:           o.ProductTitle,
			Condition:              o.Condition,
			ShippingTrackingNumber: o.ShippingTrackingNumber,
			SKU:                    o.SKU,
			Quantity:               o.Quantity,
			ShipByDate:             o.ShipByDate,
			IsShipped:              o.IsShipped,
			Notes:                  o.Notes,
			CreatedAt:              o.CreatedAt,
			StatusHistory:          o.StatusHistory,
		}
		attachPack(&row, o.ShippingTrackingNumber, in.PackEvents)
		attachSerials(&row, o.ShippingTrackingNumber, in.TestEvents)
		rows = append(rows, row)
	}

	for _, e := range in.Exceptions {
		if e.Status != "" && e.Status != "open" {
			continue
		}
		row := models.ShippedRow{
			ID:                     e.ID,
			RowSource:              models.RowSourceException,
			ShippingTrackingNumber: e.ShippingTrackingNumber,
			ExceptionReason:        e.ExceptionReason,
			SourceStation:          e.SourceStation,
			CreatedAt:              e.CreatedAt,
		}
		// A late-arriving order match enriches the orphan row with product
		// metadata but does not change its source.
		if o := matchOrder(e.ShippingTrackingNumber, in.Orders); o != nil {
			row.OrderID = o.OrderID
			row.ProductTitle = o.ProductTitle
			row.SKU = o.SKU
			row.Condition = o.Condition
			row.Quantity = o.Quantity
		}
		attachPack(&row, e.ShippingTrackingNumber, in.PackEvents)
		attachSerials(&row, e.ShippingTrackingNumber, in.TestEvents)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ti := actionTime(rows[i])
		tj := actionTime(rows[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return rows[i].ID > rows[j].ID
	})

	return rows
}

// LatestPack selects the winning pack event among candidates for one
// shipment: greatest pack_date_time with nil treated as earliest, ties broken
// by greatest id. Returns nil for an empty slice.
func LatestPack(events []models.PackerLog) *models.PackerLog {
	var best *models.PackerLog
	for i := range events {
		e := &events[i]
		if best == nil || packLess(best, e) {
			best = e
		}
	}
	return best
}

// packLess reports whether a loses to b under latest-pack-wins.
func packLess(a, b *models.PackerLog) bool {
	at, bt := a.PackDateTime, b.PackDateTime
	switch {
	case at == nil && bt != nil:
		return true
	case at != nil && bt == nil:
		return false
	case at != nil && bt != nil && !at.Equal(*bt):
		return at.Before(*bt)
	}
	return a.ID < b.ID
}

// AggregateSerials folds the test events of a multi-unit shipment into one
// comma-joined serial string in chronological scan order, with the earliest
// scan's tester and time as the representative values.
func AggregateSerials(events []models.TechSerialNumber) (serial string, testedBy *int, testTime *time.Time) {
	if len(events) == 0 {
		return "", nil, nil
	}

	sorted := make([]models.TechSerialNumber, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].TestDateTime, sorted[j].TestDateTime
		switch {
		case ti == nil:
			return tj != nil // nil times sort last
		case tj == nil:
			return true
		case !ti.Equal(*tj):
			return ti.Before(*tj)
		}
		return sorted[i].ID < sorted[j].ID
	})

	serials := make([]string, 0, len(sorted))
	for _, e := range sorted {
		if e.SerialNumber != "" {
			serials = append(serials, e.SerialNumber)
		}
	}

	first := sorted[0]
	tb := first.TestedBy
	return strings.Join(serials, ","), &tb, first.TestDateTime
}

func attachPack(row *models.ShippedRow, trackingNumber string, events []models.PackerLog) {
	var matched []models.PackerLog
	for _, e := range events {
		if tracking.Match(trackingNumber, e.ShippingTrackingNumber) {
			matched = append(matched, e)
		}
	}
	if latest := LatestPack(matched); latest != nil {
		packedBy := latest.PackedBy
		row.PackedBy = &packedBy
		row.PackDateTime = latest.PackDateTime
	}
}

func attachSerials(row *models.ShippedRow, trackingNumber string, events []models.TechSerialNumber) {
	var matched []models.TechSerialNumber
	for _, e := range events {
		if tracking.Match(trackingNumber, e.ShippingTrackingNumber) {
			matched = append(matched, e)
		}
	}
	row.SerialNumber, row.TestedBy, row.TestDateTime = AggregateSerials(matched)
}

func matchOrder(trackingNumber string, orders []models.Order) *models.Order {
	// Highest id wins when several orders share a suffix, mirroring the
	// ORDER BY id DESC LIMIT 1 of the lookup query.
	var best *models.Order
	for i := range orders {
		o := &orders[i]
		if o.ShippingTrackingNumber == "" {
			continue
		}
		if tracking.Match(trackingNumber, o.ShippingTrackingNumber) {
			if best == nil || o.ID > best.ID {
				best = o
			}
		}
	}
	return best
}

func actionTime(row models.ShippedRow) time.Time {
	if row.PackDateTime != nil {
		return *row.PackDateTime
	}
	return row.CreatedAt
}
