package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

// ShippedRepository assembles the combined dashboard feed: every order joined
// with its latest pack event and aggregated test events by tracking suffix,
// plus open exceptions as orphan rows. One snapshot query per request so the
// feed cannot mix data from two points in time.
type ShippedRepository struct {
	DB *pgxpool.Pool
}

func NewShippedRepository(db *pgxpool.Pool) *ShippedRepository {
	return &ShippedRepository{DB: db}
}

// feedQuery builds the combined feed. Orders contribute one row each; open
// exceptions contribute one row each, enriched with metadata from the
// highest-id matching order when one arrived after the exception was raised
// (row_source stays 'exception' either way). Latest pack event wins by
// pack_date_time with NULLs sorting as earliest, then highest id. Serials
// aggregate comma-joined in test order with the earliest scan supplying the
// representative tester and time.
func feedQuery(withSearch bool) string {
	packJoin := `LEFT JOIN LATERAL (
			SELECT pl.packed_by, pl.pack_date_time
			FROM packer_logs pl
			WHERE ` + suffixMatchCond("src.shipping_tracking_number", "pl.shipping_tracking_number") + `
			ORDER BY pl.pack_date_time DESC NULLS LAST, pl.id DESC
			LIMIT 1
		) p ON true`

	testJoin := `LEFT JOIN LATERAL (
			SELECT
				string_agg(ts.serial_number, ',' ORDER BY ts.test_date_time ASC NULLS LAST, ts.id ASC) AS serials,
				(ARRAY_AGG(ts.tested_by ORDER BY ts.test_date_time ASC NULLS LAST, ts.id ASC))[1] AS tested_by,
				MIN(ts.test_date_time) AS test_date_time
			FROM tech_serial_numbers ts
			WHERE ` + suffixMatchCond("src.shipping_tracking_number", "ts.shipping_tracking_number") + `
		) t ON true`

	query := `
	WITH src AS (
		SELECT o.id, 'order' AS row_source,
			COALESCE(o.order_id, '') AS order_id,
			COALESCE(o.product_title, '') AS product_title,
			COALESCE(o.condition, '') AS condition,
			COALESCE(o.shipping_tracking_number, '') AS shipping_tracking_number,
			COALESCE(o.sku, '') AS sku,
			COALESCE(o.quantity, '1') AS quantity,
			COALESCE(o.ship_by_date, '') AS ship_by_date,
			o.is_shipped,
			COALESCE(o.notes, '') AS notes,
			'' AS exception_reason,
			'' AS source_station,
			o.status_history,
			o.created_at
		FROM orders o

		UNION ALL

		SELECT e.id, 'exception' AS row_source,
			COALESCE(eo.order_id, '') AS order_id,
			COALESCE(eo.product_title, '') AS product_title,
			COALESCE(eo.condition, '') AS condition,
			COALESCE(e.shipping_tracking_number, '') AS shipping_tracking_number,
			COALESCE(eo.sku, '') AS sku,
			COALESCE(eo.quantity, '1') AS quantity,
			'' AS ship_by_date,
			COALESCE(eo.is_shipped, false) AS is_shipped,
			COALESCE(e.notes, '') AS notes,
			e.exception_reason,
			e.source_station,
			'[]'::jsonb AS status_history,
			e.created_at
		FROM orders_exceptions e
		LEFT JOIN LATERAL (
			SELECT o2.order_id, o2.product_title, o2.condition, o2.sku, o2.quantity, o2.is_shipped
			FROM orders o2
			WHERE ` + suffixMatchCond("e.shipping_tracking_number", "o2.shipping_tracking_number") + `
			ORDER BY o2.id DESC
			LIMIT 1
		) eo ON true
		WHERE e.status = 'open'
	)
	SELECT src.id, src.row_source, src.order_id, src.product_title, src.condition,
		src.shipping_tracking_number, src.sku, src.quantity, src.ship_by_date,
		src.is_shipped, src.notes, src.exception_reason, src.source_station,
		src.status_history, src.created_at,
		p.packed_by, p.pack_date_time,
		COALESCE(t.serials, '') AS serials, t.tested_by, t.test_date_time
	FROM src
	` + packJoin + `
	` + testJoin

	if withSearch {
		query += `
	WHERE src.order_id ILIKE $3 OR src.shipping_tracking_number ILIKE $3
		OR src.product_title ILIKE $3 OR src.sku ILIKE $3 OR COALESCE(t.serials, '') ILIKE $3`
	}

	query += `
	ORDER BY COALESCE(p.pack_date_time, src.created_at) DESC, src.id DESC
	LIMIT $1 OFFSET $2`

	return query
}

// ListFeed returns one page of the combined feed.
func (r *ShippedRepository) ListFeed(ctx context.Context, search string, limit, offset int) ([]*models.ShippedRow, error) {
	var query string
	args := []interface{}{limit, offset}
	if search != "" {
		query = feedQuery(true)
		args = append(args, "%"+search+"%")
	} else {
		query = feedQuery(false)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feed []*models.ShippedRow
	for rows.Next() {
		var row models.ShippedRow
		var history []byte
		err := rows.Scan(&row.ID, &row.RowSource, &row.OrderID, &row.ProductTitle,
			&row.Condition, &row.ShippingTrackingNumber, &row.SKU, &row.Quantity,
			&row.ShipByDate, &row.IsShipped, &row.Notes, &row.ExceptionReason,
			&row.SourceStation, &history, &row.CreatedAt,
			&row.PackedBy, &row.PackDateTime,
			&row.SerialNumber, &row.TestedBy, &row.TestDateTime)
		if err != nil {
			return nil, err
		}
		if len(history) > 0 {
			json.Unmarshal(history, &row.StatusHistory)
		}
		feed = append(feed, &row)
	}
	return feed, rows.Err()
}

// CheckTracking gathers every table's view of one tracking number for the
// diagnostics endpoint.
func (r *ShippedRepository) CheckTracking(ctx context.Context, tracking string) (*models.TrackingCheck, error) {
	check := &models.TrackingCheck{Tracking: tracking}

	orderRows, err := r.DB.Query(ctx,
		`SELECT `+orderColumnsO+` FROM orders o
		 WHERE `+suffixMatchCond("o.shipping_tracking_number", "$1")+`
		 ORDER BY o.id DESC`, tracking)
	if err != nil {
		return nil, err
	}
	defer orderRows.Close()
	for orderRows.Next() {
		o, err := scanOrder(orderRows)
		if err != nil {
			return nil, err
		}
		check.Orders = append(check.Orders, *o)
		if o.IsShipped {
			check.Summary.IsShipped = true
		}
	}
	if err := orderRows.Err(); err != nil {
		return nil, err
	}

	packRows, err := r.DB.Query(ctx,
		`SELECT pl.id, pl.shipping_tracking_number, pl.packed_by, pl.pack_date_time,
			pl.tracking_type, pl.packer_photos_url
		 FROM packer_logs pl
		 WHERE `+suffixMatchCond("pl.shipping_tracking_number", "$1")+`
		 ORDER BY pl.pack_date_time DESC NULLS LAST, pl.id DESC`, tracking)
	if err != nil {
		return nil, err
	}
	defer packRows.Close()
	for packRows.Next() {
		var pl models.PackerLog
		var photos []byte
		if err := packRows.Scan(&pl.ID, &pl.ShippingTrackingNumber, &pl.PackedBy,
			&pl.PackDateTime, &pl.TrackingType, &photos); err != nil {
			return nil, err
		}
		if len(photos) > 0 {
			json.Unmarshal(photos, &pl.PackerPhotosURL)
		}
		check.PackEvents = append(check.PackEvents, pl)
	}
	if err := packRows.Err(); err != nil {
		return nil, err
	}

	techRows, err := r.DB.Query(ctx,
		`SELECT ts.id, ts.shipping_tracking_number, ts.serial_number, ts.tested_by, ts.test_date_time
		 FROM tech_serial_numbers ts
		 WHERE `+suffixMatchCond("ts.shipping_tracking_number", "$1")+`
		 ORDER BY ts.test_date_time ASC NULLS LAST, ts.id ASC`, tracking)
	if err != nil {
		return nil, err
	}
	defer techRows.Close()
	for techRows.Next() {
		var ts models.TechSerialNumber
		if err := techRows.Scan(&ts.ID, &ts.ShippingTrackingNumber, &ts.SerialNumber,
			&ts.TestedBy, &ts.TestDateTime); err != nil {
			return nil, err
		}
		check.TestEvents = append(check.TestEvents, ts)
	}
	if err := techRows.Err(); err != nil {
		return nil, err
	}

	excRows, err := r.DB.Query(ctx,
		`SELECT e.id, e.shipping_tracking_number, e.source_station, e.staff_id, e.staff_name,
			e.exception_reason, e.notes, e.status, e.created_at, e.updated_at
		 FROM orders_exceptions e
		 WHERE `+key18Expr("e.shipping_tracking_number")+` = `+key18Expr("$1")+`
		 ORDER BY e.id DESC`, tracking)
	if err != nil {
		return nil, err
	}
	defer excRows.Close()
	for excRows.Next() {
		var e models.OrderException
		if err := excRows.Scan(&e.ID, &e.ShippingTrackingNumber, &e.SourceStation,
			&e.StaffID, &e.StaffName, &e.ExceptionReason, &e.Notes, &e.Status,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		check.Exceptions = append(check.Exceptions, e)
	}
	if err := excRows.Err(); err != nil {
		return nil, err
	}

	check.Summary.InOrders = len(check.Orders) > 0
	check.Summary.InPackerLogs = len(check.PackEvents) > 0
	check.Summary.InTechLogs = len(check.TestEvents) > 0
	check.Summary.InExceptions = len(check.Exceptions) > 0
	check.Summary.HasPackLog = check.Summary.InPackerLogs

	return check, nil
}
