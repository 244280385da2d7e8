package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type TechSerialRepository struct {
	DB *pgxpool.Pool
}

func NewTechSerialRepository(db *pgxpool.Pool) *TechSerialRepository {
	return &TechSerialRepository{DB: db}
}

func (r *TechSerialRepository) Add(ctx context.Context, ts *models.TechSerialNumber) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO tech_serial_numbers (shipping_tracking_number, serial_number, tested_by, test_date_time)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING id, test_date_time`,
		ts.ShippingTrackingNumber, ts.SerialNumber, ts.TestedBy, ts.TestDateTime,
	).Scan(&ts.ID, &ts.TestDateTime)
}

// SerialExistsForTracking reports whether the same serial was already scanned
// for a matching tracking number. Guards against double-scanning one unit.
func (r *TechSerialRepository) SerialExistsForTracking(ctx context.Context, tracking, serial string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tech_serial_numbers ts
			WHERE ts.serial_number = $2
				AND `+suffixMatchCond("ts.shipping_tracking_number", "$1")+`
		)`, tracking, serial).Scan(&exists)
	return exists, err
}

// ListWithOrders returns test events newest first, each enriched with the
// highest-id order matching its tracking suffix.
func (r *TechSerialRepository) ListWithOrders(ctx context.Context, limit, offset int) ([]*models.TechLogWithOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ts.id, ts.shipping_tracking_number, ts.serial_number, ts.tested_by, ts.test_date_time,
			o.order_id, o.product_title, o.condition, o.sku
		FROM tech_serial_numbers ts
		LEFT JOIN LATERAL (
			SELECT o2.order_id, o2.product_title, o2.condition, o2.sku
			FROM orders o2
			WHERE `+suffixMatchCond("ts.shipping_tracking_number", "o2.shipping_tracking_number")+`
			ORDER BY o2.id DESC
			LIMIT 1
		) o ON true
		ORDER BY ts.test_date_time DESC NULLS LAST, ts.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.TechLogWithOrder
	for rows.Next() {
		var l models.TechLogWithOrder
		err := rows.Scan(&l.ID, &l.ShippingTrackingNumber, &l.SerialNumber, &l.TestedBy,
			&l.TestDateTime, &l.OrderID, &l.ProductTitle, &l.Condition, &l.SKU)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// ListByTracking returns test events for one tracking number in scan order.
func (r *TechSerialRepository) ListByTracking(ctx context.Context, tracking string) ([]models.TechSerialNumber, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ts.id, ts.shipping_tracking_number, ts.serial_number, ts.tested_by, ts.test_date_time
		FROM tech_serial_numbers ts
		WHERE `+suffixMatchCond("ts.shipping_tracking_number", "$1")+`
		ORDER BY ts.test_date_time ASC NULLS LAST, ts.id ASC`, tracking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var serials []models.TechSerialNumber
	for rows.Next() {
		var ts models.TechSerialNumber
		if err := rows.Scan(&ts.ID, &ts.ShippingTrackingNumber, &ts.SerialNumber,
			&ts.TestedBy, &ts.TestDateTime); err != nil {
			return nil, err
		}
		serials = append(serials, ts)
	}
	return serials, rows.Err()
}

// UndoLast removes the most recent test event for a matching tracking number
// and returns what was removed. Lets a tech back out a mis-scan without
// hunting for the row id.
func (r *TechSerialRepository) UndoLast(ctx context.Context, tracking string) (*models.TechSerialNumber, error) {
	var ts models.TechSerialNumber
	err := r.DB.QueryRow(ctx, `
		DELETE FROM tech_serial_numbers
		WHERE id = (
			SELECT ts.id FROM tech_serial_numbers ts
			WHERE `+suffixMatchCond("ts.shipping_tracking_number", "$1")+`
			ORDER BY ts.id DESC
			LIMIT 1
		)
		RETURNING id, shipping_tracking_number, serial_number, tested_by, test_date_time`,
		tracking,
	).Scan(&ts.ID, &ts.ShippingTrackingNumber, &ts.SerialNumber, &ts.TestedBy, &ts.TestDateTime)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *TechSerialRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM tech_serial_numbers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
