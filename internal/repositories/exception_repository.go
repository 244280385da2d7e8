package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

// ExceptionRepository stores orphan shipment events. Identity is the
// normalized rightmost-18 alphanumeric key of the tracking number, so the
// same label scanned with and without carrier prefixes lands on one row.
type ExceptionRepository struct {
	DB *pgxpool.Pool
}

func NewExceptionRepository(db *pgxpool.Pool) *ExceptionRepository {
	return &ExceptionRepository{DB: db}
}

// UpsertOpen records an orphan scan. If an open exception with the same
// normalized key exists its updated_at is bumped; otherwise a new row opens.
// Returns the row and whether it was newly created.
func (r *ExceptionRepository) UpsertOpen(ctx context.Context, p *models.UpsertExceptionParams) (*models.OrderException, bool, error) {
	var e models.OrderException

	row := r.DB.QueryRow(ctx, `
		UPDATE orders_exceptions SET updated_at = NOW()
		WHERE status = 'open'
			AND `+key18Expr("shipping_tracking_number")+` = `+key18Expr("$1")+`
		RETURNING id, shipping_tracking_number, source_station, staff_id, staff_name,
			exception_reason, notes, status, created_at, updated_at`,
		p.ShippingTrackingNumber)

	err := row.Scan(&e.ID, &e.ShippingTrackingNumber, &e.SourceStation, &e.StaffID,
		&e.StaffName, &e.ExceptionReason, &e.Notes, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err == nil {
		return &e, false, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, err
	}

	row = r.DB.QueryRow(ctx, `
		INSERT INTO orders_exceptions
			(shipping_tracking_number, source_station, staff_id, staff_name, exception_reason, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, shipping_tracking_number, source_station, staff_id, staff_name,
			exception_reason, notes, status, created_at, updated_at`,
		p.ShippingTrackingNumber, p.SourceStation, p.StaffID, p.StaffName, p.Reason, p.Notes)

	err = row.Scan(&e.ID, &e.ShippingTrackingNumber, &e.SourceStation, &e.StaffID,
		&e.StaffName, &e.ExceptionReason, &e.Notes, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, false, err
	}
	return &e, true, nil
}

// ListOpen returns open exceptions newest first.
func (r *ExceptionRepository) ListOpen(ctx context.Context) ([]*models.OrderException, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, shipping_tracking_number, source_station, staff_id, staff_name,
			exception_reason, notes, status, created_at, updated_at
		FROM orders_exceptions
		WHERE status = 'open'
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exceptions []*models.OrderException
	for rows.Next() {
		var e models.OrderException
		if err := rows.Scan(&e.ID, &e.ShippingTrackingNumber, &e.SourceStation, &e.StaffID,
			&e.StaffName, &e.ExceptionReason, &e.Notes, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		exceptions = append(exceptions, &e)
	}
	return exceptions, rows.Err()
}

// CountOpen feeds the open-exceptions gauge.
func (r *ExceptionRepository) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders_exceptions WHERE status='open'`).Scan(&n)
	return n, err
}

// Resolve deletes an exception once its shipment is accounted for.
func (r *ExceptionRepository) Resolve(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM orders_exceptions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Sweep deletes every open exception whose tracking now matches an order with
// a tracking number, in one statement. Runs after marketplace syncs pull in
// late-arriving orders.
func (r *ExceptionRepository) Sweep(ctx context.Context) (*models.ExceptionSweepResult, error) {
	result := &models.ExceptionSweepResult{}

	if err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders_exceptions WHERE status='open'`).Scan(&result.Scanned); err != nil {
		return nil, err
	}

	tag, err := r.DB.Exec(ctx, `
		DELETE FROM orders_exceptions e
		WHERE e.status = 'open'
			AND EXISTS (
				SELECT 1 FROM orders o
				WHERE `+suffixMatchCond("e.shipping_tracking_number", "o.shipping_tracking_number")+`
			)`)
	if err != nil {
		return nil, err
	}

	result.Matched = int(tag.RowsAffected())
	result.Deleted = result.Matched
	return result, nil
}
