package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

// LegacyShippedRepository reads the spreadsheet-era shipped table for the
// previous-quarters views. New shipments go through orders; this table only
// takes status edits.
type LegacyShippedRepository struct {
	DB *pgxpool.Pool
}

func NewLegacyShippedRepository(db *pgxpool.Pool) *LegacyShippedRepository {
	return &LegacyShippedRepository{DB: db}
}

const legacyShippedSelect = `SELECT
	col_1 AS id,
	COALESCE(col_2, '') AS date_time,
	COALESCE(col_3, '') AS order_id,
	COALESCE(col_4, '') AS product_title,
	COALESCE(col_5, '') AS sent,
	COALESCE(col_6, '') AS shipping_trk_number,
	COALESCE(col_7, '') AS serial_number,
	COALESCE(col_8, '') AS boxed,
	COALESCE(col_9, '') AS by,
	COALESCE(col_10, '') AS sku,
	COALESCE(col_11, '') AS status,
	COALESCE(col_12, '') AS status_history
FROM shipped`

func scanLegacyShipped(row pgx.Row) (*models.LegacyShippedRecord, error) {
	var rec models.LegacyShippedRecord
	var history string
	err := row.Scan(&rec.ID, &rec.DateTime, &rec.OrderID, &rec.ProductTitle, &rec.Sent,
		&rec.ShippingTrkNum, &rec.SerialNumber, &rec.Boxed, &rec.By, &rec.SKU,
		&rec.Status, &history)
	if err != nil {
		return nil, err
	}
	if history != "" {
		json.Unmarshal([]byte(history), &rec.StatusHistory)
	}
	return &rec, nil
}

func (r *LegacyShippedRepository) List(ctx context.Context, limit, offset int) ([]*models.LegacyShippedRecord, error) {
	rows, err := r.DB.Query(ctx,
		legacyShippedSelect+` ORDER BY col_1 DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.LegacyShippedRecord
	for rows.Next() {
		rec, err := scanLegacyShipped(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *LegacyShippedRepository) Get(ctx context.Context, id int) (*models.LegacyShippedRecord, error) {
	return scanLegacyShipped(r.DB.QueryRow(ctx, legacyShippedSelect+` WHERE col_1 = $1`, id))
}

// Search matches order id, tracking, product title, serial and SKU.
func (r *LegacyShippedRepository) Search(ctx context.Context, q string, limit int) ([]*models.LegacyShippedRecord, error) {
	rows, err := r.DB.Query(ctx,
		legacyShippedSelect+`
		WHERE col_3 ILIKE $1 OR col_4 ILIKE $1 OR col_6 ILIKE $1 OR col_7 ILIKE $1 OR col_10 ILIKE $1
		ORDER BY col_1 DESC LIMIT $2`,
		"%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.LegacyShippedRecord
	for rows.Next() {
		rec, err := scanLegacyShipped(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FindByTracking locates legacy rows by tracking suffix, used by the
// diagnostics endpoint for shipments that predate the orders table.
func (r *LegacyShippedRepository) FindByTracking(ctx context.Context, tracking string) ([]*models.LegacyShippedRecord, error) {
	rows, err := r.DB.Query(ctx,
		legacyShippedSelect+` WHERE `+suffixMatchCond("col_6", "$1")+` ORDER BY col_1 DESC`,
		tracking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.LegacyShippedRecord
	for rows.Next() {
		rec, err := scanLegacyShipped(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateStatus mirrors RepairRepository.UpdateStatus for the shipped table.
func (r *LegacyShippedRepository) UpdateStatus(ctx context.Context, id int, status string, entryJSON []byte) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE shipped SET
			col_11 = $2,
			col_12 = (
				COALESCE(NULLIF(col_12, ''), '[]')::jsonb ||
				jsonb_set($3::jsonb, '{previous_status}', to_jsonb(COALESCE(col_11, '')))
			)::text
		WHERE col_1 = $1`, id, status, entryJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
