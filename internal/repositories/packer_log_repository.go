package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type PackerLogRepository struct {
	DB *pgxpool.Pool
}

func NewPackerLogRepository(db *pgxpool.Pool) *PackerLogRepository {
	return &PackerLogRepository{DB: db}
}

func (r *PackerLogRepository) Create(ctx context.Context, pl *models.PackerLog) error {
	photos, err := json.Marshal(pl.PackerPhotosURL)
	if err != nil {
		return err
	}
	if pl.PackerPhotosURL == nil {
		photos = []byte("[]")
	}
	return r.DB.QueryRow(ctx, `
		INSERT INTO packer_logs (shipping_tracking_number, packed_by, pack_date_time, tracking_type, packer_photos_url)
		VALUES ($1, $2, COALESCE($3, NOW()), $4, $5)
		RETURNING id, pack_date_time`,
		pl.ShippingTrackingNumber, pl.PackedBy, pl.PackDateTime, pl.TrackingType, photos,
	).Scan(&pl.ID, &pl.PackDateTime)
}

// ListWithOrders returns pack events newest first, each enriched with the
// highest-id order matching its tracking suffix.
func (r *PackerLogRepository) ListWithOrders(ctx context.Context, limit, offset int) ([]*models.PackerLogWithOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT pl.id, pl.shipping_tracking_number, pl.packed_by, pl.pack_date_time,
			pl.tracking_type, pl.packer_photos_url,
			o.order_id, o.product_title, o.condition, o.quantity, o.sku
		FROM packer_logs pl
		LEFT JOIN LATERAL (
			SELECT o2.order_id, o2.product_title, o2.condition, o2.quantity, o2.sku
			FROM orders o2
			WHERE `+suffixMatchCond("pl.shipping_tracking_number", "o2.shipping_tracking_number")+`
			ORDER BY o2.id DESC
			LIMIT 1
		) o ON true
		ORDER BY pl.pack_date_time DESC NULLS LAST, pl.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.PackerLogWithOrder
	for rows.Next() {
		var l models.PackerLogWithOrder
		var photos []byte
		err := rows.Scan(&l.ID, &l.ShippingTrackingNumber, &l.PackedBy, &l.PackDateTime,
			&l.TrackingType, &photos,
			&l.OrderID, &l.ProductTitle, &l.Condition, &l.Quantity, &l.SKU)
		if err != nil {
			return nil, err
		}
		if len(photos) > 0 {
			json.Unmarshal(photos, &l.PackerPhotosURL)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// RecentByTracking returns the newest pack event for the same tracking number
// within the window, used for duplicate-scan detection at the station.
func (r *PackerLogRepository) RecentByTracking(ctx context.Context, tracking string, window time.Duration) (*models.PackerLog, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT pl.id, pl.shipping_tracking_number, pl.packed_by, pl.pack_date_time, pl.tracking_type
		FROM packer_logs pl
		WHERE `+suffixMatchCond("pl.shipping_tracking_number", "$1")+`
			AND pl.pack_date_time >= NOW() - $2::interval
		ORDER BY pl.pack_date_time DESC, pl.id DESC
		LIMIT 1`, tracking, window.String())

	var pl models.PackerLog
	err := row.Scan(&pl.ID, &pl.ShippingTrackingNumber, &pl.PackedBy, &pl.PackDateTime, &pl.TrackingType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &pl, nil
}

// AppendPhoto adds one photo to the array in a single statement, stamping its
// index from the current length.
func (r *PackerLogRepository) AppendPhoto(ctx context.Context, id int, photo models.PackerPhoto) error {
	data, err := json.Marshal(photo)
	if err != nil {
		return err
	}
	tag, err := r.DB.Exec(ctx, `
		UPDATE packer_logs SET packer_photos_url =
			COALESCE(packer_photos_url, '[]'::jsonb) ||
			jsonb_set($2::jsonb, '{index}', to_jsonb(jsonb_array_length(COALESCE(packer_photos_url, '[]'::jsonb))))
		WHERE id = $1`, id, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdatePhotos replaces the photo array on one pack event.
func (r *PackerLogRepository) UpdatePhotos(ctx context.Context, id int, photos []models.PackerPhoto) error {
	data, err := json.Marshal(photos)
	if err != nil {
		return err
	}
	tag, err := r.DB.Exec(ctx,
		`UPDATE packer_logs SET packer_photos_url=$2 WHERE id=$1`, id, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PackerLogRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM packer_logs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
