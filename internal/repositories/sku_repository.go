package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

// SkuRepository covers FNSKU lookups and SKU stock counts.
type SkuRepository struct {
	DB *pgxpool.Pool
}

func NewSkuRepository(db *pgxpool.Pool) *SkuRepository {
	return &SkuRepository{DB: db}
}

// GetFnsku resolves one FNSKU barcode, nil when unknown.
func (r *SkuRepository) GetFnsku(ctx context.Context, fnsku string) (*models.FBAFnsku, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, fnsku, sku, COALESCE(product_title, ''), created_at
		FROM fba_fnskus WHERE fnsku = $1`, fnsku)

	var f models.FBAFnsku
	err := row.Scan(&f.ID, &f.Fnsku, &f.SKU, &f.ProductTitle, &f.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// UpsertFnskus bulk-loads an FNSKU export, replacing SKU and title on
// conflict. Returns the number of rows written.
func (r *SkuRepository) UpsertFnskus(ctx context.Context, fnskus []models.FBAFnsku) (int, error) {
	written := 0
	for _, f := range fnskus {
		if f.Fnsku == "" {
			continue
		}
		_, err := r.DB.Exec(ctx, `
			INSERT INTO fba_fnskus (fnsku, sku, product_title)
			VALUES ($1, $2, $3)
			ON CONFLICT (fnsku) DO UPDATE SET sku = EXCLUDED.sku, product_title = EXCLUDED.product_title`,
			f.Fnsku, f.SKU, f.ProductTitle)
		if err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// AddStock bumps a SKU count by delta, creating the row on first scan.
// Returns the new quantity.
func (r *SkuRepository) AddStock(ctx context.Context, sku string, delta int) (int, error) {
	var qty int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO sku_stock (sku, quantity, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (sku) DO UPDATE SET
			quantity = sku_stock.quantity + EXCLUDED.quantity,
			updated_at = NOW()
		RETURNING quantity`, sku, delta).Scan(&qty)
	return qty, err
}

// ListStock returns all stock rows ordered by SKU.
func (r *SkuRepository) ListStock(ctx context.Context) ([]*models.SkuStock, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT sku, quantity, COALESCE(product_title, '')
		FROM sku_stock ORDER BY sku ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stock []*models.SkuStock
	for rows.Next() {
		var s models.SkuStock
		if err := rows.Scan(&s.SKU, &s.Quantity, &s.ProductTitle); err != nil {
			return nil, err
		}
		stock = append(stock, &s)
	}
	return stock, rows.Err()
}
