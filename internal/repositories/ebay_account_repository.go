package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type EbayAccountRepository struct {
	DB *pgxpool.Pool
}

func NewEbayAccountRepository(db *pgxpool.Pool) *EbayAccountRepository {
	return &EbayAccountRepository{DB: db}
}

// ListActive returns accounts included in sync runs, oldest first so run
// order is stable.
func (r *EbayAccountRepository) ListActive(ctx context.Context) ([]*models.EbayAccount, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, account_name, refresh_token, is_active, created_at
		FROM ebay_accounts WHERE is_active = true ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.EbayAccount
	for rows.Next() {
		var a models.EbayAccount
		if err := rows.Scan(&a.ID, &a.AccountName, &a.RefreshToken, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

func (r *EbayAccountRepository) Upsert(ctx context.Context, a *models.EbayAccount) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO ebay_accounts (account_name, refresh_token, is_active)
		VALUES ($1, $2, true)
		ON CONFLICT (account_name) DO UPDATE SET
			refresh_token = EXCLUDED.refresh_token,
			is_active = true
		RETURNING id, created_at`,
		a.AccountName, a.RefreshToken,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *EbayAccountRepository) Deactivate(ctx context.Context, accountName string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE ebay_accounts SET is_active=false WHERE account_name=$1`, accountName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
