package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

const orderColumns = `id, COALESCE(order_id, ''), COALESCE(product_title, ''), COALESCE(condition, ''),
	COALESCE(shipping_tracking_number, ''), COALESCE(sku, ''), COALESCE(quantity, '1'),
	status_history, is_shipped, COALESCE(ship_by_date, ''), tester_id, packer_id,
	COALESCE(notes, ''), COALESCE(out_of_stock, ''), COALESCE(account_source, ''),
	order_date, created_at`

const orderColumnsO = `o.id, COALESCE(o.order_id, ''), COALESCE(o.product_title, ''), COALESCE(o.condition, ''),
	COALESCE(o.shipping_tracking_number, ''), COALESCE(o.sku, ''), COALESCE(o.quantity, '1'),
	o.status_history, o.is_shipped, COALESCE(o.ship_by_date, ''), o.tester_id, o.packer_id,
	COALESCE(o.notes, ''), COALESCE(o.out_of_stock, ''), COALESCE(o.account_source, ''),
	o.order_date, o.created_at`

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var history []byte
	err := row.Scan(&o.ID, &o.OrderID, &o.ProductTitle, &o.Condition,
		&o.ShippingTrackingNumber, &o.SKU, &o.Quantity,
		&history, &o.IsShipped, &o.ShipByDate, &o.TesterID, &o.PackerID,
		&o.Notes, &o.OutOfStock, &o.AccountSource,
		&o.OrderDate, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &o.StatusHistory); err != nil {
			o.StatusHistory = nil
		}
	}
	return &o, nil
}

// List returns orders newest first with optional search over order id,
// tracking number, product title and SKU.
func (r *OrderRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE order_id ILIKE $1 OR shipping_tracking_number ILIKE $1
			OR product_title ILIKE $1 OR sku ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
}

func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	return scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id=$1`, orderID))
}

// FindByTracking returns orders whose tracking matches the given number by
// digit-suffix (exact match for short numbers), highest id first.
func (r *OrderRepository) FindByTracking(ctx context.Context, tracking string) ([]*models.Order, error) {
	cond := suffixMatchCond("o.shipping_tracking_number", "$1")
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumnsO+` FROM orders o WHERE `+cond+` ORDER BY o.id DESC`,
		tracking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Upsert inserts an order by marketplace order id, updating tracking number
// and shipped state when the row already exists. Used by the sync services.
// Returns true when a row was inserted or changed.
func (r *OrderRepository) Upsert(ctx context.Context, o *models.Order) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		INSERT INTO orders (order_id, product_title, condition, shipping_tracking_number,
			sku, quantity, is_shipped, ship_by_date, account_source, order_date, status_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '[]'::jsonb)
		ON CONFLICT (order_id) DO UPDATE SET
			shipping_tracking_number = CASE
				WHEN COALESCE(EXCLUDED.shipping_tracking_number, '') <> ''
				THEN EXCLUDED.shipping_tracking_number
				ELSE orders.shipping_tracking_number END,
			is_shipped = orders.is_shipped OR EXCLUDED.is_shipped,
			product_title = CASE
				WHEN COALESCE(orders.product_title, '') = '' THEN EXCLUDED.product_title
				ELSE orders.product_title END
		WHERE COALESCE(orders.shipping_tracking_number, '') IS DISTINCT FROM COALESCE(EXCLUDED.shipping_tracking_number, '')
			OR orders.is_shipped <> (orders.is_shipped OR EXCLUDED.is_shipped)
			OR COALESCE(orders.product_title, '') = ''`,
		o.OrderID, o.ProductTitle, o.Condition, o.ShippingTrackingNumber,
		o.SKU, o.Quantity, o.IsShipped, o.ShipByDate, o.AccountSource, o.OrderDate)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Create inserts a manually submitted order row.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO orders (order_id, product_title, condition, shipping_tracking_number,
			sku, quantity, is_shipped, notes, account_source, status_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '[]'::jsonb)
		RETURNING id, created_at`,
		o.OrderID, o.ProductTitle, o.Condition, o.ShippingTrackingNumber,
		o.SKU, o.Quantity, o.IsShipped, o.Notes, o.AccountSource,
	).Scan(&o.ID, &o.CreatedAt)
}

// Assign applies a partial staff/date assignment. Only non-nil fields are
// written; everything else keeps its stored value.
func (r *OrderRepository) Assign(ctx context.Context, id int, req *models.AssignOrderRequest) error {
	sets, args := assignUpdates(req)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// assignUpdates builds the SET clauses for a partial assignment. Only
// provided fields appear; an absent field never touches its column.
func assignUpdates(req *models.AssignOrderRequest) (sets []string, args []interface{}) {
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.TesterID != nil {
		add("tester_id", nullableID(*req.TesterID))
	}
	if req.PackerID != nil {
		add("packer_id", nullableID(*req.PackerID))
	}
	if req.ShipByDate != nil {
		add("ship_by_date", *req.ShipByDate)
	}
	if req.OutOfStock != nil {
		add("out_of_stock", *req.OutOfStock)
	}
	return sets, args
}

// nullableID maps the sentinel 0 to NULL so assignments can be cleared.
func nullableID(id int) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

// AppendStatus appends one history entry in a single statement. The previous
// status is read from the stored history inside the same UPDATE, so two
// concurrent appends cannot both read the same predecessor.
func (r *OrderRepository) AppendStatus(ctx context.Context, id int, status string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE orders SET status_history = status_history || jsonb_build_object(
			'status', $2::text,
			'timestamp', to_char(NOW() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"'),
			'previous_status', COALESCE(status_history->-1->>'status', '')
		)
		WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetShipped flips the marketplace shipped flag. Pack-log linkage is a
// separate signal and is not touched here.
func (r *OrderRepository) SetShipped(ctx context.Context, id int, shipped bool) error {
	tag, err := r.DB.Exec(ctx, `UPDATE orders SET is_shipped=$2 WHERE id=$1`, id, shipped)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateField writes one whitelisted column. The handler validates the field
// name against allowedOrderFields before calling.
func (r *OrderRepository) UpdateField(ctx context.Context, id int, field, value string) error {
	if !allowedOrderFields[field] {
		return fmt.Errorf("field %q is not editable", field)
	}
	tag, err := r.DB.Exec(ctx,
		fmt.Sprintf(`UPDATE orders SET %s=$2 WHERE id=$1`, field), id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

var allowedOrderFields = map[string]bool{
	"notes":        true,
	"condition":    true,
	"sku":          true,
	"quantity":     true,
	"ship_by_date": true,
	"out_of_stock": true,
}

func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UnshippedWithTracking returns orders that carry a tracking number but are
// not flagged shipped, for the ShipStation upload.
func (r *OrderRepository) UnshippedWithTracking(ctx context.Context, since time.Time) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE is_shipped = false
		   AND COALESCE(shipping_tracking_number, '') <> ''
		   AND created_at >= $1
		 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
