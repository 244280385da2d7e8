package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

// RepairRepository reads and writes the legacy rs table, which kept its
// spreadsheet-era col_N column names when it was bulk-loaded. Columns are
// aliased to real names at the query boundary; nothing above this file sees
// col_N.
type RepairRepository struct {
	DB *pgxpool.Pool
}

func NewRepairRepository(db *pgxpool.Pool) *RepairRepository {
	return &RepairRepository{DB: db}
}

const repairSelect = `SELECT
	col_1 AS id,
	COALESCE(col_2, '') AS date_time,
	COALESCE(col_3, '') AS rs_number,
	COALESCE(col_4, '') AS contact,
	COALESCE(col_5, '') AS product,
	COALESCE(col_6, '') AS price,
	COALESCE(col_7, '') AS issue,
	COALESCE(col_8, '') AS serial_number,
	COALESCE(col_9, '') AS parts,
	COALESCE(col_10, '') AS status,
	COALESCE(col_11, '') AS notes,
	COALESCE(col_12, '') AS status_history
FROM rs`

func scanRepair(row pgx.Row) (*models.Repair, error) {
	var rep models.Repair
	var history string
	err := row.Scan(&rep.ID, &rep.DateTime, &rep.RSNumber, &rep.Contact, &rep.Product,
		&rep.Price, &rep.Issue, &rep.SerialNumber, &rep.Parts, &rep.Status,
		&rep.Notes, &history)
	if err != nil {
		return nil, err
	}
	if history != "" {
		// Legacy rows hold malformed JSON occasionally; treat as empty.
		json.Unmarshal([]byte(history), &rep.StatusHistory)
	}
	return &rep, nil
}

func (r *RepairRepository) List(ctx context.Context, limit, offset int) ([]*models.Repair, error) {
	rows, err := r.DB.Query(ctx,
		repairSelect+` ORDER BY col_1 DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repairs []*models.Repair
	for rows.Next() {
		rep, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		repairs = append(repairs, rep)
	}
	return repairs, rows.Err()
}

func (r *RepairRepository) Get(ctx context.Context, id int) (*models.Repair, error) {
	return scanRepair(r.DB.QueryRow(ctx, repairSelect+` WHERE col_1 = $1`, id))
}

// Search matches RS number, contact, product, serial and issue.
func (r *RepairRepository) Search(ctx context.Context, q string, limit int) ([]*models.Repair, error) {
	rows, err := r.DB.Query(ctx,
		repairSelect+`
		WHERE col_3 ILIKE $1 OR col_4 ILIKE $1 OR col_5 ILIKE $1 OR col_7 ILIKE $1 OR col_8 ILIKE $1
		ORDER BY col_1 DESC LIMIT $2`,
		"%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repairs []*models.Repair
	for rows.Next() {
		rep, err := scanRepair(rows)
		if err != nil {
			return nil, err
		}
		repairs = append(repairs, rep)
	}
	return repairs, rows.Err()
}

func (r *RepairRepository) Create(ctx context.Context, req *models.CreateRepairRequest) (*models.Repair, error) {
	now := time.Now().Format("1/2/2006 15:04:05")
	var id int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO rs (col_2, col_3, col_4, col_5, col_6, col_7, col_8, col_9, col_10, col_12)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'Received', '[]')
		RETURNING col_1`,
		now, req.RSNumber, req.Contact, req.Product, req.Price, req.Issue,
		req.SerialNumber, req.Parts,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// UpdateStatus sets the status and appends to the history JSON in one
// statement, reading the previous status from the stored row.
func (r *RepairRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	entry := models.StatusHistoryEntry{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// col_12 is TEXT holding a JSON array; cast through jsonb to append and
	// record previous_status atomically.
	tag, err := r.DB.Exec(ctx, `
		UPDATE rs SET
			col_10 = $2,
			col_12 = (
				COALESCE(NULLIF(col_12, ''), '[]')::jsonb ||
				jsonb_set($3::jsonb, '{previous_status}', to_jsonb(COALESCE(col_10, '')))
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

// UpdateField writes one whitelisted repair column.
func (r *RepairRepository) UpdateField(ctx context.Context, id int, field, value string) error {
	col, ok := repairFieldColumns[field]
	if !ok {
		return fmt.Errorf("field %q is not editable", field)
	}
	tag, err := r.DB.Exec(ctx,
		fmt.Sprintf(`UPDATE rs SET %s = $2 WHERE col_1 = $1`, col), id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

var repairFieldColumns = map[string]string{
	"contact":       "col_4",
	"product":       "col_5",
	"price":         "col_6",
	"issue":         "col_7",
	"serial_number": "col_8",
	"parts":         "col_9",
	"notes":         "col_11",
}
