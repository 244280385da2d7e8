package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type StaffRepository struct {
	DB *pgxpool.Pool
}

func NewStaffRepository(db *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{DB: db}
}

const staffColumns = `id, name, role, employee_id, active, is_admin, COALESCE(pin_hash, ''), created_at`

func scanStaff(row pgx.Row) (*models.Staff, error) {
	var s models.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Role, &s.EmployeeID, &s.Active, &s.IsAdmin,
		&s.PinHash, &s.CreatedAt)
	return &s, err
}

// List returns staff members, optionally only active ones, ordered by name.
func (r *StaffRepository) List(ctx context.Context, activeOnly bool) ([]*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []*models.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func (r *StaffRepository) Get(ctx context.Context, id int) (*models.Staff, error) {
	return scanStaff(r.DB.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id=$1`, id))
}

func (r *StaffRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Staff, error) {
	return scanStaff(r.DB.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE employee_id=$1`, employeeID))
}

func (r *StaffRepository) Create(ctx context.Context, s *models.Staff) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO staff (name, role, employee_id, active, is_admin)
		VALUES ($1, $2, $3, true, false)
		RETURNING id, active, is_admin, created_at`,
		s.Name, s.Role, s.EmployeeID,
	).Scan(&s.ID, &s.Active, &s.IsAdmin, &s.CreatedAt)
}

// Update applies a partial staff edit; only non-nil fields change.
func (r *StaffRepository) Update(ctx context.Context, req *models.UpdateStaffRequest) error {
	sets := []string{}
	args := []interface{}{}

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Role != nil {
		add("role", *req.Role)
	}
	if req.EmployeeID != nil {
		add("employee_id", *req.EmployeeID)
	}
	if req.Active != nil {
		add("active", *req.Active)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, req.ID)
	query := fmt.Sprintf(`UPDATE staff SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetPin stores a new bcrypt PIN hash and grants admin access.
func (r *StaffRepository) SetPin(ctx context.Context, id int, pinHash string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE staff SET pin_hash=$2, is_admin=true WHERE id=$1`, id, pinHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes: history rows keep referencing the id so the name
// still resolves in old feed rows.
func (r *StaffRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE staff SET active=false WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
