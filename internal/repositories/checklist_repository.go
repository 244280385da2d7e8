package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"warehouse-backend/internal/models"
)

type ChecklistRepository struct {
	DB *pgxpool.Pool
}

func NewChecklistRepository(db *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{DB: db}
}

// ListForDay returns every template for the role joined with the staff
// member's instance for that day. Templates with no instance yet come back
// as pending.
func (r *ChecklistRepository) ListForDay(ctx context.Context, role string, staffID int, day time.Time) ([]*models.ChecklistItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT tt.id, tt.title, COALESCE(tt.description, ''), tt.role,
			tt.order_number, tt.tracking_number, tt.created_at,
			COALESCE(dti.status, 'pending'),
			dti.started_at, dti.completed_at, dti.duration_minutes, dti.notes,
			to_char($3::date, 'YYYY-MM-DD')
		FROM task_templates tt
		LEFT JOIN daily_task_instances dti
			ON dti.template_id = tt.id AND dti.staff_id = $2 AND dti.task_date = $3::date
		WHERE tt.role = $1
		ORDER BY tt.id ASC`, role, staffID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ChecklistItem
	for rows.Next() {
		var item models.ChecklistItem
		var taskDate string
		err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Role,
			&item.OrderNumber, &item.TrackingNumber, &item.CreatedAt,
			&item.Status, &item.StartedAt, &item.CompletedAt,
			&item.DurationMinutes, &item.Notes, &taskDate)
		if err != nil {
			return nil, err
		}
		item.TaskDate = &taskDate
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range items {
		tags, err := r.tagsForTemplate(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		item.Tags = tags
	}
	return items, nil
}

func (r *ChecklistRepository) tagsForTemplate(ctx context.Context, templateID int) ([]models.Tag, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN task_tags tt ON tt.tag_id = t.id
		WHERE tt.template_id = $1
		ORDER BY t.name ASC`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SetStatus upserts the day's instance. in_progress stamps started_at once;
// completed stamps completed_at and derives the duration; moving back to
// pending clears both.
func (r *ChecklistRepository) SetStatus(ctx context.Context, templateID, staffID int, day time.Time, status, notes string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO daily_task_instances (template_id, staff_id, task_date, status, started_at, notes)
		VALUES ($1, $2, $3::date, $4,
			CASE WHEN $4 = 'in_progress' THEN NOW() END,
			NULLIF($5, ''))
		ON CONFLICT (template_id, staff_id, task_date) DO UPDATE SET
			status = EXCLUDED.status,
			notes = COALESCE(EXCLUDED.notes, daily_task_instances.notes),
			started_at = CASE
				WHEN EXCLUDED.status = 'pending' THEN NULL
				ELSE COALESCE(daily_task_instances.started_at,
					CASE WHEN EXCLUDED.status = 'in_progress' THEN NOW() END)
				END,
			completed_at = CASE WHEN EXCLUDED.status = 'completed' THEN NOW() END,
			duration_minutes = CASE
				WHEN EXCLUDED.status = 'completed' AND daily_task_instances.started_at IS NOT NULL
				THEN GREATEST(1, (EXTRACT(EPOCH FROM (NOW() - daily_task_instances.started_at)) / 60)::int)
				END`,
		templateID, staffID, day, status, notes)
	return err
}

func (r *ChecklistRepository) CreateTemplate(ctx context.Context, t *models.TaskTemplate) error {
	return r.DB.QueryRow(ctx, `
		INSERT INTO task_templates (title, description, role, order_number, tracking_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		t.Title, t.Description, t.Role, t.OrderNumber, t.TrackingNumber,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *ChecklistRepository) DeleteTemplate(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM task_templates WHERE id=$1`, id)
	return err
}

func (r *ChecklistRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, color FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
