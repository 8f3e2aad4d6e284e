package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/domain/shift"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
)

type shiftTemplateRepository struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) shift.TemplateRepository {
	return &shiftTemplateRepository{db: db}
}

// Create implements shift.TemplateRepository.
func (r *shiftTemplateRepository) Create(ctx context.Context, tpl shift.Template) (shift.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_templates (name, start_minutes, end_minutes, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		tpl.Name,
		tpl.StartTime.Minutes(),
		tpl.EndTime.Minutes(),
		tpl.IsActive,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return shift.Template{}, err
	}

	return tpl, nil
}

// GetByID implements shift.TemplateRepository.
func (r *shiftTemplateRepository) GetByID(ctx context.Context, id string) (shift.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_minutes, end_minutes, is_active, created_at, updated_at
		FROM shift_templates
		WHERE id = $1
	`

	tpl, err := scanTemplate(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Template{}, shift.ErrShiftNotFound
		}
		return shift.Template{}, fmt.Errorf("failed to get shift template by ID: %w", err)
	}
	return tpl, nil
}

// GetByName implements shift.TemplateRepository.
func (r *shiftTemplateRepository) GetByName(ctx context.Context, name string) (shift.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_minutes, end_minutes, is_active, created_at, updated_at
		FROM shift_templates
		WHERE name = $1
	`

	tpl, err := scanTemplate(q.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Template{}, shift.ErrShiftNotFound
		}
		return shift.Template{}, fmt.Errorf("failed to get shift template by name: %w", err)
	}
	return tpl, nil
}

// List implements shift.TemplateRepository.
func (r *shiftTemplateRepository) List(ctx context.Context, activeOnly bool) ([]shift.Template, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_minutes, end_minutes, is_active, created_at, updated_at
		FROM shift_templates
	`
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	var templates []shift.Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, tpl)
	}

	return templates, rows.Err()
}

// Update implements shift.TemplateRepository.
func (r *shiftTemplateRepository) Update(ctx context.Context, tpl shift.Template) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_templates
		SET name = $1, start_minutes = $2, end_minutes = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query,
		tpl.Name,
		tpl.StartTime.Minutes(),
		tpl.EndTime.Minutes(),
		tpl.IsActive,
		tpl.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// CountActiveAssignments implements shift.TemplateRepository.
func (r *shiftTemplateRepository) CountActiveAssignments(ctx context.Context, templateID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM schedule_assignments
		WHERE shift_template_id = $1 AND is_active
	`

	var count int64
	if err := q.QueryRow(ctx, query, templateID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments for template: %w", err)
	}
	return count, nil
}

// Retire implements shift.TemplateRepository.
func (r *shiftTemplateRepository) Retire(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE shift_templates SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to retire shift template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

func scanTemplate(row pgx.Row) (shift.Template, error) {
	var tpl shift.Template
	var startMin, endMin int
	err := row.Scan(&tpl.ID, &tpl.Name, &startMin, &endMin, &tpl.IsActive, &tpl.CreatedAt, &tpl.UpdatedAt)
	if err != nil {
		return shift.Template{}, err
	}
	tpl.StartTime = timeutil.TimeOfDay(startMin)
	tpl.EndTime = timeutil.TimeOfDay(endMin)
	return tpl, nil
}
