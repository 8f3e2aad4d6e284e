package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type scheduleAssignmentRepository struct {
	db *database.DB
}

func NewScheduleAssignmentRepository(db *database.DB) schedule.AssignmentRepository {
	return &scheduleAssignmentRepository{db: db}
}

// Create implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) Create(ctx context.Context, assignment schedule.Assignment) (schedule.Assignment, error) {
	created, err := r.insert(ctx, assignment)
	if err != nil {
		// The unique (user, weekday, shift) constraint closes the
		// check-then-act window between concurrent authors.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return schedule.Assignment{}, schedule.ErrDuplicateSlot
		}
		return schedule.Assignment{}, err
	}
	return created, nil
}

// CreateBulk implements schedule.AssignmentRepository. All inserts run in
// one transaction; any failure rolls the whole batch back.
func (r *scheduleAssignmentRepository) CreateBulk(ctx context.Context, assignments []schedule.Assignment) ([]schedule.Assignment, error) {
	created := make([]schedule.Assignment, 0, len(assignments))

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		for _, assignment := range assignments {
			a, err := r.insert(txCtx, assignment)
			if err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					return schedule.ErrDuplicateSlot
				}
				return err
			}
			created = append(created, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *scheduleAssignmentRepository) insert(ctx context.Context, assignment schedule.Assignment) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedule_assignments (
			user_id, shift_template_id, weekday,
			entrada_minutes, salida_minutes, required_minutes,
			tolerance_entrada, tolerance_salida, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.UserID,
		assignment.ShiftTemplateID,
		string(assignment.Weekday),
		assignment.Entrada.Minutes(),
		assignment.Salida.Minutes(),
		assignment.RequiredMinutes,
		assignment.ToleranceEntrada,
		assignment.ToleranceSalida,
		assignment.IsActive,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
	if err != nil {
		return schedule.Assignment{}, err
	}

	return assignment, nil
}

// GetByID implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) GetByID(ctx context.Context, id string) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := selectAssignment + ` WHERE sa.id = $1`

	a, err := scanAssignment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Assignment{}, schedule.ErrScheduleNotFound
		}
		return schedule.Assignment{}, fmt.Errorf("failed to get schedule assignment by ID: %w", err)
	}
	return a, nil
}

// GetByUser implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) GetByUser(ctx context.Context, userID string) ([]schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := selectAssignment + `
		WHERE sa.user_id = $1
		ORDER BY array_position(
			ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY','SUNDAY'],
			sa.weekday
		), sa.entrada_minutes
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule assignments: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// GetActiveByUserAndWeekday implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) GetActiveByUserAndWeekday(ctx context.Context, userID string, weekday schedule.Weekday) ([]schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := selectAssignment + `
		WHERE sa.user_id = $1 AND sa.weekday = $2 AND sa.is_active
		ORDER BY sa.entrada_minutes
	`

	rows, err := q.Query(ctx, query, userID, string(weekday))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments for weekday: %w", err)
	}
	defer rows.Close()

	return collectAssignments(rows)
}

// ExistsSlot implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) ExistsSlot(ctx context.Context, userID string, weekday schedule.Weekday, shiftTemplateID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM schedule_assignments
			WHERE user_id = $1 AND weekday = $2 AND shift_template_id = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, string(weekday), shiftTemplateID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check assignment slot: %w", err)
	}
	return exists, nil
}

// Update implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) Update(ctx context.Context, assignment schedule.Assignment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedule_assignments
		SET weekday = $1, entrada_minutes = $2, salida_minutes = $3,
			required_minutes = $4, tolerance_entrada = $5, tolerance_salida = $6,
			is_active = $7, updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		string(assignment.Weekday),
		assignment.Entrada.Minutes(),
		assignment.Salida.Minutes(),
		assignment.RequiredMinutes,
		assignment.ToleranceEntrada,
		assignment.ToleranceSalida,
		assignment.IsActive,
		assignment.ID,
	)
	if err != nil {
		// A weekday change can race another author into the same
		// (user, weekday, shift) slot.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return schedule.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to update schedule assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// CountAttendanceRefs implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) CountAttendanceRefs(ctx context.Context, id string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM attendance_records WHERE schedule_assignment_id = $1`

	var count int64
	if err := q.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance references: %w", err)
	}
	return count, nil
}

// Delete implements schedule.AssignmentRepository.
func (r *scheduleAssignmentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedule_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

const selectAssignment = `
	SELECT sa.id, sa.user_id, sa.shift_template_id, sa.weekday,
		sa.entrada_minutes, sa.salida_minutes, sa.required_minutes,
		sa.tolerance_entrada, sa.tolerance_salida, sa.is_active,
		sa.created_at, sa.updated_at, st.name
	FROM schedule_assignments sa
	JOIN shift_templates st ON st.id = sa.shift_template_id
`

func scanAssignment(row pgx.Row) (schedule.Assignment, error) {
	var a schedule.Assignment
	var entradaMin, salidaMin int
	var shiftName string
	err := row.Scan(
		&a.ID, &a.UserID, &a.ShiftTemplateID, &a.Weekday,
		&entradaMin, &salidaMin, &a.RequiredMinutes,
		&a.ToleranceEntrada, &a.ToleranceSalida, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt, &shiftName,
	)
	if err != nil {
		return schedule.Assignment{}, err
	}
	a.Entrada = timeutil.TimeOfDay(entradaMin)
	a.Salida = timeutil.TimeOfDay(salidaMin)
	a.ShiftName = &shiftName
	return a, nil
}

func collectAssignments(rows pgx.Rows) ([]schedule.Assignment, error) {
	var assignments []schedule.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
