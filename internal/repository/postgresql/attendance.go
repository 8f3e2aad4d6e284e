package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asistia/asistencia-backend-go/internal/domain/attendance"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type attendanceRecordRepository struct {
	db *database.DB
}

func NewAttendanceRecordRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRecordRepository{db: db}
}

// Create implements attendance.RecordRepository. The unique index on
// (user_id, date, schedule_assignment_id) serializes concurrent entradas
// for the same triple; the loser surfaces ErrDuplicateOpenEntrada and the
// service re-reads to decide whether it was a replay.
func (r *attendanceRecordRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			user_id, date, schedule_assignment_id,
			entrada, entrada_method, salida, salida_method,
			status, is_late, late_minutes, worked_minutes, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.UserID,
		record.Date,
		record.ScheduleAssignmentID,
		record.Entrada,
		methodArg(record.EntradaMethod),
		record.Salida,
		methodArg(record.SalidaMethod),
		string(record.Status),
		record.IsLate,
		record.LateMinutes,
		record.WorkedMinutes,
		record.Notes,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Record{}, attendance.ErrDuplicateOpenEntrada
		}
		return attendance.Record{}, err
	}

	return record, nil
}

// GetByNaturalKey implements attendance.RecordRepository.
func (r *attendanceRecordRepository) GetByNaturalKey(ctx context.Context, userID string, date time.Time, scheduleAssignmentID *string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := selectRecord + `
		WHERE user_id = $1 AND date = $2
			AND schedule_assignment_id IS NOT DISTINCT FROM $3
	`

	record, err := scanRecord(q.QueryRow(ctx, query, userID, date, scheduleAssignmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record by natural key: %w", err)
	}
	return &record, nil
}

// GetOpenByUser implements attendance.RecordRepository.
func (r *attendanceRecordRepository) GetOpenByUser(ctx context.Context, userID string, scheduleAssignmentID *string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := selectRecord + `
		WHERE user_id = $1 AND entrada IS NOT NULL AND salida IS NULL
	`
	args := []interface{}{userID}
	if scheduleAssignmentID != nil {
		query += ` AND schedule_assignment_id = $2`
		args = append(args, *scheduleAssignmentID)
	}
	query += ` ORDER BY entrada DESC LIMIT 1`

	record, err := scanRecord(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance record: %w", err)
	}
	return &record, nil
}

// Update implements attendance.RecordRepository.
func (r *attendanceRecordRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET entrada = $1, entrada_method = $2, salida = $3, salida_method = $4,
			status = $5, is_late = $6, late_minutes = $7, worked_minutes = $8,
			notes = $9, updated_at = NOW()
		WHERE id = $10
	`

	tag, err := q.Exec(ctx, query,
		record.Entrada,
		methodArg(record.EntradaMethod),
		record.Salida,
		methodArg(record.SalidaMethod),
		string(record.Status),
		record.IsLate,
		record.LateMinutes,
		record.WorkedMinutes,
		record.Notes,
		record.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// GetByID implements attendance.RecordRepository.
func (r *attendanceRecordRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := selectRecord + ` WHERE id = $1`

	record, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}
	return record, nil
}

// List implements attendance.RecordRepository.
func (r *attendanceRecordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where += " AND user_id = $" + validator.Itoa(len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += " AND date >= $" + validator.Itoa(len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += " AND date <= $" + validator.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += " AND status = $" + validator.Itoa(len(args))
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM attendance_records" + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	query := selectRecord + where +
		" ORDER BY date DESC, entrada DESC NULLS LAST" +
		" LIMIT $" + validator.Itoa(limitPos) +
		" OFFSET $" + validator.Itoa(offsetPos)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
	}

	return records, total, rows.Err()
}

// GetStaleOpen implements attendance.RecordRepository.
func (r *attendanceRecordRepository) GetStaleOpen(ctx context.Context, before time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := selectRecord + `
		WHERE entrada IS NOT NULL AND salida IS NULL AND entrada < $1
		ORDER BY entrada
	`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale open records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale open record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// BulkCreateAbsences implements attendance.RecordRepository. ON CONFLICT DO
// NOTHING keeps the job idempotent: triples that already registered
// anything that day are left alone.
func (r *attendanceRecordRepository) BulkCreateAbsences(ctx context.Context, records []attendance.Record) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO attendance_records (user_id, date, schedule_assignment_id, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`

		for _, record := range records {
			_, err := q.Exec(txCtx, query,
				record.UserID,
				record.Date,
				record.ScheduleAssignmentID,
				string(record.Status),
			)
			if err != nil {
				return fmt.Errorf("failed to insert absence record: %w", err)
			}
		}
		return nil
	})
}

// Delete implements attendance.RecordRepository.
func (r *attendanceRecordRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// ListScheduledUserIDs implements attendance.RecordRepository.
func (r *attendanceRecordRepository) ListScheduledUserIDs(ctx context.Context, weekday string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT user_id
		FROM schedule_assignments
		WHERE weekday = $1 AND is_active
	`

	rows, err := q.Query(ctx, query, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled users: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, rows.Err()
}

const selectRecord = `
	SELECT id, user_id, date, schedule_assignment_id,
		entrada, entrada_method, salida, salida_method,
		status, is_late, late_minutes, worked_minutes, notes,
		created_at, updated_at
	FROM attendance_records
`

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var record attendance.Record
	var entradaMethod, salidaMethod, status *string
	err := row.Scan(
		&record.ID, &record.UserID, &record.Date, &record.ScheduleAssignmentID,
		&record.Entrada, &entradaMethod, &record.Salida, &salidaMethod,
		&status, &record.IsLate, &record.LateMinutes, &record.WorkedMinutes, &record.Notes,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	if entradaMethod != nil {
		m := attendance.Method(*entradaMethod)
		record.EntradaMethod = &m
	}
	if salidaMethod != nil {
		m := attendance.Method(*salidaMethod)
		record.SalidaMethod = &m
	}
	if status != nil {
		record.Status = attendance.Status(*status)
	}
	return record, nil
}

func methodArg(m *attendance.Method) *string {
	if m == nil {
		return nil
	}
	s := string(*m)
	return &s
}
