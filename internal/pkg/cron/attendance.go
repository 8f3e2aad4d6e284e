package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asistia/asistencia-backend-go/internal/domain/attendance"
	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

// AttendanceJobs owns the end-of-day ledger closeout: auto-closing open
// entradas whose shift ended long ago, and marking scheduled users who
// never registered as absent.
type AttendanceJobs struct {
	recordRepo     attendance.RecordRepository
	assignmentRepo schedule.AssignmentRepository
	loc            *time.Location
	grace          time.Duration
	now            func() time.Time
}

func NewAttendanceJobs(
	recordRepo attendance.RecordRepository,
	assignmentRepo schedule.AssignmentRepository,
	loc *time.Location,
	graceHours int,
) *AttendanceJobs {
	if graceHours <= 0 {
		graceHours = 2
	}
	return &AttendanceJobs{
		recordRepo:     recordRepo,
		assignmentRepo: assignmentRepo,
		loc:            loc,
		grace:          time.Duration(graceHours) * time.Hour,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_open_entradas", 1*time.Hour, j.CloseStaleOpenEntradas)
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
}

// CloseStaleOpenEntradas closes open records once the grace period after
// their scheduled salida has elapsed, crediting worked time up to the
// scheduled salida only. Shiftless records have no scheduled salida; they
// are closed with zero worked minutes after a full day.
func (j *AttendanceJobs) CloseStaleOpenEntradas(ctx context.Context) error {
	now := j.now()

	// No record can be closable sooner than the grace period after its
	// entrada, so this prefilter is safe and keeps the scan small.
	stale, err := j.recordRepo.GetStaleOpen(ctx, now.Add(-j.grace))
	if err != nil {
		return fmt.Errorf("failed to get stale open records: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	closedCount := 0
	for _, record := range stale {
		salida, worked, ok := j.closeoutPoint(ctx, record, now)
		if !ok {
			continue
		}

		record.Salida = &salida
		record.WorkedMinutes = &worked
		note := "Auto-closed: no salida registered within the grace period after the scheduled shift end."
		if record.Notes != nil && *record.Notes != "" {
			note = *record.Notes + "\n" + note
		}
		record.Notes = &note

		if err := j.recordRepo.Update(ctx, record); err != nil {
			slog.Error("Cron: failed to auto-close attendance record",
				"record_id", record.ID,
				"user_id", record.UserID,
				"error", err)
			continue
		}
		closedCount++
	}

	if closedCount > 0 {
		slog.Info("Cron: auto-closed stale open entradas", "count", closedCount)
	}
	return nil
}

// closeoutPoint determines where to close an open record: the scheduled
// salida timestamp for scheduled records, the entrada itself for shiftless
// ones. ok is false while the record is not yet due.
func (j *AttendanceJobs) closeoutPoint(ctx context.Context, record attendance.Record, now time.Time) (time.Time, int, bool) {
	if record.ScheduleAssignmentID == nil {
		if now.Sub(*record.Entrada) < 24*time.Hour {
			return time.Time{}, 0, false
		}
		return *record.Entrada, 0, true
	}

	assignment, err := j.assignmentRepo.GetByID(ctx, *record.ScheduleAssignmentID)
	if err != nil {
		slog.Error("Cron: failed to load assignment for closeout",
			"record_id", record.ID,
			"assignment_id", *record.ScheduleAssignmentID,
			"error", err)
		return time.Time{}, 0, false
	}

	// The record date is the entrada's work day; an overnight salida lands
	// on the following calendar day.
	scheduledSalida := time.Date(
		record.Date.Year(), record.Date.Month(), record.Date.Day(),
		assignment.Salida.Minutes()/60, assignment.Salida.Minutes()%60, 0, 0,
		j.loc,
	)
	if assignment.IsOvernight() {
		scheduledSalida = scheduledSalida.AddDate(0, 0, 1)
	}

	if now.Before(scheduledSalida.Add(j.grace)) {
		return time.Time{}, 0, false
	}

	salidaUTC := scheduledSalida.UTC()
	entradaClock := timeutil.FromTime(record.Entrada.In(j.loc))
	worked := assignment.Salida.Minutes() - entradaClock.Minutes()
	if worked < 0 {
		worked += timeutil.MinutesPerDay
	}
	return salidaUTC, worked, true
}

// MarkAbsentUsers inserts ABSENT records for every active assignment of
// the previous day that never saw an entrada. Runs within the first hour
// after local midnight; the unique natural key makes reruns idempotent.
func (j *AttendanceJobs) MarkAbsentUsers(ctx context.Context) error {
	nowLocal := j.now().In(j.loc)
	if nowLocal.Hour() != 0 {
		return nil
	}

	yesterday := nowLocal.AddDate(0, 0, -1)
	date := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	weekday := schedule.WeekdayFromTime(yesterday.Weekday())

	userIDs, err := j.recordRepo.ListScheduledUserIDs(ctx, string(weekday))
	if err != nil {
		return fmt.Errorf("failed to list scheduled users: %w", err)
	}

	var absences []attendance.Record
	for _, userID := range userIDs {
		assignments, err := j.assignmentRepo.GetActiveByUserAndWeekday(ctx, userID, weekday)
		if err != nil {
			slog.Error("Cron: failed to load assignments", "user_id", userID, "error", err)
			continue
		}
		for _, assignment := range assignments {
			assignmentID := assignment.ID
			absences = append(absences, attendance.Record{
				UserID:               userID,
				Date:                 date,
				ScheduleAssignmentID: &assignmentID,
				Status:               attendance.StatusAbsent,
			})
		}
	}

	if len(absences) == 0 {
		return nil
	}

	if err := j.recordRepo.BulkCreateAbsences(ctx, absences); err != nil {
		return fmt.Errorf("failed to bulk create absences: %w", err)
	}

	slog.Info("Cron: marked absent users", "date", date.Format("2006-01-02"), "count", len(absences))
	return nil
}
