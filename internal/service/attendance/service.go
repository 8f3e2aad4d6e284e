package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asistia/asistencia-backend-go/internal/domain/attendance"
	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

type LedgerServiceImpl struct {
	db             *database.DB
	recordRepo     attendance.RecordRepository
	assignmentRepo schedule.AssignmentRepository
	resolver       schedule.ActiveShiftResolver
	loc            *time.Location
	now            func() time.Time
}

func NewLedgerService(
	db *database.DB,
	recordRepo attendance.RecordRepository,
	assignmentRepo schedule.AssignmentRepository,
	resolver schedule.ActiveShiftResolver,
	loc *time.Location,
) attendance.LedgerService {
	return &LedgerServiceImpl{
		db:             db,
		recordRepo:     recordRepo,
		assignmentRepo: assignmentRepo,
		resolver:       resolver,
		loc:            loc,
		now:            time.Now,
	}
}

// RegisterEntrada implements attendance.LedgerService.
func (s *LedgerServiceImpl) RegisterEntrada(ctx context.Context, req attendance.RegisterRequest) (attendance.Outcome, error) {
	if err := req.Validate(); err != nil {
		return attendance.Outcome{}, err
	}

	eventUTC := s.eventTime(req)
	eventLocal := eventUTC.In(s.loc)
	clock := timeutil.FromTime(eventLocal)

	assignment, err := s.findAssignment(ctx, req, eventLocal)
	if err != nil {
		return attendance.Outcome{}, err
	}

	date := s.anchorDate(eventLocal, assignment)

	var assignmentID *string
	if assignment != nil {
		assignmentID = &assignment.ID
	}

	existing, err := s.recordRepo.GetByNaturalKey(ctx, req.UserID, date, assignmentID)
	if err != nil {
		return attendance.Outcome{}, fmt.Errorf("failed to read attendance record: %w", err)
	}
	if existing != nil {
		return s.entradaOnExisting(ctx, req, *existing, eventUTC, clock, assignment)
	}

	method := attendance.Method(req.Method)
	record := attendance.Record{
		UserID:               req.UserID,
		Date:                 date,
		ScheduleAssignmentID: assignmentID,
		Entrada:              &eventUTC,
		EntradaMethod:        &method,
		Status:               attendance.StatusPresent,
		Notes:                req.Notes,
	}
	applyLateness(&record, clock, assignment)

	created, err := withRetryResult(ctx, func() (attendance.Record, error) {
		return s.recordRepo.Create(ctx, record)
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateOpenEntrada) {
			// Lost the insert race for the natural key; the winning row
			// decides whether this is an idempotent replay.
			current, readErr := s.recordRepo.GetByNaturalKey(ctx, req.UserID, date, assignmentID)
			if readErr == nil && current != nil {
				return s.entradaOnExisting(ctx, req, *current, eventUTC, clock, assignment)
			}
			return attendance.Outcome{}, attendance.ErrDuplicateOpenEntrada
		}
		return attendance.Outcome{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return outcomeFrom(created), nil
}

// entradaOnExisting decides what an entrada event means against a row that
// already occupies the (user, date, shift) slot.
func (s *LedgerServiceImpl) entradaOnExisting(ctx context.Context, req attendance.RegisterRequest, existing attendance.Record, eventUTC time.Time, clock timeutil.TimeOfDay, assignment *schedule.Assignment) (attendance.Outcome, error) {
	if existing.IsOpen() {
		if isReplay(existing, req, eventUTC) {
			return outcomeFrom(existing), nil
		}
		return attendance.Outcome{}, attendance.ErrDuplicateOpenEntrada
	}
	if existing.IsClosed() {
		return attendance.Outcome{}, attendance.ErrRecordAlreadyClosed
	}

	// Row exists without an entrada (closeout marked the user absent, or a
	// justification was recorded ahead of time): the entrada fills it in.
	method := attendance.Method(req.Method)
	existing.Entrada = &eventUTC
	existing.EntradaMethod = &method
	existing.Status = attendance.StatusPresent
	applyLateness(&existing, clock, assignment)
	appendNotes(&existing, req.Notes)

	if err := withRetry(ctx, func() error {
		return s.recordRepo.Update(ctx, existing)
	}); err != nil {
		return attendance.Outcome{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return outcomeFrom(existing), nil
}

// RegisterSalida implements attendance.LedgerService.
func (s *LedgerServiceImpl) RegisterSalida(ctx context.Context, req attendance.RegisterRequest) (attendance.Outcome, error) {
	if err := req.Validate(); err != nil {
		return attendance.Outcome{}, err
	}

	eventUTC := s.eventTime(req)
	eventLocal := eventUTC.In(s.loc)

	open, err := s.recordRepo.GetOpenByUser(ctx, req.UserID, req.ScheduleAssignmentID)
	if err != nil {
		return attendance.Outcome{}, fmt.Errorf("failed to look up open attendance record: %w", err)
	}
	if open == nil {
		// A salida with nothing open is rejected, never converted into an
		// entrada.
		return attendance.Outcome{}, attendance.ErrNoOpenEntrada
	}

	// Worked minutes come from the actual clock values of entrada and
	// salida; a salida numerically before the entrada crossed midnight.
	entradaClock := timeutil.FromTime(open.Entrada.In(s.loc))
	salidaClock := timeutil.FromTime(eventLocal)
	worked := salidaClock.Minutes() - entradaClock.Minutes()
	if worked < 0 {
		worked += timeutil.MinutesPerDay
	}

	method := attendance.Method(req.Method)
	open.Salida = &eventUTC
	open.SalidaMethod = &method
	open.WorkedMinutes = &worked
	appendNotes(open, req.Notes)

	if err := withRetry(ctx, func() error {
		return s.recordRepo.Update(ctx, *open)
	}); err != nil {
		return attendance.Outcome{}, fmt.Errorf("failed to close attendance record: %w", err)
	}

	return outcomeFrom(*open), nil
}

// Get implements attendance.LedgerService.
func (s *LedgerServiceImpl) Get(ctx context.Context, id string) (attendance.RecordResponse, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return mapRecordToResponse(record), nil
}

// List implements attendance.LedgerService.
func (s *LedgerServiceImpl) List(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, mapRecordToResponse(r))
	}

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    responses,
	}, nil
}

// Delete implements attendance.LedgerService.
func (s *LedgerServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.recordRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	return nil
}

func (s *LedgerServiceImpl) eventTime(req attendance.RegisterRequest) time.Time {
	if req.EventTimestamp != nil {
		return req.EventTimestamp.UTC().Truncate(time.Second)
	}
	return s.now().UTC().Truncate(time.Second)
}

// findAssignment selects the schedule this event belongs to: an explicit
// shift id wins; otherwise the resolver scans the user's windows. A nil
// assignment is the shiftless fallback, not an error.
func (s *LedgerServiceImpl) findAssignment(ctx context.Context, req attendance.RegisterRequest, eventLocal time.Time) (*schedule.Assignment, error) {
	if req.ScheduleAssignmentID != nil {
		assignment, err := s.assignmentRepo.GetByID(ctx, *req.ScheduleAssignmentID)
		if err != nil {
			if errors.Is(err, schedule.ErrScheduleNotFound) {
				return nil, schedule.ErrScheduleNotFound
			}
			return nil, fmt.Errorf("failed to get schedule assignment: %w", err)
		}
		return &assignment, nil
	}

	weekday := schedule.WeekdayFromTime(eventLocal.Weekday())
	assignment, err := s.resolver.Resolve(ctx, req.UserID, weekday, timeutil.FromTime(eventLocal))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active shift: %w", err)
	}
	return assignment, nil
}

// anchorDate returns the work day the event belongs to. An after-midnight
// event matched to the previous weekday's overnight assignment anchors to
// the entrada's calendar day, not the event's.
func (s *LedgerServiceImpl) anchorDate(eventLocal time.Time, assignment *schedule.Assignment) time.Time {
	day := time.Date(eventLocal.Year(), eventLocal.Month(), eventLocal.Day(), 0, 0, 0, 0, time.UTC)
	if assignment == nil {
		return day
	}

	eventWeekday := schedule.WeekdayFromTime(eventLocal.Weekday())
	if assignment.Weekday == eventWeekday.Previous() && assignment.IsOvernight() {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// applyLateness computes the entrada punctuality fields. Arrivals within
// the entry tolerance are recorded as on time with zero late minutes; once
// past the tolerance, the full distance from the scheduled entrada counts.
func applyLateness(record *attendance.Record, clock timeutil.TimeOfDay, assignment *schedule.Assignment) {
	zero := 0
	record.IsLate = false
	record.LateMinutes = &zero
	if assignment == nil {
		return
	}

	delta, _ := timeutil.ClockDelta(assignment.Entrada, clock)
	if delta <= 0 {
		return
	}
	if delta > assignment.ToleranceEntrada {
		record.IsLate = true
		record.LateMinutes = &delta
		record.Status = attendance.StatusLate
	}
}

// isReplay reports whether the entrada event is a resubmission of the one
// already applied: same method and same event timestamp.
func isReplay(existing attendance.Record, req attendance.RegisterRequest, eventUTC time.Time) bool {
	if existing.Entrada == nil || existing.EntradaMethod == nil {
		return false
	}
	return *existing.EntradaMethod == attendance.Method(req.Method) &&
		existing.Entrada.Equal(eventUTC)
}

// appendNotes adds the supplied notes to whatever is already on the
// record instead of overwriting.
func appendNotes(record *attendance.Record, notes *string) {
	if notes == nil || *notes == "" {
		return
	}
	if record.Notes == nil || *record.Notes == "" {
		record.Notes = notes
		return
	}
	merged := *record.Notes + "\n" + *notes
	record.Notes = &merged
}

func outcomeFrom(record attendance.Record) attendance.Outcome {
	out := attendance.Outcome{
		RecordID:    record.ID,
		Status:      string(record.Status),
		IsLate:      record.IsLate,
		LateMinutes: record.LateMinutes,
	}
	if record.WorkedMinutes != nil {
		out.WorkedMinutes = record.WorkedMinutes
		formatted := fmt.Sprintf("%dh %02dm", *record.WorkedMinutes/60, *record.WorkedMinutes%60)
		out.FormattedDuration = &formatted
	}
	return out
}

func mapRecordToResponse(r attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:                   r.ID,
		UserID:               r.UserID,
		Date:                 r.Date.Format("2006-01-02"),
		ScheduleAssignmentID: r.ScheduleAssignmentID,
		Status:               string(r.Status),
		IsLate:               r.IsLate,
		LateMinutes:          r.LateMinutes,
		WorkedMinutes:        r.WorkedMinutes,
		Notes:                r.Notes,
	}
	if r.Entrada != nil {
		v := r.Entrada.Format(time.RFC3339)
		resp.Entrada = &v
	}
	if r.EntradaMethod != nil {
		v := string(*r.EntradaMethod)
		resp.EntradaMethod = &v
	}
	if r.Salida != nil {
		v := r.Salida.Format(time.RFC3339)
		resp.Salida = &v
	}
	if r.SalidaMethod != nil {
		v := string(*r.SalidaMethod)
		resp.SalidaMethod = &v
	}
	return resp
}
