package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/domain/shift"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

type AssignmentServiceImpl struct {
	db             *database.DB
	assignmentRepo schedule.AssignmentRepository
	templateRepo   shift.TemplateRepository
}

func NewAssignmentService(
	db *database.DB,
	assignmentRepo schedule.AssignmentRepository,
	templateRepo shift.TemplateRepository,
) schedule.AssignmentService {
	return &AssignmentServiceImpl{
		db:             db,
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
	}
}

// Create implements schedule.AssignmentService.
func (s *AssignmentServiceImpl) Create(ctx context.Context, req schedule.CreateAssignmentRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}

	candidate := req.Assignment()

	if err := s.validateCandidate(ctx, candidate, ""); err != nil {
		return schedule.AssignmentResponse{}, err
	}

	created, err := s.assignmentRepo.Create(ctx, candidate)
	if err != nil {
		return schedule.AssignmentResponse{}, fmt.Errorf("failed to create schedule assignment: %w", err)
	}

	return mapAssignmentToResponse(created), nil
}

// CreateBulk implements schedule.AssignmentService. The input list is
// validated as an atomic set before touching storage: two new entries may
// not collide with each other any more than with pre-existing state.
func (s *AssignmentServiceImpl) CreateBulk(ctx context.Context, req schedule.BulkCreateRequest) ([]schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidates := req.Assignments()

	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.Weekday != b.Weekday {
				continue
			}
			if a.ShiftTemplateID == b.ShiftTemplateID {
				return nil, schedule.ErrDuplicateSlot
			}
			if a.Window().Overlaps(b.Window()) {
				return nil, &schedule.OverlapError{
					ConflictWeekday: b.Weekday,
					ConflictWindow:  b.Window(),
				}
			}
		}
	}

	for _, candidate := range candidates {
		if err := s.validateCandidate(ctx, candidate, ""); err != nil {
			return nil, err
		}
	}

	created, err := s.assignmentRepo.CreateBulk(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk create schedule assignments: %w", err)
	}

	responses := make([]schedule.AssignmentResponse, 0, len(created))
	for _, a := range created {
		responses = append(responses, mapAssignmentToResponse(a))
	}
	return responses, nil
}

// Update implements schedule.AssignmentService.
func (s *AssignmentServiceImpl) Update(ctx context.Context, req schedule.UpdateAssignmentRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.AssignmentResponse{}, schedule.ErrScheduleNotFound
		}
		return schedule.AssignmentResponse{}, fmt.Errorf("failed to get schedule assignment: %w", err)
	}

	windowChanged := false
	weekdayChanged := false
	if req.Weekday != nil && schedule.Weekday(*req.Weekday) != assignment.Weekday {
		assignment.Weekday = schedule.Weekday(*req.Weekday)
		windowChanged = true
		weekdayChanged = true
	}
	if req.Entrada != nil {
		entrada, _ := timeutil.ParseTimeOfDay(*req.Entrada)
		if entrada != assignment.Entrada {
			assignment.Entrada = entrada
			windowChanged = true
		}
	}
	if req.Salida != nil {
		salida, _ := timeutil.ParseTimeOfDay(*req.Salida)
		if salida != assignment.Salida {
			assignment.Salida = salida
			windowChanged = true
		}
	}
	if req.RequiredMinutes != nil {
		assignment.RequiredMinutes = *req.RequiredMinutes
	}
	if req.ToleranceEntrada != nil {
		assignment.ToleranceEntrada = *req.ToleranceEntrada
	}
	if req.ToleranceSalida != nil {
		assignment.ToleranceSalida = *req.ToleranceSalida
	}
	reactivated := false
	if req.IsActive != nil {
		if *req.IsActive && !assignment.IsActive {
			reactivated = true
		}
		assignment.IsActive = *req.IsActive
	}

	// Moving to another weekday can land on an already occupied
	// (user, weekday, shift) slot; the assignment's own row sits on the
	// old weekday and cannot collide here.
	if weekdayChanged {
		exists, err := s.assignmentRepo.ExistsSlot(ctx, assignment.UserID, assignment.Weekday, assignment.ShiftTemplateID)
		if err != nil {
			return schedule.AssignmentResponse{}, fmt.Errorf("failed to check duplicate slot: %w", err)
		}
		if exists {
			return schedule.AssignmentResponse{}, schedule.ErrDuplicateSlot
		}
	}

	// Reactivation rejoins the assignment to the active set, so the
	// overlap invariant is re-checked exactly as for a window change.
	if windowChanged || reactivated {
		if err := s.validateCandidate(ctx, assignment, assignment.ID); err != nil {
			return schedule.AssignmentResponse{}, err
		}
	}

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return schedule.AssignmentResponse{}, fmt.Errorf("failed to update schedule assignment: %w", err)
	}

	return mapAssignmentToResponse(assignment), nil
}

// ListByUser implements schedule.AssignmentService.
func (s *AssignmentServiceImpl) ListByUser(ctx context.Context, userID string) ([]schedule.AssignmentResponse, error) {
	assignments, err := s.assignmentRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule assignments: %w", err)
	}

	responses := make([]schedule.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, mapAssignmentToResponse(a))
	}
	return responses, nil
}

// Delete implements schedule.AssignmentService.
func (s *AssignmentServiceImpl) Delete(ctx context.Context, id string) error {
	refs, err := s.assignmentRepo.CountAttendanceRefs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count attendance references: %w", err)
	}
	if refs > 0 {
		return schedule.ErrScheduleInUse
	}

	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to delete schedule assignment: %w", err)
	}
	return nil
}

// validateCandidate runs the authoring-time pipeline: shift existence,
// duplicate slot, degenerate window, then the overlap invariant against
// the user's other active assignments for the weekday. excludeID skips the
// assignment itself on updates.
func (s *AssignmentServiceImpl) validateCandidate(ctx context.Context, candidate schedule.Assignment, excludeID string) error {
	tpl, err := s.templateRepo.GetByID(ctx, candidate.ShiftTemplateID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return schedule.ErrShiftNotFound
		}
		return fmt.Errorf("failed to look up shift template: %w", err)
	}
	if !tpl.IsActive {
		return schedule.ErrShiftNotFound
	}

	if excludeID == "" {
		exists, err := s.assignmentRepo.ExistsSlot(ctx, candidate.UserID, candidate.Weekday, candidate.ShiftTemplateID)
		if err != nil {
			return fmt.Errorf("failed to check duplicate slot: %w", err)
		}
		if exists {
			return schedule.ErrDuplicateSlot
		}
	}

	if candidate.Entrada == candidate.Salida {
		return schedule.ErrDegenerateWindow
	}

	others, err := s.assignmentRepo.GetActiveByUserAndWeekday(ctx, candidate.UserID, candidate.Weekday)
	if err != nil {
		return fmt.Errorf("failed to load assignments for overlap check: %w", err)
	}

	for _, other := range others {
		if other.ID == excludeID {
			continue
		}
		if candidate.Window().Overlaps(other.Window()) {
			return &schedule.OverlapError{
				ConflictID:      other.ID,
				ConflictWeekday: other.Weekday,
				ConflictWindow:  other.Window(),
			}
		}
	}

	return nil
}

func mapAssignmentToResponse(a schedule.Assignment) schedule.AssignmentResponse {
	return schedule.AssignmentResponse{
		ID:               a.ID,
		UserID:           a.UserID,
		ShiftTemplateID:  a.ShiftTemplateID,
		ShiftName:        a.ShiftName,
		Weekday:          string(a.Weekday),
		Entrada:          a.Entrada.String(),
		Salida:           a.Salida.String(),
		RequiredMinutes:  a.RequiredMinutes,
		ToleranceEntrada: a.ToleranceEntrada,
		ToleranceSalida:  a.ToleranceSalida,
		IsOvernight:      a.IsOvernight(),
		IsActive:         a.IsActive,
	}
}
