package shift

import (
	"context"
	"errors"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/domain/shift"
	"github.com/asistia/asistencia-backend-go/internal/pkg/database"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type TemplateServiceImpl struct {
	db           *database.DB
	templateRepo shift.TemplateRepository
}

func NewTemplateService(db *database.DB, templateRepo shift.TemplateRepository) shift.TemplateService {
	return &TemplateServiceImpl{
		db:           db,
		templateRepo: templateRepo,
	}
}

// Create implements shift.TemplateService.
func (s *TemplateServiceImpl) Create(ctx context.Context, req shift.CreateTemplateRequest) (shift.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.TemplateResponse{}, err
	}

	start, _ := timeutil.ParseTimeOfDay(req.StartTime)
	end, _ := timeutil.ParseTimeOfDay(req.EndTime)

	if start == end {
		return shift.TemplateResponse{}, shift.ErrDegenerateWindow
	}

	created, err := s.templateRepo.Create(ctx, shift.Template{
		Name:      req.Name,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	})
	if err != nil {
		// The unique constraint on name closes the check-then-act race
		// between concurrent creators.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.TemplateResponse{}, shift.ErrShiftNameExists
		}
		return shift.TemplateResponse{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return mapTemplateToResponse(created), nil
}

// Get implements shift.TemplateService.
func (s *TemplateServiceImpl) Get(ctx context.Context, id string) (shift.TemplateResponse, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, shift.ErrShiftNotFound) {
			return shift.TemplateResponse{}, shift.ErrShiftNotFound
		}
		return shift.TemplateResponse{}, fmt.Errorf("failed to get shift template: %w", err)
	}
	return mapTemplateToResponse(tpl), nil
}

// List implements shift.TemplateService.
func (s *TemplateServiceImpl) List(ctx context.Context, activeOnly bool) ([]shift.TemplateResponse, error) {
	templates, err := s.templateRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}

	responses := make([]shift.TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		responses = append(responses, mapTemplateToResponse(tpl))
	}
	return responses, nil
}

// Update implements shift.TemplateService.
func (s *TemplateServiceImpl) Update(ctx context.Context, req shift.UpdateTemplateRequest) (shift.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.TemplateResponse{}, err
	}

	tpl, err := s.templateRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.TemplateResponse{}, shift.ErrShiftNotFound
		}
		return shift.TemplateResponse{}, fmt.Errorf("failed to get shift template: %w", err)
	}

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.StartTime != nil {
		start, _ := timeutil.ParseTimeOfDay(*req.StartTime)
		tpl.StartTime = start
	}
	if req.EndTime != nil {
		end, _ := timeutil.ParseTimeOfDay(*req.EndTime)
		tpl.EndTime = end
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if tpl.StartTime == tpl.EndTime {
		return shift.TemplateResponse{}, shift.ErrDegenerateWindow
	}

	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shift.TemplateResponse{}, shift.ErrShiftNameExists
		}
		return shift.TemplateResponse{}, fmt.Errorf("failed to update shift template: %w", err)
	}

	return mapTemplateToResponse(tpl), nil
}

// Retire implements shift.TemplateService.
func (s *TemplateServiceImpl) Retire(ctx context.Context, id string) error {
	refs, err := s.templateRepo.CountActiveAssignments(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count assignments for shift template: %w", err)
	}
	if refs > 0 {
		return shift.ErrShiftInUse
	}

	if err := s.templateRepo.Retire(ctx, id); err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to retire shift template: %w", err)
	}
	return nil
}

func mapTemplateToResponse(tpl shift.Template) shift.TemplateResponse {
	return shift.TemplateResponse{
		ID:              tpl.ID,
		Name:            tpl.Name,
		StartTime:       tpl.StartTime.String(),
		EndTime:         tpl.EndTime.String(),
		IsActive:        tpl.IsActive,
		IsOvernight:     tpl.IsOvernight(),
		DurationMinutes: tpl.DurationMinutes(),
		CreatedAt:       tpl.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       tpl.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
