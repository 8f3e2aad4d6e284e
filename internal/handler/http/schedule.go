package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/handler/http/response"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/asistia/asistencia-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	CreateBulk(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ListByUser(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.AssignmentService
	resolver        schedule.ActiveShiftResolver
	loc             *time.Location
}

func NewScheduleHandler(scheduleService schedule.AssignmentService, resolver schedule.ActiveShiftResolver, loc *time.Location) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
		resolver:        resolver,
		loc:             loc,
	}
}

// Create implements ScheduleHandler.
func (h *scheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule assignment created", result)
}

// CreateBulk implements ScheduleHandler.
func (h *scheduleHandlerImpl) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var req schedule.BulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.scheduleService.CreateBulk(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule assignments created", result)
}

// Update implements ScheduleHandler.
func (h *scheduleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req schedule.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.scheduleService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByUser implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := h.scheduleService.ListByUser(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete implements ScheduleHandler.
func (h *scheduleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.scheduleService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

type activeShiftResponse struct {
	Active     bool                         `json:"active"`
	Assignment *schedule.AssignmentResponse `json:"assignment,omitempty"`
}

// Active resolves which of the user's shifts, if any, is active at the
// given instant. `at` defaults to now; a null assignment with 200 is the
// legitimate "no active shift" answer.
func (h *scheduleHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if validator.IsEmpty(userID) {
		response.BadRequest(w, "Query parameter 'user_id' is required", nil)
		return
	}

	at := time.Now()
	if atParam := r.URL.Query().Get("at"); atParam != "" {
		parsed, ok := validator.IsValidDateTime(atParam)
		if !ok {
			response.BadRequest(w, "Query parameter 'at' must be an RFC3339 timestamp", nil)
			return
		}
		at = parsed
	}

	atLocal := at.In(h.loc)
	weekday := schedule.WeekdayFromTime(atLocal.Weekday())

	assignment, err := h.resolver.Resolve(r.Context(), userID, weekday, timeutil.FromTime(atLocal))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if assignment == nil {
		response.Success(w, activeShiftResponse{Active: false})
		return
	}

	resp := schedule.AssignmentResponse{
		ID:               assignment.ID,
		UserID:           assignment.UserID,
		ShiftTemplateID:  assignment.ShiftTemplateID,
		ShiftName:        assignment.ShiftName,
		Weekday:          string(assignment.Weekday),
		Entrada:          assignment.Entrada.String(),
		Salida:           assignment.Salida.String(),
		RequiredMinutes:  assignment.RequiredMinutes,
		ToleranceEntrada: assignment.ToleranceEntrada,
		ToleranceSalida:  assignment.ToleranceSalida,
		IsOvernight:      assignment.IsOvernight(),
		IsActive:         assignment.IsActive,
	}
	response.Success(w, activeShiftResponse{Active: true, Assignment: &resp})
}
