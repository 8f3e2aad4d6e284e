package attendance

import (
	"time"

	"github.com/asistia/asistencia-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	UserID               string     `json:"user_id"`
	ScheduleAssignmentID *string    `json:"schedule_assignment_id"`
	Method               string     `json:"method"`
	EventTimestamp       *time.Time `json:"event_timestamp"`
	Notes                *string    `json:"notes"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if !validator.IsInSlice(r.Method, MethodValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of FINGERPRINT, MANUAL, FACIAL",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Outcome is the result of a successful ledger transition.
type Outcome struct {
	RecordID          string  `json:"record_id"`
	Status            string  `json:"status"`
	IsLate            bool    `json:"is_late"`
	LateMinutes       *int    `json:"late_minutes,omitempty"`
	WorkedMinutes     *int    `json:"worked_minutes,omitempty"`
	FormattedDuration *string `json:"formatted_duration,omitempty"`
}

type RecordFilter struct {
	UserID    *string
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
}

type RecordResponse struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	Date                 string  `json:"date"`
	ScheduleAssignmentID *string `json:"schedule_assignment_id,omitempty"`
	Entrada              *string `json:"entrada,omitempty"`
	EntradaMethod        *string `json:"entrada_method,omitempty"`
	Salida               *string `json:"salida,omitempty"`
	SalidaMethod         *string `json:"salida_method,omitempty"`
	Status               string  `json:"status"`
	IsLate               bool    `json:"is_late"`
	LateMinutes          *int    `json:"late_minutes,omitempty"`
	WorkedMinutes        *int    `json:"worked_minutes,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Records    []RecordResponse `json:"records"`
}
