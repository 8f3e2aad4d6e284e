package schedule

import (
	"errors"

	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/asistia/asistencia-backend-go/internal/pkg/validator"
)

// DefaultToleranceMinutes is the per-assignment lateness grace period
// applied when a request leaves the tolerances unset.
const DefaultToleranceMinutes = 15

type CreateAssignmentRequest struct {
	UserID           string `json:"user_id"`
	ShiftTemplateID  string `json:"shift_template_id"`
	Weekday          string `json:"weekday"`
	Entrada          string `json:"entrada"`
	Salida           string `json:"salida"`
	RequiredMinutes  int    `json:"required_minutes"`
	ToleranceEntrada *int   `json:"tolerance_entrada"`
	ToleranceSalida  *int   `json:"tolerance_salida"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.ShiftTemplateID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_template_id",
			Message: "shift_template_id is required",
		})
	}

	if !validator.IsInSlice(r.Weekday, WeekdayValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "weekday",
			Message: "weekday must be one of MONDAY..SUNDAY",
		})
	}

	if _, err := timeutil.ParseTimeOfDay(r.Entrada); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "entrada",
			Message: "entrada must be a clock time in HH:MM format",
		})
	}

	if _, err := timeutil.ParseTimeOfDay(r.Salida); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "salida",
			Message: "salida must be a clock time in HH:MM format",
		})
	}

	if r.RequiredMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "required_minutes",
			Message: "required_minutes must not be negative",
		})
	}

	if r.ToleranceEntrada != nil && *r.ToleranceEntrada < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "tolerance_entrada",
			Message: "tolerance_entrada must not be negative",
		})
	}

	if r.ToleranceSalida != nil && *r.ToleranceSalida < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "tolerance_salida",
			Message: "tolerance_salida must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Assignment converts the validated request into an entity, applying
// tolerance defaults. Call only after Validate.
func (r *CreateAssignmentRequest) Assignment() Assignment {
	entrada, _ := timeutil.ParseTimeOfDay(r.Entrada)
	salida, _ := timeutil.ParseTimeOfDay(r.Salida)

	tolEntrada := DefaultToleranceMinutes
	if r.ToleranceEntrada != nil {
		tolEntrada = *r.ToleranceEntrada
	}
	tolSalida := DefaultToleranceMinutes
	if r.ToleranceSalida != nil {
		tolSalida = *r.ToleranceSalida
	}

	return Assignment{
		UserID:           r.UserID,
		ShiftTemplateID:  r.ShiftTemplateID,
		Weekday:          Weekday(r.Weekday),
		Entrada:          entrada,
		Salida:           salida,
		RequiredMinutes:  r.RequiredMinutes,
		ToleranceEntrada: tolEntrada,
		ToleranceSalida:  tolSalida,
		IsActive:         true,
	}
}

type BulkCreateRequest struct {
	UserID  string                `json:"user_id"`
	Entries []BulkAssignmentEntry `json:"entries"`
}

type BulkAssignmentEntry struct {
	ShiftTemplateID  string `json:"shift_template_id"`
	Weekday          string `json:"weekday"`
	Entrada          string `json:"entrada"`
	Salida           string `json:"salida"`
	RequiredMinutes  int    `json:"required_minutes"`
	ToleranceEntrada *int   `json:"tolerance_entrada"`
	ToleranceSalida  *int   `json:"tolerance_salida"`
}

func (r *BulkCreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "entries",
			Message: "at least one entry is required",
		})
	}

	for i, e := range r.Entries {
		single := CreateAssignmentRequest{
			UserID:           r.UserID,
			ShiftTemplateID:  e.ShiftTemplateID,
			Weekday:          e.Weekday,
			Entrada:          e.Entrada,
			Salida:           e.Salida,
			RequiredMinutes:  e.RequiredMinutes,
			ToleranceEntrada: e.ToleranceEntrada,
			ToleranceSalida:  e.ToleranceSalida,
		}
		if err := single.Validate(); err != nil {
			var entryErrs validator.ValidationErrors
			if errors.As(err, &entryErrs) {
				for _, fe := range entryErrs {
					errs = append(errs, validator.ValidationError{
						Field:   "entries[" + validator.Itoa(i) + "]." + fe.Field,
						Message: fe.Message,
					})
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Assignments converts the validated bulk request into entities. Call only
// after Validate.
func (r *BulkCreateRequest) Assignments() []Assignment {
	out := make([]Assignment, 0, len(r.Entries))
	for _, e := range r.Entries {
		single := CreateAssignmentRequest{
			UserID:           r.UserID,
			ShiftTemplateID:  e.ShiftTemplateID,
			Weekday:          e.Weekday,
			Entrada:          e.Entrada,
			Salida:           e.Salida,
			RequiredMinutes:  e.RequiredMinutes,
			ToleranceEntrada: e.ToleranceEntrada,
			ToleranceSalida:  e.ToleranceSalida,
		}
		out = append(out, single.Assignment())
	}
	return out
}

type UpdateAssignmentRequest struct {
	ID               string  `json:"-"`
	Weekday          *string `json:"weekday"`
	Entrada          *string `json:"entrada"`
	Salida           *string `json:"salida"`
	RequiredMinutes  *int    `json:"required_minutes"`
	ToleranceEntrada *int    `json:"tolerance_entrada"`
	ToleranceSalida  *int    `json:"tolerance_salida"`
	IsActive         *bool   `json:"is_active"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Weekday != nil && !validator.IsInSlice(*r.Weekday, WeekdayValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "weekday",
			Message: "weekday must be one of MONDAY..SUNDAY",
		})
	}

	if r.Entrada != nil {
		if _, err := timeutil.ParseTimeOfDay(*r.Entrada); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "entrada",
				Message: "entrada must be a clock time in HH:MM format",
			})
		}
	}

	if r.Salida != nil {
		if _, err := timeutil.ParseTimeOfDay(*r.Salida); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "salida",
				Message: "salida must be a clock time in HH:MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID               string  `json:"id"`
	UserID           string  `json:"user_id"`
	ShiftTemplateID  string  `json:"shift_template_id"`
	ShiftName        *string `json:"shift_name,omitempty"`
	Weekday          string  `json:"weekday"`
	Entrada          string  `json:"entrada"`
	Salida           string  `json:"salida"`
	RequiredMinutes  int     `json:"required_minutes"`
	ToleranceEntrada int     `json:"tolerance_entrada"`
	ToleranceSalida  int     `json:"tolerance_salida"`
	IsOvernight      bool    `json:"is_overnight"`
	IsActive         bool    `json:"is_active"`
}
