package device

import "github.com/asistia/asistencia-backend-go/internal/pkg/validator"

type RegisterDeviceRequest struct {
	Name   string `json:"name"`
	Serial string `json:"serial"`
	Secret string `json:"secret"`
}

func (r *RegisterDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Serial) {
		errs = append(errs, validator.ValidationError{
			Field:   "serial",
			Message: "serial is required",
		})
	}

	if len(r.Secret) < 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "secret",
			Message: "secret must be at least 12 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeviceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Serial   string `json:"serial"`
	IsActive bool   `json:"is_active"`
}
