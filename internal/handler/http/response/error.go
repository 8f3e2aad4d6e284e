package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/asistia/asistencia-backend-go/internal/domain/attendance"
	"github.com/asistia/asistencia-backend-go/internal/domain/device"
	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/domain/shift"
	"github.com/asistia/asistencia-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Overlap conflicts carry the bounds of the colliding window so the
	// client can show which existing assignment is in the way.
	var overlapErr *schedule.OverlapError
	if errors.As(err, &overlapErr) {
		Conflict(w, fmt.Sprintf("Overlapping schedule: conflicts with an existing %s assignment %s-%s",
			overlapErr.ConflictWeekday, overlapErr.ConflictWindow.Start, overlapErr.ConflictWindow.End))
		return
	}

	switch {
	// Shift catalog
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift template not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "A shift template with that name already exists")
	case errors.Is(err, shift.ErrDegenerateWindow),
		errors.Is(err, schedule.ErrDegenerateWindow):
		BadRequest(w, "Start and end time must differ", nil)
	case errors.Is(err, shift.ErrShiftInUse):
		Conflict(w, "Shift template is referenced by active schedule assignments")

	// Schedule assignments
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule assignment not found")
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Referenced shift template not found")
	case errors.Is(err, schedule.ErrDuplicateSlot):
		Conflict(w, "An assignment already exists for this user, weekday and shift")
	case errors.Is(err, schedule.ErrOverlappingSchedule):
		Conflict(w, "Overlapping schedule detected")
	case errors.Is(err, schedule.ErrScheduleInUse):
		Conflict(w, "Schedule assignment has attendance records and cannot be deleted")

	// Attendance ledger
	case errors.Is(err, attendance.ErrDuplicateOpenEntrada):
		Conflict(w, "An open entrada already exists for this user, date and shift")
	case errors.Is(err, attendance.ErrNoOpenEntrada):
		Conflict(w, "No open entrada to register a salida against")
	case errors.Is(err, attendance.ErrRecordAlreadyClosed):
		Conflict(w, "Attendance record is already closed")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidMethod):
		BadRequest(w, "Method must be one of FINGERPRINT, MANUAL, FACIAL", nil)

	// Device registry
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, device.ErrSerialExists):
		Conflict(w, "A device with this serial is already registered")
	case errors.Is(err, device.ErrInvalidCredentials):
		Unauthorized(w, "Invalid device credentials")
	case errors.Is(err, device.ErrDeviceInactive):
		Forbidden(w, "Device is deactivated")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
