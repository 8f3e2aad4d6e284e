package schedule

import (
	"errors"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

// Schedule domain errors
var (
	ErrScheduleNotFound    = errors.New("schedule assignment not found")
	ErrShiftNotFound       = errors.New("referenced shift template not found")
	ErrDuplicateSlot       = errors.New("an assignment already exists for this user, weekday and shift")
	ErrDegenerateWindow    = errors.New("entrada and salida times must differ")
	ErrScheduleInUse       = errors.New("schedule assignment has attendance records and cannot be deleted")
	ErrOverlappingSchedule = errors.New("overlapping schedule detected")
	ErrInvalidWeekday      = errors.New("weekday must be one of MONDAY..SUNDAY")
)

// OverlapError reports the bounds of the window the candidate collided
// with, so callers can surface the conflict without re-querying.
type OverlapError struct {
	ConflictID      string
	ConflictWeekday Weekday
	ConflictWindow  timeutil.Window
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping schedule: conflicts with assignment %s (%s %s-%s)",
		e.ConflictID, e.ConflictWeekday, e.ConflictWindow.Start, e.ConflictWindow.End)
}

// Is makes every OverlapError match ErrOverlappingSchedule.
func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlappingSchedule
}
