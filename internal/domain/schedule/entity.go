package schedule

import (
	"time"

	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

// Weekday is the closed seven-value enumeration persisted with each
// assignment.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var WeekdayValues = []string{
	string(Monday),
	string(Tuesday),
	string(Wednesday),
	string(Thursday),
	string(Friday),
	string(Saturday),
	string(Sunday),
}

// WeekdayFromTime maps a time.Weekday to the persisted enumeration.
func WeekdayFromTime(d time.Weekday) Weekday {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Previous returns the preceding weekday, used when an after-midnight event
// belongs to the prior day's overnight shift.
func (w Weekday) Previous() Weekday {
	switch w {
	case Monday:
		return Sunday
	case Tuesday:
		return Monday
	case Wednesday:
		return Tuesday
	case Thursday:
		return Wednesday
	case Friday:
		return Thursday
	case Saturday:
		return Friday
	default:
		return Saturday
	}
}

// Assignment is a user-specific, weekday-specific instantiation of a shift
// template ("horario"): its own entrada/salida window, required minutes and
// lateness tolerances.
type Assignment struct {
	ID               string
	UserID           string
	ShiftTemplateID  string
	Weekday          Weekday
	Entrada          timeutil.TimeOfDay
	Salida           timeutil.TimeOfDay
	RequiredMinutes  int
	ToleranceEntrada int
	ToleranceSalida  int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	ShiftName *string
}

func (a Assignment) Window() timeutil.Window {
	return timeutil.Window{Start: a.Entrada, End: a.Salida}
}

func (a Assignment) IsOvernight() bool {
	return a.Window().IsOvernight()
}
