package shift

import (
	"time"

	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

// Template is a reusable named shift definition ("turno"). Assignments
// instantiate it per user and weekday with their own windows; the template
// window is the default.
type Template struct {
	ID        string
	Name      string
	StartTime timeutil.TimeOfDay
	EndTime   timeutil.TimeOfDay
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Template) Window() timeutil.Window {
	return timeutil.Window{Start: t.StartTime, End: t.EndTime}
}

func (t Template) IsOvernight() bool {
	return t.Window().IsOvernight()
}

func (t Template) DurationMinutes() int {
	return t.Window().DurationMinutes()
}
