package attendance

import (
	"time"
)

// Method classifies the channel an event arrived on. The core stores it
// but never branches on it.
type Method string

const (
	MethodFingerprint Method = "FINGERPRINT"
	MethodManual      Method = "MANUAL"
	MethodFacial      Method = "FACIAL"
)

var MethodValues = []string{
	string(MethodFingerprint),
	string(MethodManual),
	string(MethodFacial),
}

type Status string

const (
	StatusPresent   Status = "PRESENT"
	StatusAbsent    Status = "ABSENT"
	StatusLate      Status = "LATE"
	StatusJustified Status = "JUSTIFIED"
	StatusExcused   Status = "EXCUSED"
)

// Record is the canonical per-day, per-shift attendance row ("asistencia").
// Conceptually keyed by (user, date, schedule assignment); the assignment
// is nil for shiftless facial/manual fallback registrations.
type Record struct {
	ID                   string
	UserID               string
	Date                 time.Time
	ScheduleAssignmentID *string
	Entrada              *time.Time
	EntradaMethod        *Method
	Salida               *time.Time
	SalidaMethod         *Method
	Status               Status
	IsLate               bool
	LateMinutes          *int
	WorkedMinutes        *int
	Notes                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsOpen reports whether the record has an entrada and no salida yet.
func (r Record) IsOpen() bool {
	return r.Entrada != nil && r.Salida == nil
}

// IsClosed reports whether both entrada and salida are recorded.
func (r Record) IsClosed() bool {
	return r.Entrada != nil && r.Salida != nil
}
