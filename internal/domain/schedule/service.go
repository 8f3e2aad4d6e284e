package schedule

import (
	"context"

	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

// AssignmentService defines business logic for schedule authoring.
type AssignmentService interface {
	// Create validates the candidate against the shift catalog, the
	// duplicate-slot rule and the overlap invariant before persisting.
	Create(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)

	// CreateBulk validates the input list as an atomic set (entries may
	// not collide with each other or with pre-existing assignments) and
	// persists all-or-nothing.
	CreateBulk(ctx context.Context, req BulkCreateRequest) ([]AssignmentResponse, error)

	// Update re-runs the overlap check whenever entrada, salida or
	// weekday change.
	Update(ctx context.Context, req UpdateAssignmentRequest) (AssignmentResponse, error)

	ListByUser(ctx context.Context, userID string) ([]AssignmentResponse, error)

	// Delete removes an assignment no attendance record references.
	Delete(ctx context.Context, id string) error
}

// ActiveShiftResolver finds the assignment whose tolerance-expanded window
// contains the given clock time. A nil assignment with a nil error is the
// legitimate "no active shift" outcome, not a fault.
type ActiveShiftResolver interface {
	Resolve(ctx context.Context, userID string, weekday Weekday, clock timeutil.TimeOfDay) (*Assignment, error)
}
