package schedule

import "context"

type AssignmentRepository interface {
	Create(ctx context.Context, assignment Assignment) (Assignment, error)
	// CreateBulk persists the whole batch in one transaction; on any
	// failure nothing is written.
	CreateBulk(ctx context.Context, assignments []Assignment) ([]Assignment, error)
	GetByID(ctx context.Context, id string) (Assignment, error)
	GetByUser(ctx context.Context, userID string) ([]Assignment, error)
	// GetActiveByUserAndWeekday returns the active assignments the overlap
	// check and the resolver scan against.
	GetActiveByUserAndWeekday(ctx context.Context, userID string, weekday Weekday) ([]Assignment, error)
	// ExistsSlot reports whether an assignment already exists for the
	// exact (user, weekday, shift) triple.
	ExistsSlot(ctx context.Context, userID string, weekday Weekday, shiftTemplateID string) (bool, error)
	Update(ctx context.Context, assignment Assignment) error
	// CountAttendanceRefs reports how many attendance records reference
	// the assignment; deletion is blocked while it is non-zero.
	CountAttendanceRefs(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}
