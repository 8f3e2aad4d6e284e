package attendance

import (
	"context"
	"time"
)

type RecordRepository interface {
	// Create inserts a record; the store enforces the (user, date, shift)
	// natural key with a unique constraint and returns ErrDuplicateOpenEntrada
	// on a violation so concurrent entradas for the same triple serialize.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByNaturalKey returns the record for the triple, or nil when none
	// exists. scheduleAssignmentID nil matches the shiftless slot.
	GetByNaturalKey(ctx context.Context, userID string, date time.Time, scheduleAssignmentID *string) (*Record, error)

	// GetOpenByUser returns the most recent open record for the user,
	// optionally narrowed to one assignment, or nil when none is open.
	GetOpenByUser(ctx context.Context, userID string, scheduleAssignmentID *string) (*Record, error)

	Update(ctx context.Context, record Record) error

	GetByID(ctx context.Context, id string) (Record, error)

	List(ctx context.Context, filter RecordFilter) ([]Record, int64, error)

	// GetStaleOpen returns open records whose entrada is older than the
	// cutoff, for the end-of-day closeout job.
	GetStaleOpen(ctx context.Context, before time.Time) ([]Record, error)

	// BulkCreateAbsences inserts ABSENT records, skipping triples that
	// already have a row.
	BulkCreateAbsences(ctx context.Context, records []Record) error

	Delete(ctx context.Context, id string) error

	// ListScheduledUserIDs returns the distinct user ids holding at least
	// one active assignment for the weekday, for the mark-absent job.
	ListScheduledUserIDs(ctx context.Context, weekday string) ([]string, error)
}
