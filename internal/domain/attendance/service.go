package attendance

import (
	"context"
)

// LedgerService is the attendance state machine: NoRecord -> OpenEntrada
// -> Closed per (user, date, shift). It performs no side effects beyond
// the record store; notification and report fan-out belong to callers.
type LedgerService interface {
	// RegisterEntrada opens the day's record. Fails ErrDuplicateOpenEntrada
	// when an open record already exists for the triple; replaying the
	// exact same event (same method and timestamp) is idempotent and
	// returns the original outcome.
	RegisterEntrada(ctx context.Context, req RegisterRequest) (Outcome, error)

	// RegisterSalida closes the matching open record, computing worked
	// minutes across midnight from the actual clock values. Fails
	// ErrNoOpenEntrada when nothing is open; never converts a salida into
	// an entrada.
	RegisterSalida(ctx context.Context, req RegisterRequest) (Outcome, error)

	Get(ctx context.Context, id string) (RecordResponse, error)

	List(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// Delete removes a record by explicit admin action.
	Delete(ctx context.Context, id string) error
}
