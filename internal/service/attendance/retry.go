package attendance

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/asistia/asistencia-backend-go/internal/domain/attendance"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	maxAttempts    = 3
	initialBackoff = 100 * time.Millisecond
)

// withRetry re-runs fn on transient persistence faults with exponential
// backoff. Business rejections pass through untouched; the natural-key
// constraint makes replaying a write safe.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := initialBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
	}
	return err
}

func withRetryResult[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := withRetry(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// isTransient classifies persistence faults worth replaying: connection
// failures, serialization conflicts and deadlocks. Domain rejections and
// cancellations are final.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, attendance.ErrDuplicateOpenEntrada) ||
		errors.Is(err, attendance.ErrNoOpenEntrada) ||
		errors.Is(err, attendance.ErrRecordNotFound) {
		return false
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 = connection exception; 40001/40P01 = serialization
		// failure and deadlock.
		if strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
