package schedule

import (
	"context"
	"testing"

	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) timeutil.TimeOfDay {
	t.Helper()
	clock, err := timeutil.ParseTimeOfDay(s)
	require.NoError(t, err)
	return clock
}

func addAssignment(repo *fakeAssignmentRepo, userID string, weekday schedule.Weekday, entrada, salida string) schedule.Assignment {
	e, _ := timeutil.ParseTimeOfDay(entrada)
	s, _ := timeutil.ParseTimeOfDay(salida)
	a := schedule.Assignment{
		ID:               uuid.NewString(),
		UserID:           userID,
		ShiftTemplateID:  uuid.NewString(),
		Weekday:          weekday,
		Entrada:          e,
		Salida:           s,
		ToleranceEntrada: 15,
		ToleranceSalida:  15,
		IsActive:         true,
	}
	repo.assignments[a.ID] = a
	return a
}

func TestResolveInsideWindow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	a := addAssignment(repo, "user-1", schedule.Monday, "08:00", "16:00")
	resolver := NewActiveShiftResolver(repo, 60)

	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "08:07"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)
}

func TestResolveWithinDetectionTolerance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	a := addAssignment(repo, "user-1", schedule.Monday, "08:00", "16:00")
	resolver := NewActiveShiftResolver(repo, 60)

	// 07:10 is 50 minutes before entrada, inside the ±60 detection margin.
	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "07:10"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)
}

func TestResolveOutsideEveryWindow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	addAssignment(repo, "user-1", schedule.Monday, "08:00", "16:00")
	resolver := NewActiveShiftResolver(repo, 60)

	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "19:30"))
	require.NoError(t, err)
	assert.Nil(t, got, "no active shift is a nil result, not an error")
}

func TestResolveOvernightAfterMidnight(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	night := addAssignment(repo, "user-1", schedule.Monday, "22:00", "06:00")
	resolver := NewActiveShiftResolver(repo, 60)

	// 00:30 Tuesday belongs to Monday's 22:00-06:00 shift.
	got, err := resolver.Resolve(ctx, "user-1", schedule.Tuesday, mustClock(t, "00:30"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, night.ID, got.ID)
	assert.Equal(t, schedule.Monday, got.Weekday)
}

func TestResolveOvernightBeforeMidnight(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	night := addAssignment(repo, "user-1", schedule.Monday, "22:00", "06:00")
	resolver := NewActiveShiftResolver(repo, 60)

	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "21:10"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, night.ID, got.ID)
}

func TestResolveOvernightTailRespectsTolerance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	addAssignment(repo, "user-1", schedule.Monday, "22:00", "06:00")
	resolver := NewActiveShiftResolver(repo, 60)

	// 08:30 Tuesday is past 06:00 + 60min; the Monday night shift is over.
	got, err := resolver.Resolve(ctx, "user-1", schedule.Tuesday, mustClock(t, "08:30"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveTieBreakNearestEntrada(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	morning := addAssignment(repo, "user-1", schedule.Monday, "06:00", "12:00")
	afternoon := addAssignment(repo, "user-1", schedule.Monday, "12:00", "18:00")
	resolver := NewActiveShiftResolver(repo, 60)

	// 12:20 sits inside both detection windows (morning's salida margin and
	// the afternoon shift proper); the nearer scheduled entrada wins.
	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "12:20"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, afternoon.ID, got.ID)

	// 05:40 only reaches the morning shift.
	got, err = resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "05:40"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, morning.ID, got.ID)
}

func TestResolveIgnoresInactiveAssignments(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	a := addAssignment(repo, "user-1", schedule.Monday, "08:00", "16:00")
	a.IsActive = false
	repo.assignments[a.ID] = a
	resolver := NewActiveShiftResolver(repo, 60)

	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "08:00"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveLateEveningIgnoresEarlyMorningShift(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssignmentRepo()
	addAssignment(repo, "user-1", schedule.Monday, "00:30", "08:00")
	resolver := NewActiveShiftResolver(repo, 60)

	// 23:50 is hours past the shift that ended that morning; it is not an
	// early arrival for it either, so nothing is active.
	got, err := resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "23:50"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// The shift is still detected on its own morning.
	got, err = resolver.Resolve(ctx, "user-1", schedule.Monday, mustClock(t, "00:10"))
	require.NoError(t, err)
	require.NotNil(t, got)
}
