package schedule

import (
	"context"
	"fmt"

	"github.com/asistia/asistencia-backend-go/internal/domain/schedule"
	"github.com/asistia/asistencia-backend-go/internal/pkg/timeutil"
)

// ActiveShiftResolverImpl matches a (user, weekday, clock-time) triple
// against the user's assignment windows expanded by the detection
// tolerance. The detection tolerance decides whether a shift is "active"
// at all; it is independent of the per-assignment lateness tolerances.
type ActiveShiftResolverImpl struct {
	assignmentRepo   schedule.AssignmentRepository
	toleranceMinutes int
}

func NewActiveShiftResolver(assignmentRepo schedule.AssignmentRepository, toleranceMinutes int) schedule.ActiveShiftResolver {
	if toleranceMinutes <= 0 {
		toleranceMinutes = 60
	}
	return &ActiveShiftResolverImpl{
		assignmentRepo:   assignmentRepo,
		toleranceMinutes: toleranceMinutes,
	}
}

// Resolve implements schedule.ActiveShiftResolver. It scans the weekday's
// own assignments, then the previous weekday's overnight assignments whose
// after-midnight tail can reach the query time. When several expanded
// windows contain the clock time (back-to-back shifts whose detection
// margins touch), the assignment with the scheduled entrada nearest to the
// clock time wins, so detection is deterministic rather than scan-order
// dependent.
func (r *ActiveShiftResolverImpl) Resolve(ctx context.Context, userID string, weekday schedule.Weekday, clock timeutil.TimeOfDay) (*schedule.Assignment, error) {
	var candidates []schedule.Assignment

	today, err := r.assignmentRepo.GetActiveByUserAndWeekday(ctx, userID, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments for %s: %w", weekday, err)
	}
	for _, a := range today {
		ok, prevDay := a.Window().ContainsWithTolerance(clock, r.toleranceMinutes, r.toleranceMinutes)
		if ok && !prevDay {
			candidates = append(candidates, a)
		}
	}

	yesterday, err := r.assignmentRepo.GetActiveByUserAndWeekday(ctx, userID, weekday.Previous())
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments for %s: %w", weekday.Previous(), err)
	}
	for _, a := range yesterday {
		if !a.IsOvernight() {
			continue
		}
		ok, prevDay := a.Window().ContainsWithTolerance(clock, r.toleranceMinutes, r.toleranceMinutes)
		if ok && prevDay {
			candidates = append(candidates, a)
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	bestDist := entradaDistance(best.Entrada, clock)
	for _, a := range candidates[1:] {
		if d := entradaDistance(a.Entrada, clock); d < bestDist {
			best, bestDist = a, d
		}
	}

	return &best, nil
}

// entradaDistance is the absolute circular minute distance between the
// scheduled entrada and the query time.
func entradaDistance(entrada, clock timeutil.TimeOfDay) int {
	delta, _ := timeutil.ClockDelta(entrada, clock)
	if delta < 0 {
		return -delta
	}
	return delta
}
