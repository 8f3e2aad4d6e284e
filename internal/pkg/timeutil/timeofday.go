package timeutil

import (
	"fmt"
	"time"
)

const MinutesPerDay = 1440

// TimeOfDay is a clock time expressed as minutes since midnight [0, 1439].
// It carries no date or timezone; all day-relative arithmetic assumes the
// single organization timezone supplied by config.
type TimeOfDay int

// ParseTimeOfDay parses "15:04" (optionally "15:04:05", seconds discarded).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
		}
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// FromTime extracts the clock time of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// ClockDelta returns the signed minute distance from scheduled to actual,
// picking the day projection of actual closest to scheduled. prevDay is
// true when actual had to be pushed a day forward to sit next to scheduled,
// meaning the event belongs to the previous calendar day's shift (an
// overnight entrada registered after midnight).
func ClockDelta(scheduled, actual TimeOfDay) (delta int, prevDay bool) {
	d := int(actual) - int(scheduled)
	best, shift := d, 0
	for _, c := range []struct{ d, shift int }{{d + MinutesPerDay, 1}, {d - MinutesPerDay, -1}} {
		if abs(c.d) < abs(best) {
			best, shift = c.d, c.shift
		}
	}
	return best, shift == 1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
