package timeutil

// Window is a start/end clock-time pair on a single weekday. A window whose
// end is numerically before its start crosses midnight (night shift).
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// IsOvernight reports whether the window wraps past midnight.
func (w Window) IsOvernight() bool {
	return w.End < w.Start
}

// DurationMinutes returns the window length, accounting for wraparound.
func (w Window) DurationMinutes() int {
	if w.IsOvernight() {
		return (MinutesPerDay - int(w.Start)) + int(w.End)
	}
	return int(w.End) - int(w.Start)
}

// projected returns the window endpoints on a 48-hour line anchored at hour
// zero of the reference day. Overnight windows get their end pushed to the
// next day.
func (w Window) projected() (start, end int) {
	start, end = int(w.Start), int(w.End)
	if w.IsOvernight() {
		end += MinutesPerDay
	}
	return start, end
}

// Overlaps reports whether two windows on the same weekday share any
// minute, using standard half-open interval overlap on the 48-hour
// projection.
func (w Window) Overlaps(other Window) bool {
	aStart, aEnd := w.projected()
	bStart, bEnd := other.projected()
	return aStart < bEnd && bStart < aEnd
}

// ContainsWithTolerance reports whether t falls inside the window expanded
// by before/after minutes. The expanded window may extend past midnight on
// either side of the window's own day, so t is tested at its position and
// pushed one day forward. prevDay is true when the match required the
// forward push, i.e. t is the after-midnight tail of an overnight window
// and belongs to the previous calendar day. t is never pulled a day
// backward: a late-evening clock time does not belong to a window that
// started shortly after midnight the same morning — an early arrival for
// the next morning's shift is the next weekday's business.
func (w Window) ContainsWithTolerance(t TimeOfDay, before, after int) (ok, prevDay bool) {
	start, end := w.projected()
	start -= before
	end += after

	if m := int(t); m >= start && m <= end {
		return true, false
	}
	if m := int(t) + MinutesPerDay; m >= start && m <= end {
		return true, true
	}
	return false, false
}
