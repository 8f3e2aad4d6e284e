package timeutil

import (
	"math/rand"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"23:59", 1439, false},
		{"22:00", 1320, false},
		{"06:15:30", 375, false},
		{"24:00", 0, true},
		{"8am", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.input)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) = %v, want error", c.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestTimeOfDayString(t *testing.T) {
	if got := TimeOfDay(485).String(); got != "08:05" {
		t.Errorf("String() = %q, want %q", got, "08:05")
	}
	if got := TimeOfDay(0).String(); got != "00:00" {
		t.Errorf("String() = %q, want %q", got, "00:00")
	}
}

func TestWindowOvernightAndDuration(t *testing.T) {
	cases := []struct {
		name      string
		window    Window
		overnight bool
		duration  int
	}{
		{"day shift", Window{Start: 480, End: 960}, false, 480},
		{"night shift", Window{Start: 1320, End: 360}, true, 480},
		{"just before midnight", Window{Start: 1380, End: 60}, true, 120},
		{"full evening", Window{Start: 900, End: 1439}, false, 539},
	}
	for _, c := range cases {
		if got := c.window.IsOvernight(); got != c.overnight {
			t.Errorf("%s: IsOvernight() = %v, want %v", c.name, got, c.overnight)
		}
		if got := c.window.DurationMinutes(); got != c.duration {
			t.Errorf("%s: DurationMinutes() = %d, want %d", c.name, got, c.duration)
		}
	}
}

func TestWindowOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"disjoint day shifts", Window{480, 960}, Window{960, 1320}, false},
		{"nested", Window{480, 960}, Window{540, 600}, true},
		{"partial", Window{480, 960}, Window{900, 1100}, true},
		{"night vs early morning next block", Window{1320, 360}, Window{480, 960}, false},
		{"night overlapping evening", Window{1320, 360}, Window{1200, 1380}, true},
		{"two night shifts", Window{1320, 360}, Window{1380, 420}, true},
		{"back to back at midnight boundary", Window{960, 1320}, Window{1320, 360}, false},
	}
	for _, c := range cases {
		if got := c.a.Overlaps(c.b); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
		if got := c.b.Overlaps(c.a); got != c.want {
			t.Errorf("%s (swapped): Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

// minuteSet expands a window onto the 48-hour projection as a set of
// occupied minutes, the brute-force reference for overlap.
func minuteSet(w Window) map[int]bool {
	start, end := int(w.Start), int(w.End)
	if w.IsOvernight() {
		end += MinutesPerDay
	}
	set := make(map[int]bool, end-start)
	for m := start; m < end; m++ {
		set[m] = true
	}
	return set
}

func TestWindowOverlapsMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	randomWindow := func() Window {
		start := TimeOfDay(rng.Intn(MinutesPerDay))
		end := TimeOfDay(rng.Intn(MinutesPerDay))
		for end == start {
			end = TimeOfDay(rng.Intn(MinutesPerDay))
		}
		return Window{Start: start, End: end}
	}

	for i := 0; i < 2000; i++ {
		a, b := randomWindow(), randomWindow()

		want := false
		setB := minuteSet(b)
		for m := range minuteSet(a) {
			if setB[m] {
				want = true
				break
			}
		}

		if got := a.Overlaps(b); got != want {
			t.Fatalf("Overlaps(%v-%v, %v-%v) = %v, brute force says %v",
				a.Start, a.End, b.Start, b.End, got, want)
		}
	}
}

func TestContainsWithTolerance(t *testing.T) {
	night := Window{Start: 1320, End: 360} // 22:00-06:00
	day := Window{Start: 480, End: 960}    // 08:00-16:00
	early := Window{Start: 30, End: 480}   // 00:30-08:00

	cases := []struct {
		name        string
		w           Window
		t           TimeOfDay
		want        bool
		wantPrevDay bool
	}{
		{"day inside", day, 600, true, false},
		{"day at early edge", day, 420, true, false},
		{"day before tolerance", day, 419, false, false},
		{"day at late edge", day, 1020, true, false},
		{"day after tolerance", day, 1021, false, false},
		{"night at entrada", night, 1320, true, false},
		{"night just before entrada", night, 1260, true, false},
		{"night after midnight", night, 30, true, true},
		{"night at salida plus tolerance", night, 420, true, true},
		{"night mid-afternoon", night, 800, false, false},
		{"early shift at entrada", early, 30, true, false},
		{"early shift at midnight", early, 0, true, false},
		{"early shift late evening same day", early, 1430, false, false},
		{"early shift just before midnight", early, 1439, false, false},
	}
	for _, c := range cases {
		got, prevDay := c.w.ContainsWithTolerance(c.t, 60, 60)
		if got != c.want || prevDay != c.wantPrevDay {
			t.Errorf("%s: ContainsWithTolerance(%v) = (%v, %v), want (%v, %v)",
				c.name, c.t, got, prevDay, c.want, c.wantPrevDay)
		}
	}
}

func TestClockDelta(t *testing.T) {
	cases := []struct {
		name      string
		scheduled TimeOfDay
		actual    TimeOfDay
		wantDelta int
		wantPrev  bool
	}{
		{"on time", 480, 480, 0, false},
		{"seven late", 480, 487, 7, false},
		{"twenty late", 480, 500, 20, false},
		{"ten early", 480, 470, -10, false},
		{"night shift after midnight", 1320, 30, 150, true},
		{"night shift early arrival", 1320, 1310, -10, false},
		{"early morning shift, prior evening arrival", 30, 1430, -40, false},
	}
	for _, c := range cases {
		delta, prev := ClockDelta(c.scheduled, c.actual)
		if delta != c.wantDelta || prev != c.wantPrev {
			t.Errorf("%s: ClockDelta(%v, %v) = (%d, %v), want (%d, %v)",
				c.name, c.scheduled, c.actual, delta, prev, c.wantDelta, c.wantPrev)
		}
	}
}
