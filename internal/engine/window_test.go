package engine

import (
	"testing"
	"time"
)

var departure = time.Date(2026, time.September, 14, 18, 0, 0, 0, time.UTC)

func TestComputeWindowGeneral(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"before opening", departure.Add(-120*24*time.Hour - time.Minute), false},
		{"at opening", departure.Add(-120 * 24 * time.Hour), true},
		{"mid window", departure.Add(-24 * time.Hour), true},
		{"at close", departure.Add(-4 * time.Hour), true},
		{"after close", departure.Add(-4*time.Hour + time.Minute), false},
	}
	for _, tc := range cases {
		w := ComputeWindow(departure, tc.now)
		if w.GeneralOpen != tc.open {
			t.Errorf("%s: GeneralOpen = %v, want %v", tc.name, w.GeneralOpen, tc.open)
		}
	}
}

func TestComputeWindowTatkal(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"before opening", departure.Add(-2*time.Hour - time.Second), false},
		{"at opening", departure.Add(-2 * time.Hour), true},
		{"inside the ten minutes", departure.Add(-115 * time.Minute), true},
		{"at close", departure.Add(-110 * time.Minute), true},
		{"after close", departure.Add(-109 * time.Minute), false},
		{"at departure", departure, false},
	}
	for _, tc := range cases {
		w := ComputeWindow(departure, tc.now)
		if w.TatkalOpen != tc.open {
			t.Errorf("%s: TatkalOpen = %v, want %v", tc.name, w.TatkalOpen, tc.open)
		}
	}
}

func TestWindowsDisjoint(t *testing.T) {
	// No instant may have both classes open: general closes 4h before
	// departure, tatkal opens 2h before.
	for off := 125 * time.Minute; off <= 245*time.Minute; off += time.Minute {
		w := ComputeWindow(departure, departure.Add(-off))
		if w.GeneralOpen && w.TatkalOpen {
			t.Fatalf("both windows open %s before departure", off)
		}
	}
}

func TestDepartureInstant(t *testing.T) {
	journeyDate := time.Date(2026, time.September, 14, 23, 59, 0, 0, time.UTC) // clock must be ignored
	clock := 18*time.Hour + 30*time.Minute
	got := DepartureInstant(journeyDate, clock, 45)
	want := time.Date(2026, time.September, 14, 19, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DepartureInstant = %v, want %v", got, want)
	}
	if got := DepartureInstant(journeyDate, clock, 0); !got.Equal(time.Date(2026, time.September, 14, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("route-level departure = %v", got)
	}
}

func TestWeekdayCode(t *testing.T) {
	cases := map[string]time.Time{
		"MON": time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC),
		"SAT": time.Date(2026, time.September, 19, 0, 0, 0, 0, time.UTC),
		"SUN": time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC),
	}
	for want, d := range cases {
		if got := WeekdayCode(d); got != want {
			t.Errorf("WeekdayCode(%v) = %q, want %q", d, got, want)
		}
	}
}
