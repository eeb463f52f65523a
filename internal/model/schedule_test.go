package model

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"18:30:00", 18*time.Hour + 30*time.Minute, true},
		{"06:05", 6*time.Hour + 5*time.Minute, true},
		{"00:00:00", 0, true},
		{"23:59:59", 23*time.Hour + 59*time.Minute + 59*time.Second, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseClock(%q) = (%v, %v), want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseClock(%q) succeeded, want error", tc.in)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	got, err := ClockMinutes("08:45:00")
	if err != nil || got != 525 {
		t.Fatalf("ClockMinutes = (%d, %v), want 525", got, err)
	}
}

func TestValidWeekday(t *testing.T) {
	for _, code := range []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"} {
		if !ValidWeekday(code) {
			t.Errorf("ValidWeekday(%q) = false", code)
		}
	}
	for _, code := range []string{"mon", "MONDAY", "XYZ", ""} {
		if ValidWeekday(code) {
			t.Errorf("ValidWeekday(%q) = true", code)
		}
	}
}

func TestDepartureClock(t *testing.T) {
	s := Schedule{DepartureTime: "17:10:00"}
	d, err := s.DepartureClock()
	if err != nil || d != 17*time.Hour+10*time.Minute {
		t.Fatalf("DepartureClock = (%v, %v)", d, err)
	}
}
