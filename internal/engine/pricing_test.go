package engine

import "testing"

func TestProratedPrice(t *testing.T) {
	cases := []struct {
		name      string
		journeyKM float64
		routeKM   float64
		fare      float64
		want      float64
	}{
		{"full route", 500, 500, 1200, 1200},
		{"half route", 250, 500, 1200, 600},
		{"repeating fraction", 100, 300, 100, 33.33},
		{"zero segment", 0, 500, 1200, 0},
		{"zero route distance", 100, 0, 1200, 0},
	}
	for _, tc := range cases {
		if got := ProratedPrice(tc.journeyKM, tc.routeKM, tc.fare); got != tc.want {
			t.Errorf("%s: ProratedPrice = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(1.236); got != 1.24 {
		t.Errorf("Round2(1.236) = %v", got)
	}
	if got := Round2(1.234); got != 1.23 {
		t.Errorf("Round2(1.234) = %v", got)
	}
}

func TestJourneyDistanceAndDuration(t *testing.T) {
	from := StopPoint{Order: 2, ArrivalMin: 55, DepartureMin: 60, DistanceKM: 120}
	to := StopPoint{Order: 5, ArrivalMin: 240, DepartureMin: 240, DistanceKM: 430}
	if got := JourneyDistanceKM(from, to); got != 310 {
		t.Errorf("JourneyDistanceKM = %v, want 310", got)
	}
	if got := JourneyDurationMin(from, to); got != 180 {
		t.Errorf("JourneyDurationMin = %v, want 180", got)
	}
}
