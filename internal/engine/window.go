package engine

import (
	"strings"
	"time"
)

// Booking window offsets relative to the departure instant.  The tatkal
// window closes 1h50m before departure, which yields a fixed ten minute
// sales window.  The closing offset mirrors the production system's
// departure - (2h - 10m) computation and is pending product confirmation;
// do not "fix" it without a ruling.
const (
	generalOpenBefore  = 120 * 24 * time.Hour
	generalCloseBefore = 4 * time.Hour
	tatkalOpenBefore   = 2 * time.Hour
	tatkalCloseBefore  = 2*time.Hour - 10*time.Minute
)

// Window describes the general and tatkal booking windows for one journey
// departure, evaluated against a caller-supplied current instant.  The two
// windows are disjoint by construction: tatkal opens and closes strictly
// after general closes.
type Window struct {
	DepartureAt     time.Time `json:"departure_datetime"`
	GeneralOpensAt  time.Time `json:"general_booking_opening_datetime"`
	GeneralClosesAt time.Time `json:"general_booking_closing_datetime"`
	TatkalOpensAt   time.Time `json:"tatkal_booking_opening_datetime"`
	TatkalClosesAt  time.Time `json:"tatkal_booking_closing_datetime"`
	GeneralOpen     bool      `json:"general_booking_open"`
	TatkalOpen      bool      `json:"tatkal_booking_open"`
}

// DepartureInstant combines a journey date with the schedule's wall-clock
// departure time and the boarding stop's departure offset in minutes.  The
// journey date's own clock fields are ignored: only its calendar day is
// used.  Pass offset 0 to compute the route-level departure instant.
func DepartureInstant(journeyDate time.Time, departureClock time.Duration, boardingOffsetMin int) time.Time {
	day := time.Date(journeyDate.Year(), journeyDate.Month(), journeyDate.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(departureClock).Add(time.Duration(boardingOffsetMin) * time.Minute)
}

// ComputeWindow derives the window descriptor for a departure instant.  It
// performs no date-ordering validation; rejecting past journey dates is
// the caller's concern.
func ComputeWindow(departureAt, now time.Time) Window {
	w := Window{
		DepartureAt:     departureAt,
		GeneralOpensAt:  departureAt.Add(-generalOpenBefore),
		GeneralClosesAt: departureAt.Add(-generalCloseBefore),
		TatkalOpensAt:   departureAt.Add(-tatkalOpenBefore),
		TatkalClosesAt:  departureAt.Add(-tatkalCloseBefore),
	}
	w.GeneralOpen = !now.Before(w.GeneralOpensAt) && !now.After(w.GeneralClosesAt)
	w.TatkalOpen = !now.Before(w.TatkalOpensAt) && !now.After(w.TatkalClosesAt)
	return w
}

// WeekdayCode returns the three letter uppercase weekday code used by
// schedules, e.g. "MON" or "SUN".
func WeekdayCode(t time.Time) string {
	return strings.ToUpper(t.Weekday().String()[:3])
}
