package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday codes accepted by schedules, matching time.Weekday names.
var weekdayCodes = map[string]bool{
	"MON": true, "TUE": true, "WED": true, "THU": true,
	"FRI": true, "SAT": true, "SUN": true,
}

// ValidWeekday reports whether code is one of the seven 3-letter codes.
func ValidWeekday(code string) bool { return weekdayCodes[code] }

// Schedule is a recurring weekly run of a route.  Departure and arrival
// are wall-clock times stored as TIME columns; the booking engine combines
// the departure time with a concrete journey date to obtain instants.
// A route may have several schedules, but a train must never have two
// schedules whose weekday and time range overlap; that invariant is
// enforced when schedules are created, not by the booking engine.
//
// Fields:
//  ID            – primary key identifier.
//  RouteID       – route this schedule runs.
//  Weekday       – 3-letter uppercase weekday code (e.g. "MON").
//  DepartureTime – wall-clock departure, "HH:MM:SS".
//  ArrivalTime   – wall-clock arrival, "HH:MM:SS".
//  CreatedAt     – timestamp of creation.
type Schedule struct {
	ID            uint64    // schedules.id
	RouteID       uint64    // schedules.route_id
	Weekday       string    // schedules.weekday
	DepartureTime string    // schedules.departure_time
	ArrivalTime   string    // schedules.arrival_time
	CreatedAt     time.Time // schedules.created_at
}

// DepartureClock parses the schedule's departure time into an offset from
// midnight.
func (s Schedule) DepartureClock() (time.Duration, error) {
	return ParseClock(s.DepartureTime)
}

// ParseClock converts a "HH:MM" or "HH:MM:SS" wall-clock string into a
// duration from midnight.  MySQL TIME columns scan into this shape when
// read as strings.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid clock time %q", s)
		}
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// ClockMinutes converts a wall-clock string into minutes from midnight.
// It is used by the schedule conflict check, which compares time ranges
// on a minute grid.
func ClockMinutes(s string) (int, error) {
	d, err := ParseClock(s)
	if err != nil {
		return 0, err
	}
	return int(d / time.Minute), nil
}
