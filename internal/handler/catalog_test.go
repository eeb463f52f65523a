package handler

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

func TestClockSpan(t *testing.T) {
	cases := []struct {
		departure, arrival string
		want               [2]int
	}{
		{"09:00", "12:00", [2]int{540, 720}},
		{"23:00", "01:00", [2]int{1380, 1500}},
		{"00:00", "00:30", [2]int{0, 30}},
		{"10:00", "10:00", [2]int{600, 2040}},
	}
	for _, tc := range cases {
		got, err := clockSpan(tc.departure, tc.arrival)
		if err != nil {
			t.Fatalf("clockSpan(%s, %s): %v", tc.departure, tc.arrival, err)
		}
		if got != tc.want {
			t.Errorf("clockSpan(%s, %s) = %v, want %v", tc.departure, tc.arrival, got, tc.want)
		}
	}
	if _, err := clockSpan("24:00", "01:00"); err == nil {
		t.Errorf("invalid clock accepted")
	}
}

func TestScheduleConflictOvernightRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	h := &CatalogHandler{Schedules: repository.NewScheduleRepo(db)}
	listQuery := regexp.QuoteMeta("WHERE r.train_id = ? AND s.weekday = ?")
	cols := []string{"id", "route_id", "weekday", "departure_time", "arrival_time", "name"}

	// A run arriving after midnight does not collide with an early
	// departure of the same weekday: the arrival is the next day.
	mock.ExpectBegin()
	mock.ExpectQuery(listQuery).
		WithArgs(uint64(7), "MON").
		WillReturnRows(sqlmock.NewRows(cols))
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	payload := []model.Schedule{
		{Weekday: "MON", DepartureTime: "23:00", ArrivalTime: "01:00"},
		{Weekday: "MON", DepartureTime: "00:30", ArrivalTime: "02:00"},
	}
	if err := h.validateScheduleConflicts(context.Background(), tx, 7, payload); err != nil {
		t.Fatalf("disjoint overnight runs rejected: %v", err)
	}
	_ = tx.Rollback()

	// Two overnight runs departing the same evening still conflict.
	mock.ExpectBegin()
	tx, err = db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	payload = []model.Schedule{
		{Weekday: "FRI", DepartureTime: "23:00", ArrivalTime: "01:00"},
		{Weekday: "FRI", DepartureTime: "23:30", ArrivalTime: "00:30"},
	}
	if err := h.validateScheduleConflicts(context.Background(), tx, 7, payload); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("overlapping overnight runs accepted: %v", err)
	}
	_ = tx.Rollback()

	// Same conflict against a stored schedule.
	mock.ExpectBegin()
	mock.ExpectQuery(listQuery).
		WithArgs(uint64(7), "SAT").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 2, "SAT", "23:00", "01:00", "Down"))
	tx, err = db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	payload = []model.Schedule{
		{Weekday: "SAT", DepartureTime: "23:30", ArrivalTime: "00:30"},
	}
	if err := h.validateScheduleConflicts(context.Background(), tx, 7, payload); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("overlap with stored schedule accepted: %v", err)
	}
	_ = tx.Rollback()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
