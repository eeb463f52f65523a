package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestLockTxTakesRowLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM schedules WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewScheduleRepo(db)
	if err := repo.LockTx(context.Background(), tx, 12); err != nil {
		t.Fatalf("LockTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAsConflictMapsMySQLContentionErrors(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}
	timeout := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout"}
	other := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	if !errors.Is(AsConflict(deadlock), ErrConflict) {
		t.Errorf("deadlock should map to ErrConflict")
	}
	if !errors.Is(AsConflict(timeout), ErrConflict) {
		t.Errorf("lock wait timeout should map to ErrConflict")
	}
	if errors.Is(AsConflict(other), ErrConflict) {
		t.Errorf("duplicate key must not map to ErrConflict")
	}
	if AsConflict(nil) != nil {
		t.Errorf("nil should stay nil")
	}
}

func TestGetWithRouteTxScansJoinedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{
		"s.id", "s.route_id", "s.weekday", "s.departure_time", "s.arrival_time", "s.created_at",
		"r.id", "r.train_id", "r.name", "r.general_seats", "r.tatkal_seats", "r.general_price", "r.tatkal_price", "r.created_at",
	}
	created := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN routes r ON r.id = s.route_id")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(5, 2, "MON", "08:45", "14:30", created,
				2, 1, "Up", 72, 18, 540.0, 810.0, created))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	s, rt, err := NewScheduleRepo(db).GetWithRouteTx(context.Background(), tx, 5)
	if err != nil {
		t.Fatalf("GetWithRouteTx: %v", err)
	}
	if s.ID != 5 || s.RouteID != 2 || s.Weekday != "MON" || s.DepartureTime != "08:45" {
		t.Errorf("unexpected schedule: %+v", s)
	}
	if rt.ID != 2 || rt.Seats.General != 72 || rt.Seats.Tatkal != 18 || rt.Prices.Tatkal != 810.0 {
		t.Errorf("unexpected route: %+v", rt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
