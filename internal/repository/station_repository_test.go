package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

func TestCreateStationDuplicateCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO stations (code, name, city, state)")).
		WithArgs("NDLS", "New Delhi", "Delhi", "DL").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'NDLS' for key 'stations.code'"})

	st := &model.Station{Code: "ndls ", Name: "New Delhi", City: "Delhi", State: "DL"}
	if err := NewStationRepo(db).Create(context.Background(), st); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate code: got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestIsDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !IsDuplicate(dup) {
		t.Errorf("1062 should be a duplicate")
	}
	if !IsDuplicate(fmt.Errorf("insert station: %w", dup)) {
		t.Errorf("wrapped 1062 should be a duplicate")
	}
	if IsDuplicate(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}) {
		t.Errorf("1213 is not a duplicate")
	}
	if IsDuplicate(errors.New("Duplicate entry 1062")) {
		t.Errorf("message text alone is not a duplicate")
	}
	if IsDuplicate(nil) {
		t.Errorf("nil is not a duplicate")
	}
}
