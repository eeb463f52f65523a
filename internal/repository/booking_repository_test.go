package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/railway-reservation/internal/engine"
)

var bookingRows = []string{
	"b.id", "b.user_id", "b.schedule_id", "b.journey_date", "b.from_stop_id", "b.to_stop_id",
	"fs.stop_order", "ts.stop_order", "b.type", "b.status", "b.amount",
	"b.confirmation_datetime", "b.cancellation_datetime", "b.notification_sent", "b.created_at", "b.updated_at",
}

func TestListForJourneyScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	journeyDate := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	confirmed := created.Add(time.Second)

	rows := sqlmock.NewRows(bookingRows).
		AddRow(1, 7, 3, journeyDate, 10, 12, 1, 3, "general", "confirmed", 450.00,
			confirmed, nil, false, created, created).
		AddRow(2, 8, 3, journeyDate, 11, 12, 2, 3, "general", "waiting", 225.50,
			nil, nil, false, created.Add(time.Minute), created.Add(time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WithArgs(uint64(3), "2026-09-14").
		WillReturnRows(rows)

	repo := NewBookingRepo(db)
	got, err := repo.ListForJourney(context.Background(), 3, journeyDate)
	if err != nil {
		t.Fatalf("ListForJourney: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bookings, want 2", len(got))
	}
	if got[0].FromOrder != 1 || got[0].ToOrder != 3 {
		t.Errorf("stop orders = %d/%d, want 1/3", got[0].FromOrder, got[0].ToOrder)
	}
	if got[0].ConfirmedAt == nil || !got[0].ConfirmedAt.Equal(confirmed) {
		t.Errorf("ConfirmedAt = %v, want %v", got[0].ConfirmedAt, confirmed)
	}
	if got[1].Status != engine.StatusWaiting || got[1].ConfirmedAt != nil {
		t.Errorf("second booking = %s/%v, want waiting with nil ConfirmedAt", got[1].Status, got[1].ConfirmedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestGetByIDForUserOtherOwnerIsNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE b.id = ? AND b.user_id = ?")).
		WithArgs(uint64(5), uint64(99)).
		WillReturnRows(sqlmock.NewRows(bookingRows))

	repo := NewBookingRepo(db)
	if _, err := repo.GetByIDForUser(context.Background(), 5, 99); err != sql.ErrNoRows {
		t.Fatalf("err = %v, want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMarkConfirmedTxGuardsOnWaitingStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?, confirmation_datetime = ? WHERE id = ? AND status = ?")).
		WithArgs("confirmed", at, uint64(42), "waiting").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewBookingRepo(db)
	if err := repo.MarkConfirmedTx(context.Background(), tx, 42, at); err != nil {
		t.Fatalf("MarkConfirmedTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestMarkCancelledTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	at := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = ?, cancellation_datetime = ? WHERE id = ?")).
		WithArgs("cancelled", at, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	repo := NewBookingRepo(db)
	if err := repo.MarkCancelledTx(context.Background(), tx, 7, at); err != nil {
		t.Fatalf("MarkCancelledTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
