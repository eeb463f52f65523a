package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/railway-reservation/internal/engine"
	"github.com/iliyamo/railway-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  Bookings are never
// physically deleted: cancellation and waitlist promotion are status
// updates with their datetime columns set exactly once.  Every method
// that feeds seat accounting has a Tx variant so the read and the write
// run under the schedule row lock taken by ScheduleRepo.LockTx.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `b.id, b.user_id, b.schedule_id, b.journey_date, b.from_stop_id, b.to_stop_id,
       fs.stop_order, ts.stop_order, b.type, b.status, b.amount,
       b.confirmation_datetime, b.cancellation_datetime, b.notification_sent, b.created_at, b.updated_at`

const bookingJoins = `FROM bookings b
JOIN route_stops fs ON fs.id = b.from_stop_id
JOIN route_stops ts ON ts.id = b.to_stop_id`

func scanBooking(sc interface{ Scan(...interface{}) error }) (*model.Booking, error) {
	var (
		b           model.Booking
		confirmedAt sql.NullTime
		cancelledAt sql.NullTime
	)
	err := sc.Scan(&b.ID, &b.UserID, &b.ScheduleID, &b.JourneyDate, &b.FromStopID, &b.ToStopID,
		&b.FromOrder, &b.ToOrder, &b.Type, &b.Status, &b.Amount,
		&confirmedAt, &cancelledAt, &b.NotificationSent, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		b.ConfirmedAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	return &b, nil
}

// ListForJourneyTx returns every booking for one (schedule, journey date)
// pair with the boarding and alighting stop orders joined in, within an
// existing transaction.  The caller must hold the schedule lock when the
// result feeds a write.  Cancelled bookings are included; the engine
// partitions by status itself.
func (r *BookingRepo) ListForJourneyTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, journeyDate time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` ` + bookingJoins + `
	           WHERE b.schedule_id = ? AND b.journey_date = ?
	           ORDER BY b.created_at, b.id`
	rows, err := tx.QueryContext(ctx, q, scheduleID, journeyDate.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListForJourney is ListForJourneyTx without a transaction, used by the
// read-only availability endpoint.
func (r *BookingRepo) ListForJourney(ctx context.Context, scheduleID uint64, journeyDate time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` ` + bookingJoins + `
	           WHERE b.schedule_id = ? AND b.journey_date = ?
	           ORDER BY b.created_at, b.id`
	rows, err := r.db.QueryContext(ctx, q, scheduleID, journeyDate.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTx inserts a new booking within an existing transaction and reads
// the full row back to populate generated timestamps.  Status and
// confirmation datetime must already be decided by the engine.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, schedule_id, journey_date, from_stop_id, to_stop_id, type, status, amount, confirmation_datetime)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var confirmedAt interface{}
	if b.ConfirmedAt != nil {
		confirmedAt = b.ConfirmedAt.UTC()
	}
	res, err := tx.ExecContext(ctx, q, b.UserID, b.ScheduleID, b.JourneyDate.Format("2006-01-02"),
		b.FromStopID, b.ToStopID, string(b.Type), string(b.Status), b.Amount, confirmedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT ` + bookingColumns + ` ` + bookingJoins + ` WHERE b.id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByIDForUserTx fetches a booking by id restricted to its owner within
// an existing transaction.  A booking that exists but belongs to another
// user surfaces as sql.ErrNoRows, deliberately indistinguishable from a
// missing one.
func (r *BookingRepo) GetByIDForUserTx(ctx context.Context, tx *sql.Tx, bookingID, userID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` ` + bookingJoins + ` WHERE b.id = ? AND b.user_id = ?`
	return scanBooking(tx.QueryRowContext(ctx, q, bookingID, userID))
}

// GetByIDForUser is GetByIDForUserTx without a transaction.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` ` + bookingJoins + ` WHERE b.id = ? AND b.user_id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, bookingID, userID))
}

// MarkCancelledTx moves a booking to cancelled and stamps the
// cancellation datetime, within an existing transaction.
func (r *BookingRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, bookingID uint64, at time.Time) error {
	const q = `UPDATE bookings SET status = ?, cancellation_datetime = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, string(engine.StatusCancelled), at.UTC(), bookingID)
	return err
}

// MarkConfirmedTx promotes a waiting booking to confirmed and stamps the
// confirmation datetime, within an existing transaction.  The status
// guard in the WHERE clause keeps a double promotion from ever landing.
func (r *BookingRepo) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, bookingID uint64, at time.Time) error {
	const q = `UPDATE bookings SET status = ?, confirmation_datetime = ? WHERE id = ? AND status = ?`
	_, err := tx.ExecContext(ctx, q, string(engine.StatusConfirmed), at.UTC(), bookingID, string(engine.StatusWaiting))
	return err
}

// ListByUser returns all bookings of a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` ` + bookingJoins + `
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// NotificationTarget is one confirmed booking due for a departure
// reminder, with the recipient and train data joined in for the event
// payload.
type NotificationTarget struct {
	BookingID   uint64
	UserID      uint64
	UserEmail   string
	ScheduleID  uint64
	JourneyDate time.Time
	TrainNumber string
	TrainName   string
	FromCode    string
	ToCode      string
	Departure   string
}

// DueForNotification returns confirmed, non-cancelled, non-notified
// bookings whose run departs exactly at the target instant: the journey
// date, schedule weekday and departure hour and minute all match.  The
// notification job calls this with now + 30 minutes.
func (r *BookingRepo) DueForNotification(ctx context.Context, target time.Time) ([]NotificationTarget, error) {
	const q = `SELECT b.id, b.user_id, u.email, b.schedule_id, b.journey_date,
	                  t.number, t.name, fst.code, tst.code, s.departure_time
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           JOIN schedules s ON s.id = b.schedule_id
	           JOIN routes r ON r.id = s.route_id
	           JOIN trains t ON t.id = r.train_id
	           JOIN route_stops fs ON fs.id = b.from_stop_id
	           JOIN stations fst ON fst.id = fs.station_id
	           JOIN route_stops ts ON ts.id = b.to_stop_id
	           JOIN stations tst ON tst.id = ts.station_id
	           WHERE b.status = ?
	             AND b.cancellation_datetime IS NULL
	             AND b.notification_sent = FALSE
	             AND b.journey_date = ?
	             AND s.weekday = ?
	             AND HOUR(s.departure_time) = ?
	             AND MINUTE(s.departure_time) = ?`
	weekday := engine.WeekdayCode(target)
	rows, err := r.db.QueryContext(ctx, q, string(engine.StatusConfirmed),
		target.Format("2006-01-02"), weekday, target.Hour(), target.Minute())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]NotificationTarget, 0)
	for rows.Next() {
		var n NotificationTarget
		if err := rows.Scan(&n.BookingID, &n.UserID, &n.UserEmail, &n.ScheduleID, &n.JourneyDate,
			&n.TrainNumber, &n.TrainName, &n.FromCode, &n.ToCode, &n.Departure); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotified flips the notification_sent flag after the reminder is
// published.  The flag never touches seat accounting, so no schedule
// lock is involved.
func (r *BookingRepo) MarkNotified(ctx context.Context, bookingID uint64) error {
	const q = `UPDATE bookings SET notification_sent = TRUE WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, bookingID)
	return err
}
