package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// ScheduleRepo provides access to the schedules table.  Schedules are
// created alongside their route; the booking flow reads them joined with
// the owning route and locks the schedule row to serialize seat
// accounting per scheduled run.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a new ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a schedule row within an existing transaction.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Schedule) error {
	const q = `INSERT INTO schedules (route_id, weekday, departure_time, arrival_time) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.RouteID, s.Weekday, s.DepartureTime, s.ArrivalTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetWithRoute fetches a schedule together with its route.  sql.ErrNoRows
// is returned when the schedule does not resolve.
func (r *ScheduleRepo) GetWithRoute(ctx context.Context, id uint64) (*model.Schedule, *model.Route, error) {
	return scanScheduleWithRoute(r.db.QueryRowContext(ctx, scheduleWithRouteQuery, id))
}

// GetWithRouteTx is GetWithRoute inside an existing transaction.
func (r *ScheduleRepo) GetWithRouteTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Schedule, *model.Route, error) {
	return scanScheduleWithRoute(tx.QueryRowContext(ctx, scheduleWithRouteQuery, id))
}

const scheduleWithRouteQuery = `SELECT s.id, s.route_id, s.weekday, s.departure_time, s.arrival_time, s.created_at,
       r.id, r.train_id, r.name, r.general_seats, r.tatkal_seats, r.general_price, r.tatkal_price, r.created_at
FROM schedules s
JOIN routes r ON r.id = s.route_id
WHERE s.id = ?`

func scanScheduleWithRoute(row *sql.Row) (*model.Schedule, *model.Route, error) {
	var (
		s  model.Schedule
		rt model.Route
	)
	err := row.Scan(&s.ID, &s.RouteID, &s.Weekday, &s.DepartureTime, &s.ArrivalTime, &s.CreatedAt,
		&rt.ID, &rt.TrainID, &rt.Name, &rt.Seats.General, &rt.Seats.Tatkal,
		&rt.Prices.General, &rt.Prices.Tatkal, &rt.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	return &s, &rt, nil
}

// LockTx takes a row lock on the schedule, serializing every booking
// create and cancel for that scheduled run against each other.  The
// availability read and the subsequent write happen under this lock,
// which is what prevents two concurrent requests from both consuming
// the last seat.  Lock contention errors surface as ErrConflict via
// AsConflict at the call site.
func (r *ScheduleRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `SELECT id FROM schedules WHERE id = ? FOR UPDATE`
	var got uint64
	return tx.QueryRowContext(ctx, q, id).Scan(&got)
}

// ListByTrainWeekday returns every schedule of any route owned by the
// train on the given weekday, used by the creation-time conflict check.
// The route name is joined in for error messages.
func (r *ScheduleRepo) ListByTrainWeekday(ctx context.Context, tx *sql.Tx, trainID uint64, weekday string) ([]model.Schedule, []string, error) {
	const q = `SELECT s.id, s.route_id, s.weekday, s.departure_time, s.arrival_time, r.name
	           FROM schedules s
	           JOIN routes r ON r.id = s.route_id
	           WHERE r.train_id = ? AND s.weekday = ?`
	rows, err := tx.QueryContext(ctx, q, trainID, weekday)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var (
		schedules  []model.Schedule
		routeNames []string
	)
	for rows.Next() {
		var (
			s    model.Schedule
			name string
		)
		if err := rows.Scan(&s.ID, &s.RouteID, &s.Weekday, &s.DepartureTime, &s.ArrivalTime, &name); err != nil {
			return nil, nil, err
		}
		schedules = append(schedules, s)
		routeNames = append(routeNames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return schedules, routeNames, nil
}

// SearchCandidates returns schedules running on the given weekday, each
// with its route, for the journey search to filter by station pair.
func (r *ScheduleRepo) SearchCandidates(ctx context.Context, weekday string) ([]model.Schedule, []model.Route, error) {
	const q = `SELECT s.id, s.route_id, s.weekday, s.departure_time, s.arrival_time, s.created_at,
	                  r.id, r.train_id, r.name, r.general_seats, r.tatkal_seats, r.general_price, r.tatkal_price, r.created_at
	           FROM schedules s
	           JOIN routes r ON r.id = s.route_id
	           WHERE s.weekday = ?
	           ORDER BY s.departure_time`
	rows, err := r.db.QueryContext(ctx, q, weekday)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var (
		schedules []model.Schedule
		routes    []model.Route
	)
	for rows.Next() {
		var (
			s  model.Schedule
			rt model.Route
		)
		if err := rows.Scan(&s.ID, &s.RouteID, &s.Weekday, &s.DepartureTime, &s.ArrivalTime, &s.CreatedAt,
			&rt.ID, &rt.TrainID, &rt.Name, &rt.Seats.General, &rt.Seats.Tatkal,
			&rt.Prices.General, &rt.Prices.Tatkal, &rt.CreatedAt); err != nil {
			return nil, nil, err
		}
		schedules = append(schedules, s)
		routes = append(routes, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return schedules, routes, nil
}
