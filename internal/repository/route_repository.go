package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// RouteRepo provides access to the routes and route_stops tables.  A
// route and its stops are created together; stops change only through
// ReplaceStopsTx, which swaps the full set.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo returns a new RouteRepo bound to the given database.
func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RouteRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a route row within an existing transaction and
// populates the generated ID.
func (r *RouteRepo) CreateTx(ctx context.Context, tx *sql.Tx, rt *model.Route) error {
	const q = `INSERT INTO routes (train_id, name, general_seats, tatkal_seats, general_price, tatkal_price)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, rt.TrainID, rt.Name,
		rt.Seats.General, rt.Seats.Tatkal, rt.Prices.General, rt.Prices.Tatkal)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID fetches a route by id.  sql.ErrNoRows is returned when the
// route does not exist.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT id, train_id, name, general_seats, tatkal_seats, general_price, tatkal_price, created_at
	           FROM routes WHERE id = ?`
	var rt model.Route
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.TrainID, &rt.Name,
		&rt.Seats.General, &rt.Seats.Tatkal, &rt.Prices.General, &rt.Prices.Tatkal, &rt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// InsertStopsTx bulk-inserts the stops of a route in a single statement
// within an existing transaction.  Passing an empty slice has no effect.
func (r *RouteRepo) InsertStopsTx(ctx context.Context, tx *sql.Tx, routeID uint64, stops []model.RouteStop) error {
	if len(stops) == 0 {
		return nil
	}
	query := `INSERT INTO route_stops (route_id, station_id, stop_order,
	          arrival_minutes_from_source, departure_minutes_from_source, distance_kms_from_source) VALUES `
	args := make([]interface{}, 0, len(stops)*6)
	for i, s := range stops {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, routeID, s.StationID, s.Order, s.ArrivalMin, s.DepartureMin, s.DistanceKM)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ReplaceStopsTx deletes the current stop set of a route and installs the
// provided one.  Callers must validate ordering and monotonicity before
// invoking; the swap itself is not checked here.
func (r *RouteRepo) ReplaceStopsTx(ctx context.Context, tx *sql.Tx, routeID uint64, stops []model.RouteStop) error {
	const del = `DELETE FROM route_stops WHERE route_id = ?`
	if _, err := tx.ExecContext(ctx, del, routeID); err != nil {
		return err
	}
	return r.InsertStopsTx(ctx, tx, routeID, stops)
}

// StopsByRoute returns the ordered stop list of a route with station
// code and name joined in.
func (r *RouteRepo) StopsByRoute(ctx context.Context, routeID uint64) ([]model.RouteStop, error) {
	return scanStops(r.db.QueryContext(ctx, stopsQuery, routeID))
}

// StopsByRouteTx is StopsByRoute inside an existing transaction, used by
// the booking flow so stop data is read under the schedule lock.
func (r *RouteRepo) StopsByRouteTx(ctx context.Context, tx *sql.Tx, routeID uint64) ([]model.RouteStop, error) {
	return scanStops(tx.QueryContext(ctx, stopsQuery, routeID))
}

const stopsQuery = `SELECT rs.id, rs.route_id, rs.station_id, rs.stop_order,
       rs.arrival_minutes_from_source, rs.departure_minutes_from_source, rs.distance_kms_from_source,
       st.code, st.name
FROM route_stops rs
JOIN stations st ON st.id = rs.station_id
WHERE rs.route_id = ?
ORDER BY rs.stop_order`

func scanStops(rows *sql.Rows, err error) ([]model.RouteStop, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RouteStop, 0)
	for rows.Next() {
		var s model.RouteStop
		if err := rows.Scan(&s.ID, &s.RouteID, &s.StationID, &s.Order,
			&s.ArrivalMin, &s.DepartureMin, &s.DistanceKM, &s.StationCode, &s.StationName); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
