package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// TrainRepo provides access to the trains table.  Trains are immutable
// reference entities created by catalog administrators.
type TrainRepo struct {
	db *sql.DB
}

// NewTrainRepo returns a new TrainRepo bound to the given database.
func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *TrainRepo) DB() *sql.DB { return r.db }

// GetOrCreateTx looks a train up by its unique number and creates it when
// absent, within the scope of an existing transaction.  The record's ID
// is populated either way.
func (r *TrainRepo) GetOrCreateTx(ctx context.Context, tx *sql.Tx, t *model.Train) error {
	t.Number = strings.TrimSpace(t.Number)
	const sel = `SELECT id, number, name, created_at FROM trains WHERE number = ?`
	err := tx.QueryRowContext(ctx, sel, t.Number).Scan(&t.ID, &t.Number, &t.Name, &t.CreatedAt)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	const ins = `INSERT INTO trains (number, name) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, ins, t.Number, t.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns one train. A missing id yields sql.ErrNoRows.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (*model.Train, error) {
	const q = `SELECT id, number, name, created_at FROM trains WHERE id = ?`
	var t model.Train
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Number, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// TrainDetail is a catalog view of one train with its routes, each
// carrying the ordered stop list and the weekly schedules.  It is
// returned by List for the admin catalog endpoint.
type TrainDetail struct {
	ID     uint64        `json:"id"`
	Number string        `json:"number"`
	Name   string        `json:"name"`
	Routes []RouteDetail `json:"routes"`
}

// RouteDetail is one route of a train in the catalog view.
type RouteDetail struct {
	ID        uint64           `json:"id"`
	Name      string           `json:"name"`
	Seats     map[string]int   `json:"seats"`
	Prices    map[string]float64 `json:"pricing"`
	Stops     []StopDetail     `json:"stops"`
	Schedules []ScheduleDetail `json:"schedules"`
}

// StopDetail is one stop in the catalog view, with station data joined in.
type StopDetail struct {
	ID           uint64  `json:"id"`
	Order        uint32  `json:"order"`
	StationCode  string  `json:"station_code"`
	StationName  string  `json:"station_name"`
	ArrivalMin   int     `json:"arrival_minutes_from_source"`
	DepartureMin int     `json:"departure_minutes_from_source"`
	DistanceKM   float64 `json:"distance_kms_from_source"`
}

// ScheduleDetail is one weekly schedule in the catalog view.
type ScheduleDetail struct {
	ID            uint64 `json:"id"`
	Weekday       string `json:"weekday"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

// List assembles the full catalog: every train with its routes, ordered
// stops and schedules.  Children are fetched with one query per level
// rather than per parent.
func (r *TrainRepo) List(ctx context.Context) ([]TrainDetail, error) {
	const q = `SELECT id, number, name FROM trains ORDER BY number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trains := make([]TrainDetail, 0)
	trainIdx := make(map[uint64]int)
	for rows.Next() {
		var t TrainDetail
		if err := rows.Scan(&t.ID, &t.Number, &t.Name); err != nil {
			return nil, err
		}
		t.Routes = []RouteDetail{}
		trainIdx[t.ID] = len(trains)
		trains = append(trains, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(trains) == 0 {
		return trains, nil
	}

	const rq = `SELECT id, train_id, name, general_seats, tatkal_seats, general_price, tatkal_price
	            FROM routes ORDER BY train_id, id`
	rrows, err := r.db.QueryContext(ctx, rq)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	routeIdx := make(map[uint64][2]int) // route id -> (train index, route index)
	for rrows.Next() {
		var (
			rd           RouteDetail
			trainID      uint64
			genSeats     int
			tatSeats     int
			genPrice     float64
			tatPrice     float64
		)
		if err := rrows.Scan(&rd.ID, &trainID, &rd.Name, &genSeats, &tatSeats, &genPrice, &tatPrice); err != nil {
			return nil, err
		}
		ti, ok := trainIdx[trainID]
		if !ok {
			continue
		}
		rd.Seats = map[string]int{"general": genSeats, "tatkal": tatSeats}
		rd.Prices = map[string]float64{"general": genPrice, "tatkal": tatPrice}
		rd.Stops = []StopDetail{}
		rd.Schedules = []ScheduleDetail{}
		routeIdx[rd.ID] = [2]int{ti, len(trains[ti].Routes)}
		trains[ti].Routes = append(trains[ti].Routes, rd)
	}
	if err := rrows.Err(); err != nil {
		return nil, err
	}

	const sq = `SELECT rs.id, rs.route_id, rs.stop_order, st.code, st.name,
	                   rs.arrival_minutes_from_source, rs.departure_minutes_from_source, rs.distance_kms_from_source
	            FROM route_stops rs
	            JOIN stations st ON st.id = rs.station_id
	            ORDER BY rs.route_id, rs.stop_order`
	srows, err := r.db.QueryContext(ctx, sq)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var (
			sd      StopDetail
			routeID uint64
		)
		if err := srows.Scan(&sd.ID, &routeID, &sd.Order, &sd.StationCode, &sd.StationName,
			&sd.ArrivalMin, &sd.DepartureMin, &sd.DistanceKM); err != nil {
			return nil, err
		}
		if idx, ok := routeIdx[routeID]; ok {
			trains[idx[0]].Routes[idx[1]].Stops = append(trains[idx[0]].Routes[idx[1]].Stops, sd)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	const cq = `SELECT id, route_id, weekday, departure_time, arrival_time FROM schedules ORDER BY route_id, id`
	crows, err := r.db.QueryContext(ctx, cq)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var (
			cd      ScheduleDetail
			routeID uint64
		)
		if err := crows.Scan(&cd.ID, &routeID, &cd.Weekday, &cd.DepartureTime, &cd.ArrivalTime); err != nil {
			return nil, err
		}
		if idx, ok := routeIdx[routeID]; ok {
			trains[idx[0]].Routes[idx[1]].Schedules = append(trains[idx[0]].Routes[idx[1]].Schedules, cd)
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	return trains, nil
}
