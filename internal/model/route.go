package model

import (
	"time"

	"github.com/iliyamo/railway-reservation/internal/engine"
)

// Route is a train's fixed itinerary.  It carries the shared seat pool
// and the full-distance price list for both classes; segment fares are
// prorated from these by the engine.  The pool invariant
// general + tatkal == total seats is enforced at creation time.
//
// Fields:
//  ID        – primary key identifier.
//  TrainID   – owning train.
//  Name      – route display name.
//  Seats     – per-class seat pool (routes.general_seats, routes.tatkal_seats).
//  Prices    – per-class full-route fares (routes.general_price, routes.tatkal_price).
//  CreatedAt – timestamp of creation.
type Route struct {
	ID        uint64           // routes.id
	TrainID   uint64           // routes.train_id
	Name      string           // routes.name
	Seats     engine.SeatPool  // routes.general_seats + routes.tatkal_seats
	Prices    engine.PriceList // routes.general_price + routes.tatkal_price
	CreatedAt time.Time        // routes.created_at
}

// RouteStop is one stop on a route.  Stops are owned by their route and
// created together with it; they are only mutated through the explicit
// replace-all-stops operation.  Order is 1-based, unique per route and
// strictly increasing; distance offsets are monotonically non-decreasing
// with order.  For the first stop the arrival offset is 0 and for the
// last stop the departure offset equals the arrival offset.
//
// Fields:
//  ID           – primary key identifier.
//  RouteID      – owning route.
//  StationID    – station at this stop.
//  Order        – 1-based position on the route.
//  ArrivalMin   – minutes from the route's nominal start to arrival here.
//  DepartureMin – minutes from the route's nominal start to departure.
//  DistanceKM   – kilometres from the route's first stop.
type RouteStop struct {
	ID           uint64  // route_stops.id
	RouteID      uint64  // route_stops.route_id
	StationID    uint64  // route_stops.station_id
	Order        uint32  // route_stops.stop_order
	ArrivalMin   int     // route_stops.arrival_minutes_from_source
	DepartureMin int     // route_stops.departure_minutes_from_source
	DistanceKM   float64 // route_stops.distance_kms_from_source

	// StationCode and StationName are populated by joined reads.
	StationCode string
	StationName string
}

// Point projects the stop onto the engine's positional value type.
func (s RouteStop) Point() engine.StopPoint {
	return engine.StopPoint{
		Order:        s.Order,
		ArrivalMin:   s.ArrivalMin,
		DepartureMin: s.DepartureMin,
		DistanceKM:   s.DistanceKM,
	}
}
