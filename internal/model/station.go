package model

import "time"

// Station is an immutable reference entity identifying a physical railway
// station.  Stations are referenced by route stops and addressed on the
// API by their unique code (e.g. "NDLS").
//
// Fields:
//  ID        – primary key identifier.
//  Code      – unique short station code.
//  Name      – display name of the station.
//  City      – city the station serves.
//  State     – state the station is located in.
//  CreatedAt – timestamp of creation.
type Station struct {
	ID        uint64    // stations.id
	Code      string    // stations.code
	Name      string    // stations.name
	City      string    // stations.city
	State     string    // stations.state
	CreatedAt time.Time // stations.created_at
}

// Train is an immutable reference entity.  A train owns one or more
// routes; its number is unique across the network.
//
// Fields:
//  ID        – primary key identifier.
//  Number    – unique train number.
//  Name      – display name of the train.
//  CreatedAt – timestamp of creation.
type Train struct {
	ID        uint64    // trains.id
	Number    string    // trains.number
	Name      string    // trains.name
	CreatedAt time.Time // trains.created_at
}
