package engine

import "math"

// StopPoint is the positional data of one route stop needed for pricing
// and duration: its order plus minute and distance offsets from the
// route's nominal start.  For the first stop the arrival offset is 0; for
// the last stop the departure offset equals the arrival offset.
type StopPoint struct {
	Order        uint32
	ArrivalMin   int
	DepartureMin int
	DistanceKM   float64
}

// PriceList is a route's full-distance fares per class.
type PriceList struct {
	General float64 `json:"general"`
	Tatkal  float64 `json:"tatkal"`
}

// JourneyDistanceKM returns the distance covered between a boarding and an
// alighting stop.  Distances are monotonically non-decreasing with order,
// so the result is never negative for a valid segment.
func JourneyDistanceKM(from, to StopPoint) float64 {
	return to.DistanceKM - from.DistanceKM
}

// JourneyDurationMin returns the minutes between departing the boarding
// stop and arriving at the alighting stop.
func JourneyDurationMin(from, to StopPoint) int {
	return to.ArrivalMin - from.DepartureMin
}

// ProratedPrice charges the fraction of the route's full-distance fare
// matching the fraction of the route the segment covers, rounded to two
// decimal places.  A booking over the full route therefore pays exactly
// the listed fare.  A zero route distance prices everything at zero.
func ProratedPrice(journeyKM, routeTotalKM, fullFare float64) float64 {
	if routeTotalKM <= 0 {
		return 0
	}
	return Round2(journeyKM / routeTotalKM * fullFare)
}

// Round2 rounds a monetary value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
