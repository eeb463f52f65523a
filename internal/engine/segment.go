// Package engine implements the seat inventory and booking decision logic
// for scheduled railway journeys.  All functions in this package are pure:
// they operate on in-memory values handed in by the caller and never touch
// storage.  The repository layer is responsible for loading stops and
// bookings and for running these computations inside a transaction when
// the result feeds a write.
package engine

// Segment identifies the part of a route a passenger occupies, from a
// boarding stop to an alighting stop.  Endpoints are 1-based stop orders
// on the route; FromOrder must be strictly less than ToOrder for a segment
// to be valid.  Order is the sole ordering key for seat accounting, not
// time or distance.
type Segment struct {
	FromOrder uint32 `json:"from_order"`
	ToOrder   uint32 `json:"to_order"`
}

// Valid reports whether the segment runs forward along the route.
func (s Segment) Valid() bool { return s.FromOrder < s.ToOrder }

// Overlaps reports whether two segments compete for the same physical seat
// occupancy interval.  The comparison is strict: segments that merely touch
// at a shared stop, such as [1,3] and [3,5], do not overlap because the
// first passenger has alighted before the second boards.  The predicate is
// symmetric in its arguments.
func Overlaps(a, b Segment) bool {
	lo := a.FromOrder
	if b.FromOrder > lo {
		lo = b.FromOrder
	}
	hi := a.ToOrder
	if b.ToOrder < hi {
		hi = b.ToOrder
	}
	return lo < hi
}
