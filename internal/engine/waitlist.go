package engine

// OldestWaiting selects the waiting general booking that should be
// promoted when a confirmed general seat on freedSeg is released.
// Candidates are waiting general bookings whose segment overlaps the
// freed one; among them the earliest creation timestamp wins, with ties
// broken by the lower ID (insertion order).  The boolean result is false
// when no candidate exists.
//
// Exactly one promotion happens per qualifying cancellation.  The
// promoted booking's own segment may overlap further waiting bookings;
// those are only considered when a seat is freed again.
func OldestWaiting(bookings []SeatBooking, freedSeg Segment) (SeatBooking, bool) {
	var best SeatBooking
	found := false
	for _, b := range bookings {
		if b.Status != StatusWaiting || b.Type != TypeGeneral {
			continue
		}
		if !Overlaps(freedSeg, b.Segment) {
			continue
		}
		if !found || b.CreatedAt.Before(best.CreatedAt) ||
			(b.CreatedAt.Equal(best.CreatedAt) && b.ID < best.ID) {
			best = b
			found = true
		}
	}
	return best, found
}

// WaitingPosition returns the 1-based FIFO rank of target among the
// waiting general bookings whose segments overlap its own, ordered by
// creation time ascending with ID as tiebreaker.  It returns 0 when the
// target is not in the waiting state.
func WaitingPosition(bookings []SeatBooking, target SeatBooking) int {
	if target.Status != StatusWaiting {
		return 0
	}
	pos := 1
	for _, b := range bookings {
		if b.ID == target.ID || b.Status != StatusWaiting || b.Type != TypeGeneral {
			continue
		}
		if !Overlaps(target.Segment, b.Segment) {
			continue
		}
		if b.CreatedAt.Before(target.CreatedAt) ||
			(b.CreatedAt.Equal(target.CreatedAt) && b.ID < target.ID) {
			pos++
		}
	}
	return pos
}
