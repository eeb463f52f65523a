package engine

import (
	"testing"
	"time"
)

func TestOldestWaitingPicksFIFO(t *testing.T) {
	freed := Segment{2, 5}
	bookings := []SeatBooking{
		mkBooking(1, 2, 5, TypeGeneral, StatusConfirmed, t0),                 // not waiting
		mkBooking(2, 3, 4, TypeGeneral, StatusWaiting, t0.Add(2*time.Hour)),  // later
		mkBooking(3, 4, 6, TypeGeneral, StatusWaiting, t0.Add(time.Hour)),    // earliest overlapping
		mkBooking(4, 5, 7, TypeGeneral, StatusWaiting, t0),                   // earliest but disjoint
		mkBooking(5, 2, 3, TypeTatkal, StatusConfirmed, t0.Add(time.Minute)), // wrong class
	}
	got, ok := OldestWaiting(bookings, freed)
	if !ok || got.ID != 3 {
		t.Fatalf("OldestWaiting = (%v, %v), want booking 3", got.ID, ok)
	}
}

func TestOldestWaitingTieBreaksOnID(t *testing.T) {
	freed := Segment{1, 3}
	bookings := []SeatBooking{
		mkBooking(9, 1, 3, TypeGeneral, StatusWaiting, t0),
		mkBooking(4, 1, 3, TypeGeneral, StatusWaiting, t0),
	}
	got, ok := OldestWaiting(bookings, freed)
	if !ok || got.ID != 4 {
		t.Fatalf("OldestWaiting = (%v, %v), want booking 4 on equal timestamps", got.ID, ok)
	}
}

func TestOldestWaitingNoCandidate(t *testing.T) {
	bookings := []SeatBooking{
		mkBooking(1, 5, 7, TypeGeneral, StatusWaiting, t0),
		mkBooking(2, 1, 3, TypeGeneral, StatusCancelled, t0),
	}
	if _, ok := OldestWaiting(bookings, Segment{1, 3}); ok {
		t.Fatalf("expected no candidate")
	}
}

func TestWaitingPosition(t *testing.T) {
	target := mkBooking(10, 2, 5, TypeGeneral, StatusWaiting, t0.Add(3*time.Hour))
	bookings := []SeatBooking{
		mkBooking(1, 2, 5, TypeGeneral, StatusWaiting, t0),              // ahead
		mkBooking(2, 3, 4, TypeGeneral, StatusWaiting, t0.Add(time.Hour)), // ahead, overlapping
		mkBooking(3, 5, 8, TypeGeneral, StatusWaiting, t0),              // disjoint, ignored
		mkBooking(4, 2, 5, TypeGeneral, StatusWaiting, t0.Add(4*time.Hour)), // behind
		mkBooking(5, 2, 5, TypeGeneral, StatusConfirmed, t0),            // not waiting
		target,
	}
	if got := WaitingPosition(bookings, target); got != 3 {
		t.Fatalf("WaitingPosition = %d, want 3", got)
	}
}

func TestWaitingPositionNotWaiting(t *testing.T) {
	confirmed := mkBooking(1, 1, 2, TypeGeneral, StatusConfirmed, t0)
	if got := WaitingPosition([]SeatBooking{confirmed}, confirmed); got != 0 {
		t.Fatalf("WaitingPosition = %d, want 0 for non-waiting booking", got)
	}
}

func TestPromotionChainIsOneAtATime(t *testing.T) {
	// Two waiting bookings on the freed segment: only the head of the
	// queue is returned; the second stays for the next cancellation.
	freed := Segment{1, 4}
	bookings := []SeatBooking{
		mkBooking(1, 1, 4, TypeGeneral, StatusWaiting, t0),
		mkBooking(2, 2, 3, TypeGeneral, StatusWaiting, t0.Add(time.Minute)),
	}
	first, ok := OldestWaiting(bookings, freed)
	if !ok || first.ID != 1 {
		t.Fatalf("first promotion = (%v, %v), want booking 1", first.ID, ok)
	}
	bookings[0].Status = StatusConfirmed
	second, ok := OldestWaiting(bookings, freed)
	if !ok || second.ID != 2 {
		t.Fatalf("second promotion = (%v, %v), want booking 2", second.ID, ok)
	}
}
