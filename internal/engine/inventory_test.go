package engine

import (
	"testing"
	"time"
)

func mkBooking(id uint64, from, to uint32, bt BookingType, st BookingStatus, created time.Time) SeatBooking {
	return SeatBooking{ID: id, UserID: id, Segment: Segment{from, to}, Type: bt, Status: st, CreatedAt: created}
}

var t0 = time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

func TestComputeSeatDetailsGeneralWindow(t *testing.T) {
	pool := SeatPool{General: 3, Tatkal: 1}
	w := Window{GeneralOpen: true}
	seg := Segment{1, 4}
	bookings := []SeatBooking{
		mkBooking(1, 1, 4, TypeGeneral, StatusConfirmed, t0),
		mkBooking(2, 2, 3, TypeGeneral, StatusConfirmed, t0.Add(time.Minute)),
		mkBooking(3, 4, 6, TypeGeneral, StatusConfirmed, t0.Add(2*time.Minute)), // disjoint, ignored
		mkBooking(4, 1, 2, TypeGeneral, StatusCancelled, t0.Add(3*time.Minute)),
		mkBooking(5, 3, 5, TypeGeneral, StatusWaiting, t0.Add(4*time.Minute)),
	}
	d := ComputeSeatDetails(pool, w, seg, bookings)
	if d.Total != 4 {
		t.Errorf("Total = %d, want 4", d.Total)
	}
	if d.Confirmed.General != 2 {
		t.Errorf("Confirmed.General = %d, want 2", d.Confirmed.General)
	}
	if d.Available.General != 1 {
		t.Errorf("Available.General = %d, want 1", d.Available.General)
	}
	if d.Available.Tatkal != 0 {
		t.Errorf("Available.Tatkal = %d, want 0 outside tatkal window", d.Available.Tatkal)
	}
	if d.Waiting.General != 1 || d.Cancelled.General != 1 {
		t.Errorf("Waiting/Cancelled = %d/%d, want 1/1", d.Waiting.General, d.Cancelled.General)
	}
}

func TestComputeSeatDetailsTatkalBorrowsSpareGeneral(t *testing.T) {
	pool := SeatPool{General: 4, Tatkal: 2}
	w := Window{TatkalOpen: true}
	seg := Segment{1, 3}
	bookings := []SeatBooking{
		mkBooking(1, 1, 3, TypeGeneral, StatusConfirmed, t0),
		mkBooking(2, 1, 3, TypeTatkal, StatusConfirmed, t0.Add(time.Minute)),
	}
	d := ComputeSeatDetails(pool, w, seg, bookings)
	// 2 tatkal - 1 confirmed + 3 spare general seats.
	if d.Available.Tatkal != 4 {
		t.Errorf("Available.Tatkal = %d, want 4", d.Available.Tatkal)
	}
	if d.Available.General != 0 {
		t.Errorf("Available.General = %d, want 0 while tatkal is open", d.Available.General)
	}
}

func TestComputeSeatDetailsOverbookedGeneralDoesNotSubsidizeTatkal(t *testing.T) {
	pool := SeatPool{General: 1, Tatkal: 1}
	w := Window{TatkalOpen: true}
	seg := Segment{1, 2}
	bookings := []SeatBooking{
		mkBooking(1, 1, 2, TypeGeneral, StatusConfirmed, t0),
		mkBooking(2, 1, 2, TypeGeneral, StatusConfirmed, t0.Add(time.Minute)),
	}
	d := ComputeSeatDetails(pool, w, seg, bookings)
	// Negative general spare must not shrink the tatkal pool.
	if d.Available.Tatkal != 1 {
		t.Errorf("Available.Tatkal = %d, want 1", d.Available.Tatkal)
	}
}

func TestComputeSeatDetailsNeverNegative(t *testing.T) {
	pool := SeatPool{General: 1, Tatkal: 0}
	seg := Segment{1, 2}
	bookings := []SeatBooking{
		mkBooking(1, 1, 2, TypeGeneral, StatusConfirmed, t0),
		mkBooking(2, 1, 2, TypeGeneral, StatusConfirmed, t0.Add(time.Minute)),
		mkBooking(3, 1, 2, TypeTatkal, StatusConfirmed, t0.Add(2*time.Minute)),
	}
	for _, w := range []Window{{GeneralOpen: true}, {TatkalOpen: true}, {}} {
		d := ComputeSeatDetails(pool, w, seg, bookings)
		if d.Available.General < 0 || d.Available.Tatkal < 0 {
			t.Fatalf("negative availability %+v for window %+v", d.Available, w)
		}
	}
}

func TestComputeSeatDetailsBothWindowsClosed(t *testing.T) {
	d := ComputeSeatDetails(SeatPool{General: 5, Tatkal: 2}, Window{}, Segment{1, 2}, nil)
	if d.Available.General != 0 || d.Available.Tatkal != 0 {
		t.Fatalf("Available = %+v, want zeroes with both windows closed", d.Available)
	}
}

func TestDecide(t *testing.T) {
	open := Window{GeneralOpen: true}
	tatkal := Window{TatkalOpen: true}

	if st, err := Decide(TypeGeneral, open, SeatDetails{Available: ClassCount{General: 1}}); err != nil || st != StatusConfirmed {
		t.Errorf("general with seats: got (%v, %v)", st, err)
	}
	if st, err := Decide(TypeGeneral, open, SeatDetails{}); err != nil || st != StatusWaiting {
		t.Errorf("general without seats: got (%v, %v), want waiting", st, err)
	}
	if _, err := Decide(TypeGeneral, Window{}, SeatDetails{Available: ClassCount{General: 1}}); err != ErrWindowClosed {
		t.Errorf("general closed window: err = %v, want ErrWindowClosed", err)
	}
	if st, err := Decide(TypeTatkal, tatkal, SeatDetails{Available: ClassCount{Tatkal: 1}}); err != nil || st != StatusConfirmed {
		t.Errorf("tatkal with seats: got (%v, %v)", st, err)
	}
	if _, err := Decide(TypeTatkal, tatkal, SeatDetails{}); err != ErrSoldOut {
		t.Errorf("tatkal without seats: err = %v, want ErrSoldOut", err)
	}
	if _, err := Decide(TypeTatkal, open, SeatDetails{Available: ClassCount{Tatkal: 1}}); err != ErrWindowClosed {
		t.Errorf("tatkal outside its window: err = %v, want ErrWindowClosed", err)
	}
	if _, err := Decide(BookingType("sleeper"), open, SeatDetails{}); err != ErrValidation {
		t.Errorf("unknown type: err = %v, want ErrValidation", err)
	}
}

func TestCancelGuard(t *testing.T) {
	if err := CancelGuard(TypeGeneral, StatusConfirmed); err != nil {
		t.Errorf("confirmed general: err = %v", err)
	}
	if err := CancelGuard(TypeGeneral, StatusWaiting); err != nil {
		t.Errorf("waiting general: err = %v", err)
	}
	if err := CancelGuard(TypeGeneral, StatusCancelled); err != ErrAlreadyCancelled {
		t.Errorf("cancelled: err = %v, want ErrAlreadyCancelled", err)
	}
	if err := CancelGuard(TypeTatkal, StatusConfirmed); err != ErrNonCancellable {
		t.Errorf("confirmed tatkal: err = %v, want ErrNonCancellable", err)
	}
}
