package engine

// Decide resolves the status of a new booking request from the window
// descriptor and seat details computed for the requested segment.
//
// General requests require an open general window.  With availability they
// confirm immediately; without it they queue as waiting, so a general
// request inside its window never fails on capacity.  Tatkal requests
// require an open tatkal window and available tatkal inventory; there is
// no tatkal waitlist, so exhausted inventory is ErrSoldOut.
//
// The caller must run Decide and the subsequent insert under one
// serialized transaction per (schedule, journey date) so that two
// concurrent requests cannot both consume the last seat.
func Decide(t BookingType, w Window, d SeatDetails) (BookingStatus, error) {
	switch t {
	case TypeGeneral:
		if !w.GeneralOpen {
			return "", ErrWindowClosed
		}
		if d.Available.General > 0 {
			return StatusConfirmed, nil
		}
		return StatusWaiting, nil
	case TypeTatkal:
		if !w.TatkalOpen {
			return "", ErrWindowClosed
		}
		if d.Available.Tatkal > 0 {
			return StatusConfirmed, nil
		}
		return "", ErrSoldOut
	}
	return "", ErrValidation
}

// CancelGuard checks whether a booking in the given class and status may
// be cancelled.  Cancelled bookings stay cancelled and confirmed tatkal
// bookings are non-cancellable.
func CancelGuard(t BookingType, s BookingStatus) error {
	if s == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if t == TypeTatkal && s == StatusConfirmed {
		return ErrNonCancellable
	}
	return nil
}
