package engine

import "time"

// BookingType is the seat class a booking purchases.
type BookingType string

// BookingStatus is the lifecycle state of a booking.  Transitions are
// waiting -> confirmed -> cancelled, waiting -> cancelled and
// confirmed -> cancelled; cancelled is terminal and waiting is never
// re-entered.  A tatkal booking is never waiting.
type BookingStatus string

const (
	TypeGeneral BookingType = "general"
	TypeTatkal  BookingType = "tatkal"

	StatusWaiting   BookingStatus = "waiting"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ValidType reports whether t is a known seat class.
func ValidType(t BookingType) bool { return t == TypeGeneral || t == TypeTatkal }

// SeatBooking is the minimal projection of a stored booking needed for
// seat accounting: its segment, class, status and FIFO ordering keys.
// The repository layer loads these for one (schedule, journey date) pair.
type SeatBooking struct {
	ID        uint64
	UserID    uint64
	Segment   Segment
	Type      BookingType
	Status    BookingStatus
	CreatedAt time.Time
}

// SeatPool is a route's fixed seat inventory split by class.
type SeatPool struct {
	General int `json:"general"`
	Tatkal  int `json:"tatkal"`
}

// Total returns the combined pool size.
func (p SeatPool) Total() int { return p.General + p.Tatkal }

// ClassCount holds a per-class pair of seat counts.
type ClassCount struct {
	General int `json:"general"`
	Tatkal  int `json:"tatkal"`
}

// SeatDetails is the full availability picture for one requested segment
// of a journey.  Waiting and cancelled tatkal counts are not tracked
// because tatkal bookings never wait and confirmed tatkal bookings cannot
// be cancelled.
type SeatDetails struct {
	Total     int        `json:"total"`
	Seats     ClassCount `json:"seats"`
	Available ClassCount `json:"available_seats"`
	Confirmed ClassCount `json:"confirmed_seats"`
	Waiting   ClassCount `json:"waiting_seats"`
	Cancelled ClassCount `json:"cancelled_seats"`
}

// ComputeSeatDetails scans the journey's bookings, keeps those whose
// segment overlaps the requested one, partitions them by class and status
// and derives per-class availability under the window rules:
//
//   - tatkal window open: unsold general inventory becomes tatkal
//     purchasable on top of the tatkal pool, and plain general sales are
//     closed;
//   - general window open: general availability is pool minus confirmed;
//   - neither open: both availabilities are zero.
//
// Returned availabilities are never negative.  Cancelled bookings count
// toward the cancelled tally but never toward occupancy.
func ComputeSeatDetails(pool SeatPool, w Window, seg Segment, bookings []SeatBooking) SeatDetails {
	var confirmedGeneral, waitingGeneral, cancelledGeneral, confirmedTatkal int
	for _, b := range bookings {
		if !Overlaps(seg, b.Segment) {
			continue
		}
		switch b.Type {
		case TypeGeneral:
			switch b.Status {
			case StatusConfirmed:
				confirmedGeneral++
			case StatusWaiting:
				waitingGeneral++
			case StatusCancelled:
				cancelledGeneral++
			}
		case TypeTatkal:
			if b.Status == StatusConfirmed {
				confirmedTatkal++
			}
		}
	}

	var availableGeneral, availableTatkal int
	switch {
	case w.TatkalOpen:
		availableTatkal = pool.Tatkal - confirmedTatkal
		if spare := pool.General - confirmedGeneral; spare > 0 {
			availableTatkal += spare
		}
	case w.GeneralOpen:
		availableGeneral = pool.General - confirmedGeneral
	}
	if availableGeneral < 0 {
		availableGeneral = 0
	}
	if availableTatkal < 0 {
		availableTatkal = 0
	}

	return SeatDetails{
		Total:     pool.Total(),
		Seats:     ClassCount{General: pool.General, Tatkal: pool.Tatkal},
		Available: ClassCount{General: availableGeneral, Tatkal: availableTatkal},
		Confirmed: ClassCount{General: confirmedGeneral, Tatkal: confirmedTatkal},
		Waiting:   ClassCount{General: waitingGeneral},
		Cancelled: ClassCount{General: cancelledGeneral},
	}
}
