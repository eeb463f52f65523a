package model

import (
	"time"

	"github.com/iliyamo/railway-reservation/internal/engine"
)

// Booking is the mutable core entity of the reservation system.  A booking
// occupies one seat of its class on a segment of a scheduled run.  Status
// only moves forward (waiting -> confirmed -> cancelled, or straight to
// cancelled); bookings are never physically deleted.  NotificationSent is
// owned by the departure notification job and never touches seat
// accounting.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – passenger who booked.
//  ScheduleID     – scheduled run being booked.
//  JourneyDate    – calendar date the run departs.
//  FromStopID     – boarding route stop.
//  ToStopID       – alighting route stop.
//  FromOrder      – boarding stop order (denormalized for seat math).
//  ToOrder        – alighting stop order.
//  Type           – seat class (general or tatkal).
//  Status         – waiting, confirmed or cancelled.
//  Amount         – prorated fare charged, 2 decimal places.
//  ConfirmedAt    – set exactly once when the booking confirms.
//  CancelledAt    – set exactly once when the booking is cancelled.
//  NotificationSent – whether the departure reminder was sent.
//  CreatedAt      – creation timestamp; FIFO key for the waitlist.
//  UpdatedAt      – timestamp of last update.
type Booking struct {
	ID               uint64               // bookings.id
	UserID           uint64               // bookings.user_id
	ScheduleID       uint64               // bookings.schedule_id
	JourneyDate      time.Time            // bookings.journey_date
	FromStopID       uint64               // bookings.from_stop_id
	ToStopID         uint64               // bookings.to_stop_id
	FromOrder        uint32               // route_stops.stop_order of the boarding stop
	ToOrder          uint32               // route_stops.stop_order of the alighting stop
	Type             engine.BookingType   // bookings.type
	Status           engine.BookingStatus // bookings.status
	Amount           float64              // bookings.amount
	ConfirmedAt      *time.Time           // bookings.confirmation_datetime (nullable)
	CancelledAt      *time.Time           // bookings.cancellation_datetime (nullable)
	NotificationSent bool                 // bookings.notification_sent
	CreatedAt        time.Time            // bookings.created_at
	UpdatedAt        time.Time            // bookings.updated_at
}

// Segment returns the stop-order interval the booking occupies.
func (b Booking) Segment() engine.Segment {
	return engine.Segment{FromOrder: b.FromOrder, ToOrder: b.ToOrder}
}

// SeatBooking projects the booking onto the engine's accounting view.
func (b Booking) SeatBooking() engine.SeatBooking {
	return engine.SeatBooking{
		ID:        b.ID,
		UserID:    b.UserID,
		Segment:   b.Segment(),
		Type:      b.Type,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}
