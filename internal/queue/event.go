// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking reaches confirmed
// status, either at creation time or through waitlist promotion. It
// contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	UserID      uint64  `json:"user_id"`
	ScheduleID  uint64  `json:"schedule_id"`
	JourneyDate string  `json:"journey_date"`
	FromOrder   uint32  `json:"from_order"`
	ToOrder     uint32  `json:"to_order"`
	FromCode    string  `json:"from_station_code,omitempty"`
	ToCode      string  `json:"to_station_code,omitempty"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount,omitempty"`
	Source      string  `json:"source"`
	ConfirmedAt string  `json:"confirmed_at"`
}

// DepartureReminderEvent is published shortly before a train departs for
// every confirmed, non-cancelled booking that has not been reminded yet.
type DepartureReminderEvent struct {
	BookingID   uint64 `json:"booking_id"`
	UserID      uint64 `json:"user_id"`
	ScheduleID  uint64 `json:"schedule_id"`
	TrainNumber string `json:"train_number"`
	JourneyDate string `json:"journey_date"`
	DepartureAt string `json:"departure_at"`
}
