package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  JWTAuth stores the claim value without normalizing its type,
// so every representation the JWT library may produce is accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseJourneyDate parses a "YYYY-MM-DD" journey date in UTC.
func parseJourneyDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// bookingView is the JSON shape of a booking in API responses.
type bookingView struct {
	ID              uint64     `json:"id"`
	UserID          uint64     `json:"user_id"`
	ScheduleID      uint64     `json:"schedule_id"`
	JourneyDate     string     `json:"journey_date"`
	FromStopID      uint64     `json:"from_stop_id"`
	ToStopID        uint64     `json:"to_stop_id"`
	FromOrder       uint32     `json:"from_order"`
	ToOrder         uint32     `json:"to_order"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	Amount          float64    `json:"amount"`
	ConfirmedAt     *time.Time `json:"confirmation_datetime"`
	CancelledAt     *time.Time `json:"cancellation_datetime"`
	CreatedAt       time.Time  `json:"created_at"`
	WaitingPosition *int       `json:"waiting_position,omitempty"`
}

func newBookingView(b *model.Booking) bookingView {
	return bookingView{
		ID:          b.ID,
		UserID:      b.UserID,
		ScheduleID:  b.ScheduleID,
		JourneyDate: b.JourneyDate.Format("2006-01-02"),
		FromStopID:  b.FromStopID,
		ToStopID:    b.ToStopID,
		FromOrder:   b.FromOrder,
		ToOrder:     b.ToOrder,
		Type:        string(b.Type),
		Status:      string(b.Status),
		Amount:      b.Amount,
		ConfirmedAt: b.ConfirmedAt,
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,
	}
}
