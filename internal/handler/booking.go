package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/engine"
	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/queue"
	"github.com/iliyamo/railway-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/railway-reservation/internal/service"
)

// BookingHandler groups the repositories required to create, cancel and
// read bookings.  All methods assume JWT authentication has already been
// performed by middleware.  Create and Cancel run their availability
// reads and writes inside one transaction holding the schedule row lock,
// so that concurrent requests for the same scheduled run serialize; this
// is what keeps the seat pools from being oversubscribed.
type BookingHandler struct {
	Bookings  *repository.BookingRepo
	Schedules *repository.ScheduleRepo
	Routes    *repository.RouteRepo
}

// NewBookingHandler constructs a new BookingHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewBookingHandler(bookings *repository.BookingRepo, schedules *repository.ScheduleRepo, routes *repository.RouteRepo) *BookingHandler {
	if bookings == nil || schedules == nil || routes == nil {
		panic("nil repository passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Schedules: schedules, Routes: routes}
}

type createBookingReq struct {
	ScheduleID      uint64 `json:"schedule_id"`
	JourneyDate     string `json:"journey_date"`
	SourceCode      string `json:"source_station_code"`
	DestinationCode string `json:"destination_station_code"`
	Type            string `json:"type"`
}

// Create handles POST /v1/bookings.  It gates the request on the class's
// booking window, computes availability for the requested segment and
// either confirms the booking, queues it (general only) or rejects it
// (tatkal sold out).  The prorated fare is charged at creation.  A
// confirmed booking is announced on the booking.confirmed queue.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	bookingType := engine.BookingType(strings.ToLower(strings.TrimSpace(req.Type)))
	if !engine.ValidType(bookingType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be general or tatkal"})
	}
	journeyDate, err := parseJourneyDate(req.JourneyDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid journey_date"})
	}
	if req.ScheduleID == 0 || req.SourceCode == "" || req.DestinationCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id, source_station_code and destination_station_code are required"})
	}

	ctx := c.Request().Context()
	schedule, route, err := h.Schedules.GetWithRoute(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if journeyDate.Before(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "journey date cannot be in the past"})
	}
	if engine.WeekdayCode(journeyDate) != schedule.Weekday {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule does not run on that weekday"})
	}
	departureClock, err := schedule.DepartureClock()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid schedule data"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Serialize all seat accounting for this scheduled run.
	if err := h.Schedules.LockTx(ctx, tx, schedule.ID); err != nil {
		if errors.Is(repository.AsConflict(err), repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflict, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock schedule"})
	}
	// Re-read under the lock so the seat pools and fares used below are
	// the ones the lock serialized against.
	schedule, route, err = h.Schedules.GetWithRouteTx(ctx, tx, schedule.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}

	stops, err := h.Routes.StopsByRouteTx(ctx, tx, route.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load route stops"})
	}
	fromStop, toStop, ok := findSegmentStops(stops, req.SourceCode, req.DestinationCode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid segment for this route"})
	}

	window := engine.ComputeWindow(
		engine.DepartureInstant(journeyDate, departureClock, fromStop.DepartureMin), now)

	journeyBookings, err := h.Bookings.ListForJourneyTx(ctx, tx, schedule.ID, journeyDate)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	seg := engine.Segment{FromOrder: fromStop.Order, ToOrder: toStop.Order}
	details := engine.ComputeSeatDetails(route.Seats, window, seg, seatBookings(journeyBookings))

	status, err := engine.Decide(bookingType, window, details)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrWindowClosed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": string(bookingType) + " booking window not open"})
		case errors.Is(err, engine.ErrSoldOut):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no tatkal seats available"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking request"})
	}

	routeTotalKM := engine.JourneyDistanceKM(stops[0].Point(), stops[len(stops)-1].Point())
	fare := route.Prices.General
	if bookingType == engine.TypeTatkal {
		fare = route.Prices.Tatkal
	}
	amount := engine.ProratedPrice(engine.JourneyDistanceKM(fromStop.Point(), toStop.Point()), routeTotalKM, fare)

	booking := &model.Booking{
		UserID:      userID,
		ScheduleID:  schedule.ID,
		JourneyDate: journeyDate,
		FromStopID:  fromStop.ID,
		ToStopID:    toStop.ID,
		Type:        bookingType,
		Status:      status,
		Amount:      amount,
	}
	if status == engine.StatusConfirmed {
		booking.ConfirmedAt = &now
	}
	if err := h.Bookings.CreateTx(ctx, tx, booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	if err := tx.Commit(); err != nil {
		if errors.Is(repository.AsConflict(err), repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflict, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if booking.Status == engine.StatusConfirmed {
		publishConfirmed(booking, schedule, fromStop.StationCode, toStop.StationCode)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": newBookingView(booking)})
}

// Cancel handles POST /v1/bookings/:id/cancel.  Cancellation is guarded
// (already-cancelled and confirmed-tatkal bookings fail) and, when a
// confirmed general seat is freed, the oldest waiting general booking on
// an overlapping segment is promoted within the same transaction.  At
// most one promotion happens per cancellation.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	// First read resolves the schedule to lock; state is re-read under
	// the lock before any decision is made.
	peek, err := h.Bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Schedules.LockTx(ctx, tx, peek.ScheduleID); err != nil {
		if errors.Is(repository.AsConflict(err), repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation conflict, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock schedule"})
	}

	booking, err := h.Bookings.GetByIDForUserTx(ctx, tx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := engine.CancelGuard(booking.Type, booking.Status); err != nil {
		switch {
		case errors.Is(err, engine.ErrAlreadyCancelled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already cancelled"})
		case errors.Is(err, engine.ErrNonCancellable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tatkal booking cannot be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
	}

	now := time.Now().UTC()
	freedConfirmedGeneral := booking.Status == engine.StatusConfirmed && booking.Type == engine.TypeGeneral
	if err := h.Bookings.MarkCancelledTx(ctx, tx, booking.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}

	var promoted *engine.SeatBooking
	if freedConfirmedGeneral {
		journeyBookings, err := h.Bookings.ListForJourneyTx(ctx, tx, booking.ScheduleID, booking.JourneyDate)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load waitlist"})
		}
		if cand, ok := engine.OldestWaiting(seatBookings(journeyBookings), booking.Segment()); ok {
			if err := h.Bookings.MarkConfirmedTx(ctx, tx, cand.ID, now); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to promote waiting booking"})
			}
			promoted = &cand
		}
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(repository.AsConflict(err), repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cancellation conflict, please retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	if promoted != nil {
		ev := queue.BookingConfirmedEvent{
			BookingID:   promoted.ID,
			UserID:      promoted.UserID,
			ScheduleID:  booking.ScheduleID,
			JourneyDate: booking.JourneyDate.Format("2006-01-02"),
			FromOrder:   promoted.Segment.FromOrder,
			ToOrder:     promoted.Segment.ToOrder,
			Type:        string(engine.TypeGeneral),
			Source:      "waitlist-promotion",
			ConfirmedAt: now.Format(time.RFC3339),
		}
		if err := queue_publisher.PublishBookingConfirmed(context.Background(), ev); err != nil {
			log.Printf("booking: publish promotion event failed: %v", err)
		}
	}

	booking.Status = engine.StatusCancelled
	booking.CancelledAt = &now
	return c.JSON(http.StatusOK, echo.Map{"item": newBookingView(booking)})
}

// Get handles GET /v1/bookings/:id.  It returns the booking with, for
// waiting bookings, the 1-based FIFO position among waiting general
// bookings on overlapping segments.  A booking owned by another user is
// reported as not found.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	booking, err := h.Bookings.GetByIDForUser(ctx, bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	view := newBookingView(booking)
	if booking.Status == engine.StatusWaiting {
		journeyBookings, err := h.Bookings.ListForJourney(ctx, booking.ScheduleID, booking.JourneyDate)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load waitlist"})
		}
		if pos := engine.WaitingPosition(seatBookings(journeyBookings), booking.SeatBooking()); pos > 0 {
			view.WaitingPosition = &pos
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"item": view})
}

// ListMine handles GET /v1/my-bookings.  It returns all bookings created
// by the current user, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]bookingView, 0, len(bookings))
	for i := range bookings {
		items = append(items, newBookingView(&bookings[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// findSegmentStops resolves the boarding and alighting stops by station
// code on an ordered stop list.  It fails when either code is absent
// from the route or the segment does not run forward.
func findSegmentStops(stops []model.RouteStop, sourceCode, destCode string) (from, to model.RouteStop, ok bool) {
	sourceCode = strings.ToUpper(strings.TrimSpace(sourceCode))
	destCode = strings.ToUpper(strings.TrimSpace(destCode))
	var haveFrom, haveTo bool
	for _, s := range stops {
		switch s.StationCode {
		case sourceCode:
			from, haveFrom = s, true
		case destCode:
			to, haveTo = s, true
		}
	}
	seg := engine.Segment{FromOrder: from.Order, ToOrder: to.Order}
	if !haveFrom || !haveTo || !seg.Valid() {
		return model.RouteStop{}, model.RouteStop{}, false
	}
	return from, to, true
}

// seatBookings projects stored bookings onto the engine's accounting view.
func seatBookings(bookings []model.Booking) []engine.SeatBooking {
	out := make([]engine.SeatBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.SeatBooking())
	}
	return out
}

// publishConfirmed announces a freshly confirmed booking on the message
// queue.  Publish failures are logged and ignored; the booking itself is
// already committed.
func publishConfirmed(b *model.Booking, s *model.Schedule, fromCode, toCode string) {
	confirmedAt := ""
	if b.ConfirmedAt != nil {
		confirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		ScheduleID:  s.ID,
		JourneyDate: b.JourneyDate.Format("2006-01-02"),
		FromOrder:   b.FromOrder,
		ToOrder:     b.ToOrder,
		FromCode:    fromCode,
		ToCode:      toCode,
		Type:        string(b.Type),
		Amount:      b.Amount,
		Source:      "booking-create",
		ConfirmedAt: confirmedAt,
	}
	if err := queue_publisher.PublishBookingConfirmed(context.Background(), ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
