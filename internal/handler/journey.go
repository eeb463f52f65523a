package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/engine"
	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// JourneyHandler serves the public search and availability endpoints.
// Both are read-only snapshots: they run outside any schedule lock, so a
// concurrent booking may invalidate the numbers by the time the caller
// acts on them.
type JourneyHandler struct {
	Bookings  *repository.BookingRepo
	Schedules *repository.ScheduleRepo
	Routes    *repository.RouteRepo
	Trains    *repository.TrainRepo
}

// NewJourneyHandler constructs a JourneyHandler with the provided
// repositories.
func NewJourneyHandler(bookings *repository.BookingRepo, schedules *repository.ScheduleRepo, routes *repository.RouteRepo, trains *repository.TrainRepo) *JourneyHandler {
	return &JourneyHandler{Bookings: bookings, Schedules: schedules, Routes: routes, Trains: trains}
}

// journeyResult is one bookable journey in the search response.
type journeyResult struct {
	ScheduleID       uint64             `json:"schedule_id"`
	TrainNumber      string             `json:"train_number"`
	TrainName        string             `json:"train_name"`
	RouteName        string             `json:"route_name"`
	SourceCode       string             `json:"source_station_code"`
	SourceName       string             `json:"source_station_name"`
	DestinationCode  string             `json:"destination_station_code"`
	DestinationName  string             `json:"destination_station_name"`
	DepartureAt      time.Time          `json:"departure_datetime"`
	ArrivalAt        time.Time          `json:"arrival_datetime"`
	DurationMinutes  int                `json:"duration_minutes"`
	DistanceKM       float64            `json:"distance_km"`
	Prices           engine.PriceList   `json:"prices"`
	Window           engine.Window      `json:"booking_window"`
	Seats            engine.SeatDetails `json:"seat_details"`
}

// Search handles GET /v1/journeys/search. It lists every schedule that
// runs on the requested date and serves the requested station pair in
// forward order, with per-segment availability and prorated fares for
// both classes.
func (h *JourneyHandler) Search(c echo.Context) error {
	sourceCode := strings.ToUpper(strings.TrimSpace(c.QueryParam("source")))
	destCode := strings.ToUpper(strings.TrimSpace(c.QueryParam("destination")))
	if sourceCode == "" || destCode == "" || sourceCode == destCode {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "source and destination station codes are required and must differ"})
	}
	journeyDate, err := parseJourneyDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	now := time.Now().UTC()
	schedules, routes, err := h.Schedules.SearchCandidates(ctx, engine.WeekdayCode(journeyDate))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	results := make([]journeyResult, 0)
	trainCache := make(map[uint64]*model.Train)
	stopCache := make(map[uint64][]model.RouteStop)
	for i := range schedules {
		schedule := &schedules[i]
		route := &routes[i]
		stops, ok := stopCache[route.ID]
		if !ok {
			stops, err = h.Routes.StopsByRoute(ctx, route.ID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
			}
			stopCache[route.ID] = stops
		}
		fromStop, toStop, ok := findSegmentStops(stops, sourceCode, destCode)
		if !ok {
			continue
		}
		item, err := h.resultFor(c, schedule, route, stops, fromStop, toStop, journeyDate, now, trainCache)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		results = append(results, item)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":  journeyDate.Format("2006-01-02"),
		"items": results,
	})
}

// Availability handles GET /v1/schedules/:id/availability. It returns the
// same per-segment snapshot as Search for one schedule.
func (h *JourneyHandler) Availability(c echo.Context) error {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	sourceCode := strings.ToUpper(strings.TrimSpace(c.QueryParam("source")))
	destCode := strings.ToUpper(strings.TrimSpace(c.QueryParam("destination")))
	journeyDate, dateErr := parseJourneyDate(c.QueryParam("date"))
	if dateErr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	schedule, route, err := h.Schedules.GetWithRoute(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if engine.WeekdayCode(journeyDate) != schedule.Weekday {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule does not run on that weekday"})
	}
	stops, err := h.Routes.StopsByRoute(ctx, route.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	// Default to the full route when no segment is given.
	if sourceCode == "" && destCode == "" && len(stops) >= 2 {
		sourceCode = stops[0].StationCode
		destCode = stops[len(stops)-1].StationCode
	}
	fromStop, toStop, ok := findSegmentStops(stops, sourceCode, destCode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid segment for this route"})
	}
	item, err := h.resultFor(c, schedule, route, stops, fromStop, toStop, journeyDate, time.Now().UTC(), map[uint64]*model.Train{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

// resultFor assembles one journeyResult: window, fares and seat details
// for the given segment of a scheduled run.
func (h *JourneyHandler) resultFor(c echo.Context, schedule *model.Schedule, route *model.Route, stops []model.RouteStop, fromStop, toStop model.RouteStop, journeyDate, now time.Time, trainCache map[uint64]*model.Train) (journeyResult, error) {
	ctx := c.Request().Context()
	train, ok := trainCache[route.TrainID]
	if !ok {
		var err error
		train, err = h.Trains.GetByID(ctx, route.TrainID)
		if err != nil {
			return journeyResult{}, err
		}
		trainCache[route.TrainID] = train
	}
	departureClock, err := schedule.DepartureClock()
	if err != nil {
		return journeyResult{}, err
	}
	window := engine.ComputeWindow(
		engine.DepartureInstant(journeyDate, departureClock, fromStop.DepartureMin), now)

	bookings, err := h.Bookings.ListForJourney(ctx, schedule.ID, journeyDate)
	if err != nil {
		return journeyResult{}, err
	}
	seg := engine.Segment{FromOrder: fromStop.Order, ToOrder: toStop.Order}
	details := engine.ComputeSeatDetails(route.Seats, window, seg, seatBookings(bookings))

	journeyKM := engine.JourneyDistanceKM(fromStop.Point(), toStop.Point())
	routeKM := engine.JourneyDistanceKM(stops[0].Point(), stops[len(stops)-1].Point())
	return journeyResult{
		ScheduleID:      schedule.ID,
		TrainNumber:     train.Number,
		TrainName:       train.Name,
		RouteName:       route.Name,
		SourceCode:      fromStop.StationCode,
		SourceName:      fromStop.StationName,
		DestinationCode: toStop.StationCode,
		DestinationName: toStop.StationName,
		DepartureAt:     window.DepartureAt,
		ArrivalAt:       engine.DepartureInstant(journeyDate, departureClock, toStop.ArrivalMin),
		DurationMinutes: engine.JourneyDurationMin(fromStop.Point(), toStop.Point()),
		DistanceKM:      journeyKM,
		Prices: engine.PriceList{
			General: engine.ProratedPrice(journeyKM, routeKM, route.Prices.General),
			Tatkal:  engine.ProratedPrice(journeyKM, routeKM, route.Prices.Tatkal),
		},
		Window: window,
		Seats:  details,
	}, nil
}
