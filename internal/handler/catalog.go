package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/engine"
	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// CatalogHandler serves the admin-only reference data endpoints:
// stations, trains with their routes, stops and schedules.
type CatalogHandler struct {
	Stations  *repository.StationRepo
	Trains    *repository.TrainRepo
	Routes    *repository.RouteRepo
	Schedules *repository.ScheduleRepo
}

// NewCatalogHandler constructs a CatalogHandler with the provided
// repositories.
func NewCatalogHandler(stations *repository.StationRepo, trains *repository.TrainRepo, routes *repository.RouteRepo, schedules *repository.ScheduleRepo) *CatalogHandler {
	return &CatalogHandler{Stations: stations, Trains: trains, Routes: routes, Schedules: schedules}
}

type createStationReq struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// CreateStation handles POST /v1/stations.
func (h *CatalogHandler) CreateStation(c echo.Context) error {
	var req createStationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and name are required"})
	}
	station := &model.Station{Code: req.Code, Name: strings.TrimSpace(req.Name), City: req.City, State: req.State}
	if err := h.Stations.Create(c.Request().Context(), station); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "station code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create station"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": station})
}

// ListStations handles GET /v1/stations.
func (h *CatalogHandler) ListStations(c echo.Context) error {
	stations, err := h.Stations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": stations})
}

type stopReq struct {
	StationCode  string  `json:"station_code"`
	ArrivalMin   int     `json:"arrival_minutes_from_source"`
	DepartureMin int     `json:"departure_minutes_from_source"`
	DistanceKM   float64 `json:"distance_kms_from_source"`
}

type scheduleReq struct {
	Weekday       string `json:"weekday"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
}

type routeReq struct {
	Name      string             `json:"name"`
	Seats     map[string]int     `json:"seats"`
	Prices    map[string]float64 `json:"pricing"`
	Stops     []stopReq          `json:"stops"`
	Schedules []scheduleReq      `json:"schedules"`
}

type createTrainReq struct {
	Number string     `json:"number"`
	Name   string     `json:"name"`
	Routes []routeReq `json:"routes"`
}

// CreateTrain handles POST /v1/trains.  The payload carries the train
// with its routes, each with ordered stops, seat pools, fares and weekly
// schedules.  Everything is created in one transaction so a validation
// failure on any route leaves no partial catalog entries behind.
func (h *CatalogHandler) CreateTrain(c echo.Context) error {
	var req createTrainReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if req.Number == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train number and name are required"})
	}
	if len(req.Routes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one route is required"})
	}

	ctx := c.Request().Context()
	tx, err := h.Trains.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	train := &model.Train{Number: req.Number, Name: strings.TrimSpace(req.Name)}
	if err := h.Trains.GetOrCreateTx(ctx, tx, train); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create train"})
	}

	for _, rr := range req.Routes {
		route, stops, schedules, verr := h.buildRoute(ctx, train.ID, rr)
		if verr != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
		}
		if err := h.validateScheduleConflicts(ctx, tx, train.ID, schedules); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "schedule overlaps an existing schedule of this train"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to validate schedules"})
		}
		if err := h.Routes.CreateTx(ctx, tx, route); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create route"})
		}
		if err := h.Routes.InsertStopsTx(ctx, tx, route.ID, stops); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create route stops"})
		}
		for i := range schedules {
			schedules[i].RouteID = route.ID
			if err := h.Schedules.CreateTx(ctx, tx, &schedules[i]); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create schedule"})
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, echo.Map{"id": train.ID, "number": train.Number})
}

// ListTrains handles GET /v1/trains.
func (h *CatalogHandler) ListTrains(c echo.Context) error {
	trains, err := h.Trains.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load trains"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": trains})
}

type replaceStopsReq struct {
	Stops []stopReq `json:"stops"`
}

// ReplaceStops handles PUT /v1/routes/:id/stops.  The full stop list is
// replaced atomically after the same validations as at creation time.
func (h *CatalogHandler) ReplaceStops(c echo.Context) error {
	routeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || routeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	var req replaceStopsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	if _, err := h.Routes.GetByID(ctx, routeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	stops, verr := h.resolveStops(ctx, req.Stops)
	if verr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	}

	tx, err := h.Routes.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Routes.ReplaceStopsTx(ctx, tx, routeID, stops); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to replace stops"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	updated, err := h.Routes.StopsByRoute(ctx, routeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": updated})
}

// buildRoute validates one route payload and materializes its model
// records.  Validation errors are returned verbatim for the response.
func (h *CatalogHandler) buildRoute(ctx context.Context, trainID uint64, rr routeReq) (*model.Route, []model.RouteStop, []model.Schedule, error) {
	name := strings.TrimSpace(rr.Name)
	if name == "" {
		return nil, nil, nil, errors.New("route name is required")
	}
	pool := engine.SeatPool{General: rr.Seats["general"], Tatkal: rr.Seats["tatkal"]}
	if pool.General < 0 || pool.Tatkal < 0 || pool.Total() == 0 {
		return nil, nil, nil, errors.New("seat pool must be non-negative with at least one seat in total")
	}
	prices := engine.PriceList{General: rr.Prices["general"], Tatkal: rr.Prices["tatkal"]}
	if prices.General < 0 || prices.Tatkal < 0 {
		return nil, nil, nil, errors.New("prices must be non-negative")
	}
	stops, err := h.resolveStops(ctx, rr.Stops)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(rr.Schedules) == 0 {
		return nil, nil, nil, errors.New("at least one schedule is required")
	}
	schedules := make([]model.Schedule, 0, len(rr.Schedules))
	for i, sr := range rr.Schedules {
		weekday := strings.ToUpper(strings.TrimSpace(sr.Weekday))
		if !model.ValidWeekday(weekday) {
			return nil, nil, nil, fmt.Errorf("schedule %d: invalid weekday %q", i+1, sr.Weekday)
		}
		if _, err := model.ParseClock(sr.DepartureTime); err != nil {
			return nil, nil, nil, fmt.Errorf("schedule %d: invalid departure_time", i+1)
		}
		if _, err := model.ParseClock(sr.ArrivalTime); err != nil {
			return nil, nil, nil, fmt.Errorf("schedule %d: invalid arrival_time", i+1)
		}
		schedules = append(schedules, model.Schedule{
			Weekday:       weekday,
			DepartureTime: sr.DepartureTime,
			ArrivalTime:   sr.ArrivalTime,
		})
	}
	route := &model.Route{TrainID: trainID, Name: name, Seats: pool, Prices: prices}
	return route, stops, schedules, nil
}

// resolveStops validates a stop payload list and resolves station codes
// to IDs.  Stops are ordered as given; offsets and distances must not
// run backwards and each station may appear only once.
func (h *CatalogHandler) resolveStops(ctx context.Context, reqs []stopReq) ([]model.RouteStop, error) {
	if len(reqs) < 2 {
		return nil, errors.New("a route needs at least two stops")
	}
	stops := make([]model.RouteStop, 0, len(reqs))
	seen := make(map[string]bool)
	for i, sr := range reqs {
		code := strings.ToUpper(strings.TrimSpace(sr.StationCode))
		if code == "" {
			return nil, fmt.Errorf("stop %d: station_code is required", i+1)
		}
		if seen[code] {
			return nil, fmt.Errorf("stop %d: station %s appears twice", i+1, code)
		}
		seen[code] = true
		station, err := h.Stations.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("stop %d: unknown station %s", i+1, code)
			}
			return nil, err
		}
		if sr.ArrivalMin > sr.DepartureMin {
			return nil, fmt.Errorf("stop %d: arrival offset is after departure offset", i+1)
		}
		if i == 0 {
			if sr.ArrivalMin != 0 || sr.DistanceKM != 0 {
				return nil, errors.New("first stop must have zero arrival offset and distance")
			}
		} else {
			prev := stops[i-1]
			if sr.ArrivalMin < prev.DepartureMin {
				return nil, fmt.Errorf("stop %d: arrival offset runs backwards", i+1)
			}
			if sr.DistanceKM < prev.DistanceKM {
				return nil, fmt.Errorf("stop %d: distance runs backwards", i+1)
			}
		}
		stops = append(stops, model.RouteStop{
			StationID:    station.ID,
			Order:        uint32(i + 1),
			ArrivalMin:   sr.ArrivalMin,
			DepartureMin: sr.DepartureMin,
			DistanceKM:   sr.DistanceKM,
			StationCode:  station.Code,
			StationName:  station.Name,
		})
	}
	return stops, nil
}

// validateScheduleConflicts rejects a new schedule whose time range on a
// weekday overlaps an existing schedule of the same train.  Overnight
// ranges extend past the 24-hour mark, so a run arriving after midnight
// does not collide with an early run departing the same weekday.
func (h *CatalogHandler) validateScheduleConflicts(ctx context.Context, tx *sql.Tx, trainID uint64, schedules []model.Schedule) error {
	byDay := make(map[string][][2]int)
	for _, s := range schedules {
		span, err := clockSpan(s.DepartureTime, s.ArrivalTime)
		if err != nil {
			return err
		}
		for _, other := range byDay[s.Weekday] {
			if span[0] < other[1] && other[0] < span[1] {
				return repository.ErrConflict
			}
		}
		byDay[s.Weekday] = append(byDay[s.Weekday], span)
	}
	for weekday, spans := range byDay {
		existing, _, err := h.Schedules.ListByTrainWeekday(ctx, tx, trainID, weekday)
		if err != nil {
			return err
		}
		for _, e := range existing {
			ex, err := clockSpan(e.DepartureTime, e.ArrivalTime)
			if err != nil {
				return err
			}
			for _, span := range spans {
				if span[0] < ex[1] && ex[0] < span[1] {
					return repository.ErrConflict
				}
			}
		}
	}
	return nil
}

// clockSpan converts a departure/arrival clock pair into a minute span.
// An arrival at or before the departure belongs to the next day and
// pushes the end of the span past 24*60.
func clockSpan(departure, arrival string) ([2]int, error) {
	dep, err := model.ClockMinutes(departure)
	if err != nil {
		return [2]int{}, err
	}
	arr, err := model.ClockMinutes(arrival)
	if err != nil {
		return [2]int{}, err
	}
	if arr <= dep {
		arr += 24 * 60
	}
	return [2]int{dep, arr}, nil
}
