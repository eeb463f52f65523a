// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication routes and their middleware.
// Unauthenticated operations live under /v1/auth, the protected /v1/me
// endpoint behind JWT.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works without the JWT middleware so a client holding only a
	// refresh token can still end its session.
	g.POST("/logout", a.Logout)
	e.POST("/v1/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: journey
// search, per-schedule availability and the station and train catalogs.
// cacheMW, when non-nil, caches these GET responses in Redis.
func RegisterPublic(e *echo.Echo, j *handler.JourneyHandler, cat *handler.CatalogHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	e.GET("/v1/journeys/search", j.Search, mws...)
	e.GET("/v1/schedules/:id/availability", j.Availability, mws...)
	e.GET("/v1/stations", cat.ListStations, mws...)
	e.GET("/v1/trains", cat.ListTrains, mws...)
}

// RegisterBookings registers the customer booking endpoints behind JWT
// authentication.  Admins may book too; the role middleware only rejects
// unknown roles.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	g.POST("/bookings", b.Create)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.GET("/bookings/:id", b.Get)
	g.GET("/my-bookings", b.ListMine)
}

// RegisterCatalog registers the admin-only catalog management endpoints.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	g.POST("/stations", cat.CreateStation)
	g.POST("/trains", cat.CreateTrain)
	g.PUT("/routes/:id/stops", cat.ReplaceStops)
}
