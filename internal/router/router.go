package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/handler"
	"github.com/iliyamo/event-ticket-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health
// check, which load balancers and monitoring use to verify that the
// service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token
// of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/admin/login", a.AdminLogin)
	// Refresh rotates the presented refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(middleware.RoleUser, middleware.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterEvents registers the public event views and the reservation
// endpoints.  The views accept an optional token so a signed-in
// viewer's own seats are flagged; reserve and cancel require a token.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, rs *handler.ReservationHandler, jwtSecret string) {
	pub := e.Group("/v1/events")
	pub.Use(middleware.OptionalJWTAuth(jwtSecret))
	pub.GET("", ev.List)
	pub.GET("/:id", ev.Get)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(middleware.RoleUser, middleware.RoleAdmin))
	auth.POST("/events/:id/reserve", rs.Reserve)
	auth.DELETE("/events/:id/sheets/:rank/:num/reservation", rs.Cancel)
	auth.GET("/my-reservations", rs.MyReservations)
}

// RegisterAdmin registers the administrative event surface.  Every
// route requires an ADMIN token.
func RegisterAdmin(e *echo.Echo, ad *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(middleware.RoleAdmin))
	g.POST("/events", ad.CreateEvent)
	g.GET("/events", ad.ListEvents)
	g.GET("/events/:id", ad.GetEvent)
	g.PUT("/events/:id", ad.SetFlags)
}
