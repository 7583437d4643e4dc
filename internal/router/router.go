package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/handler"
	"github.com/tabletrek/table-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the read-only
// availability probe, which guests may call before deciding to book.
func RegisterRoutes(e *echo.Echo, availability *handler.AvailabilityHandler) {
	// Load balancers and monitoring probe this endpoint.
	e.GET("/healthz", handler.Health)
	e.GET("/v1/restaurants/:id/availability", availability.Check)
}

// RegisterCustomer registers the booking and waitlist endpoints shared
// by customers and owners.  Every route requires a valid access token;
// per-booking authorization (requester or restaurant owner) happens in
// the handlers.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, w *handler.WaitlistHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER", "CUSTOMER"))

	g.POST("/bookings", b.Create)
	g.GET("/bookings/:id", b.Get)
	g.DELETE("/bookings/:id", b.Cancel)
	g.GET("/my-bookings", b.ListMine)

	g.POST("/waitlist", w.Join)
	g.DELETE("/waitlist/:id", w.Leave)
	g.GET("/my-waitlist", w.ListMine)
}

// RegisterOwner registers endpoints reserved for restaurant owners:
// reviewing a restaurant's bookings and waitlist, and resolving pending
// bookings.  The role check here is coarse; the handlers still verify
// that the caller owns the specific restaurant.
func RegisterOwner(e *echo.Echo, ob *handler.OwnerBookingHandler, w *handler.WaitlistHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER"))

	g.GET("/restaurants/:id/bookings", ob.ListRestaurantBookings)
	g.PATCH("/bookings/:id/status", ob.UpdateStatus)
	g.GET("/restaurants/:id/waitlist", w.ListByRestaurant)
	g.POST("/waitlist/:id/notify", w.Notify)
}
