package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/booking"
)

// AvailabilityHandler exposes the read-only availability probe.
type AvailabilityHandler struct {
	Service *booking.Service
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc *booking.Service) *AvailabilityHandler {
	if svc == nil {
		panic("nil service passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Service: svc}
}

// Check handles GET /v1/restaurants/:id/availability.  The window
// comes from either start/end (RFC3339) or date/time query parameters,
// and party_size is required.  It returns whether any table is free
// plus the free tables themselves, smallest first.
func (h *AvailabilityHandler) Check(c echo.Context) error {
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	partySize, _ := parseUint32(c.QueryParam("party_size"))
	start, end, err := parseWindow(
		c.QueryParam("start"), c.QueryParam("end"),
		c.QueryParam("date"), c.QueryParam("time"),
	)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	free, err := h.Service.CheckAvailability(c.Request().Context(), restaurantID, start, end, partySize)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available":   len(free) > 0,
		"free_tables": free,
	})
}
