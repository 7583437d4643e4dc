package handler

// Owner-facing booking management: listing a restaurant's bookings and
// approving or rejecting pending ones.  Ownership of the restaurant is
// resolved here before the booking service is invoked; the service
// itself only enforces the state graph.

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/booking"
	"github.com/tabletrek/table-reservation/internal/model"
	"github.com/tabletrek/table-reservation/internal/repository"
)

// OwnerBookingHandler groups the dependencies owners need to review
// and resolve bookings for their restaurants.
type OwnerBookingHandler struct {
	Service     *booking.Service
	BookingRepo *repository.BookingRepo
	TableRepo   *repository.TableRepo
}

// NewOwnerBookingHandler constructs an OwnerBookingHandler.  All
// dependencies must be non-nil.
func NewOwnerBookingHandler(svc *booking.Service, bookingRepo *repository.BookingRepo, tableRepo *repository.TableRepo) *OwnerBookingHandler {
	if svc == nil || bookingRepo == nil || tableRepo == nil {
		panic("nil dependency passed to NewOwnerBookingHandler")
	}
	return &OwnerBookingHandler{Service: svc, BookingRepo: bookingRepo, TableRepo: tableRepo}
}

// requireOwner resolves the restaurant's owner and compares it with
// the caller.  It writes the error response itself and reports whether
// the caller may proceed.
func (h *OwnerBookingHandler) requireOwner(c echo.Context, restaurantID, userID uint64) (ok bool, err error) {
	ownerID, err := h.TableRepo.RestaurantOwner(c.Request().Context(), restaurantID)
	if err == repository.ErrRestaurantNotFound {
		return false, c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}
	if err != nil {
		return false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ownerID != userID {
		return false, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return true, nil
}

// ListRestaurantBookings handles GET /v1/restaurants/:id/bookings.
// Only the restaurant owner may list; results come newest first.
func (h *OwnerBookingHandler) ListRestaurantBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	if ok, resp := h.requireOwner(c, restaurantID, userID); !ok {
		return resp
	}
	bookings, err := h.BookingRepo.ListByRestaurant(c.Request().Context(), restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": bookings,
		"count": len(bookings),
	})
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.  The body's
// status must be CONFIRMED or CANCELLED.  Confirming re-checks
// availability and assigns a table (an explicit table_id pins one);
// whether a busy table may be force-assigned is controlled by the
// service's overbooking setting.
func (h *OwnerBookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status  string  `json:"status"`
		TableID *uint64 `json:"table_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()

	b, err := h.Service.Get(ctx, bookingID)
	if err != nil {
		return bookingError(c, err)
	}
	if ok, resp := h.requireOwner(c, b.RestaurantID, userID); !ok {
		return resp
	}

	var updated *model.Booking
	switch strings.ToUpper(body.Status) {
	case model.BookingConfirmed:
		updated, err = h.Service.Confirm(ctx, bookingID, booking.ConfirmOptions{TableID: body.TableID})
	case model.BookingCancelled:
		updated, err = h.Service.Cancel(ctx, bookingID)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be CONFIRMED or CANCELLED"})
	}
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": updated})
}
