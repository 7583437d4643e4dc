package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/booking"
	"github.com/tabletrek/table-reservation/internal/repository"
)

// BookingHandler serves customer-facing booking endpoints.  JWT
// authentication has already run; requester identity comes from the
// context.  Admission, conflict resolution and lifecycle rules all
// live in the booking service — this layer only parses, authorizes
// and translates errors.
type BookingHandler struct {
	Service     *booking.Service
	BookingRepo *repository.BookingRepo
	TableRepo   *repository.TableRepo
}

// NewBookingHandler constructs a BookingHandler with the provided
// dependencies.  All must be non-nil.
func NewBookingHandler(svc *booking.Service, bookingRepo *repository.BookingRepo, tableRepo *repository.TableRepo) *BookingHandler {
	if svc == nil || bookingRepo == nil || tableRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc, BookingRepo: bookingRepo, TableRepo: tableRepo}
}

// Create handles POST /v1/bookings.  The body carries the restaurant,
// window and party size; the requester comes from the JWT.  The
// response is 201 with the stored booking: PENDING in deferred mode,
// CONFIRMED with an assigned table in immediate mode.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RestaurantID uint64 `json:"restaurant_id"`
		PartySize    uint32 `json:"party_size"`
		Start        string `json:"start"`
		End          string `json:"end"`
		Date         string `json:"date"`
		Time         string `json:"time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, end, err := parseWindow(body.Start, body.End, body.Date, body.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	b, err := h.Service.Create(c.Request().Context(), booking.CreateRequest{
		RestaurantID: body.RestaurantID,
		UserID:       userID,
		PartySize:    body.PartySize,
		Start:        start,
		End:          end,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// Cancel handles DELETE /v1/bookings/:id.  Both the requester and the
// restaurant owner may cancel; anyone else gets 403.  Cancelling a
// booking that is already CANCELLED is rejected, not silently accepted.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	b, err := h.Service.Get(ctx, bookingID)
	if err != nil {
		return bookingError(c, err)
	}
	if b.UserID != userID {
		ownerID, err := h.TableRepo.RestaurantOwner(ctx, b.RestaurantID)
		if err != nil || ownerID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to cancel this booking"})
		}
	}

	cancelled, err := h.Service.Cancel(ctx, bookingID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": cancelled})
}

// ListMine handles GET /v1/my-bookings and returns the requester's
// bookings, newest window first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": bookings,
		"count": len(bookings),
	})
}

// Get handles GET /v1/bookings/:id for the requester or the restaurant
// owner.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Service.Get(ctx, bookingID)
	if err != nil {
		return bookingError(c, err)
	}
	if b.UserID != userID {
		ownerID, err := h.TableRepo.RestaurantOwner(ctx, b.RestaurantID)
		if err != nil || ownerID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}
