package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/booking"
	"github.com/tabletrek/table-reservation/internal/queue"
	"github.com/tabletrek/table-reservation/internal/repository"
)

// WaitlistHandler serves the waitlist endpoints.  Customers join,
// leave and list their own entries; owners review the queue for their
// restaurant and notify entries when a table opens up.
type WaitlistHandler struct {
	WaitlistRepo *repository.WaitlistRepo
	TableRepo    *repository.TableRepo
	Emitter      booking.Emitter
}

// NewWaitlistHandler constructs a WaitlistHandler.
func NewWaitlistHandler(waitlistRepo *repository.WaitlistRepo, tableRepo *repository.TableRepo, emitter booking.Emitter) *WaitlistHandler {
	if waitlistRepo == nil || tableRepo == nil || emitter == nil {
		panic("nil dependency passed to NewWaitlistHandler")
	}
	return &WaitlistHandler{WaitlistRepo: waitlistRepo, TableRepo: tableRepo, Emitter: emitter}
}

// Join handles POST /v1/waitlist.  The slot is identified by the
// restaurant and requested time; one PENDING entry per user per slot.
func (h *WaitlistHandler) Join(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		RestaurantID uint64 `json:"restaurant_id"`
		PartySize    uint32 `json:"party_size"`
		Start        string `json:"start"`
		Date         string `json:"date"`
		Time         string `json:"time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RestaurantID == 0 || body.PartySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant_id and party_size are required"})
	}
	requested, _, err := parseWindow(body.Start, body.Start, body.Date, body.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	entry, err := h.WaitlistRepo.Join(c.Request().Context(), body.RestaurantID, userID, body.PartySize, requested)
	if errors.Is(err, repository.ErrDuplicateWaitlistEntry) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already on the waitlist for this slot"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not join waitlist"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"entry": entry})
}

// Leave handles DELETE /v1/waitlist/:id.  Only the entry's user may
// leave.
func (h *WaitlistHandler) Leave(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	err = h.WaitlistRepo.Leave(c.Request().Context(), entryID, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "waitlist entry not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not leave waitlist"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my-waitlist and returns the requester's
// waitlist entries across restaurants, soonest first.
func (h *WaitlistHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entries, err := h.WaitlistRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load waitlist"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": entries,
		"count": len(entries),
	})
}

// Notify handles POST /v1/waitlist/:id/notify.  The restaurant owner
// marks a PENDING entry NOTIFIED when a table opens up; the guest-facing
// notification is carried by the waitlist.notify event.
func (h *WaitlistHandler) Notify(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	entryID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entry id"})
	}
	ctx := c.Request().Context()

	entry, err := h.WaitlistRepo.FindByID(ctx, entryID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if entry == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "waitlist entry not found"})
	}
	ownerID, err := h.TableRepo.RestaurantOwner(ctx, entry.RestaurantID)
	if err != nil || ownerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	updated, err := h.WaitlistRepo.MarkNotified(ctx, entryID)
	if errors.Is(err, repository.ErrWaitlistNotPending) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "waitlist entry is not pending"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not notify waitlist entry"})
	}

	h.Emitter.Enqueue(queue.EventWaitlistNotify, queue.WaitlistEvent{
		EntryID:       updated.ID,
		RestaurantID:  updated.RestaurantID,
		UserID:        updated.UserID,
		PartySize:     updated.PartySize,
		RequestedTime: updated.RequestedTime.UTC().Format(time.RFC3339),
		Position:      updated.Position,
		Status:        updated.Status,
		EmittedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"entry": updated})
}

// ListByRestaurant handles GET /v1/restaurants/:id/waitlist for the
// restaurant owner, pending entries in queue order.
func (h *WaitlistHandler) ListByRestaurant(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	ctx := c.Request().Context()
	ownerID, err := h.TableRepo.RestaurantOwner(ctx, restaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ownerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	entries, err := h.WaitlistRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load waitlist"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": entries,
		"count": len(entries),
	})
}
