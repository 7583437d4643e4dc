package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tabletrek/table-reservation/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the raw claim value, whose concrete type
// depends on how the token was encoded.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseUint32 parses a positive 32-bit value such as a party size.
func parseUint32(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint32(n), true
}

// bookingError maps the service's sentinel errors onto HTTP responses.
// Anything unrecognized is a store failure and surfaces as a retryable 500.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrLockContention):
		return c.JSON(http.StatusConflict, echo.Map{"error": "could not acquire lock, try again"})
	case errors.Is(err, booking.ErrNoAvailability):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no table available for the requested window"})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is already cancelled"})
	case errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// parseWindow reads a booking window from either (start, end) RFC3339
// values or a (date, time) pair, in which case the production default
// of a two-hour visit applies.
func parseWindow(startStr, endStr, dateStr, timeStr string) (start, end time.Time, err error) {
	if startStr != "" && endStr != "" {
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("start must be RFC3339")
		}
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("end must be RFC3339")
		}
		return start.UTC(), end.UTC(), nil
	}
	if dateStr != "" && timeStr != "" {
		start, err = time.Parse("2006-01-02T15:04:05", dateStr+"T"+timeStr+":00")
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("date must be YYYY-MM-DD and time HH:MM")
		}
		start = start.UTC()
		return start, start.Add(2 * time.Hour), nil
	}
	return time.Time{}, time.Time{}, errors.New("either (start, end) or (date, time) is required")
}
