package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness for load balancers and monitoring.  It does
// not touch MySQL, Redis or the broker; the booking service degrades
// per dependency rather than failing the whole process.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
