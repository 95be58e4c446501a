package server

import (
	"github.com/labstack/echo/v4"

	"github.com/pulseworks/newspulse/internal/platform/correlation"
)

// correlationMiddleware assigns each request a correlation ID so every log
// line emitted while handling it can be tied together.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := correlation.NewID()
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set("X-Correlation-ID", id)
		return next(c)
	}
}
