package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger emits one structured log line per request using the
// request-scoped logger from the Correlation middleware, so every line
// carries the trace ID. Must be registered after Correlation.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// Let the error handler commit the response first so the
				// logged status is the one sent.
				c.Error(err)
			}

			reqLog := Logger(c)
			reqLog.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Msg("request")

			return nil
		}
	}
}
