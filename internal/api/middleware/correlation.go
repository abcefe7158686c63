package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/splitpay/auth-service/internal/pkg/trace"
)

// HeaderTraceID is the correlation header read from requests and set on
// every response.
const HeaderTraceID = echo.HeaderXRequestID

const (
	ctxKeyTraceID = "trace_id"
	ctxKeyLogger  = "logger"
)

// Correlation assigns each request a trace ID: the inbound X-Request-ID
// header verbatim when present, a fresh UUID otherwise. The ID is set on the
// response header, threaded into the request context for the layers below,
// and stamped onto a request-scoped logger.
func Correlation(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := req.Header.Get(HeaderTraceID)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			c.Response().Header().Set(HeaderTraceID, traceID)
			c.SetRequest(req.WithContext(trace.NewContext(req.Context(), traceID)))

			reqLog := log.With().Str("trace_id", traceID).Logger()
			c.Set(ctxKeyTraceID, traceID)
			c.Set(ctxKeyLogger, reqLog)

			return next(c)
		}
	}
}

// TraceID returns the trace ID established for this request, or "" when the
// Correlation middleware did not run.
func TraceID(c echo.Context) string {
	id, _ := c.Get(ctxKeyTraceID).(string)
	return id
}

// Logger returns the request-scoped logger carrying the trace ID. Falls back
// to a disabled logger when the Correlation middleware did not run.
func Logger(c echo.Context) zerolog.Logger {
	if l, ok := c.Get(ctxKeyLogger).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}
