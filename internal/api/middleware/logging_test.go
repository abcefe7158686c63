package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_EmitsLineWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	e.Use(Correlation(log))
	e.Use(RequestLogger())
	e.GET("/ping", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderTraceID, "trace-log-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	line := buf.String()
	if !strings.Contains(line, `"trace_id":"trace-log-1"`) {
		t.Fatalf("log line missing trace id: %s", line)
	}
	if !strings.Contains(line, `"method":"GET"`) || !strings.Contains(line, `"status":204`) {
		t.Fatalf("log line missing request fields: %s", line)
	}
}

func TestRequestLogger_CommitsErrorStatusBeforeLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	e.Use(Correlation(log))
	e.Use(RequestLogger())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "conflict")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 committed to client, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), `"status":409`) {
		t.Fatalf("expected logged status to match committed status: %s", buf.String())
	}
}
