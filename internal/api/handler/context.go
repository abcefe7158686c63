package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the verified subject injected by the Auth middleware.
// Presence proves the middleware ran; a handler reached without it is a
// wiring bug and rejects with 401 rather than serving an anonymous request.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}
