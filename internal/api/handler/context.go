package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/winstgrad/miniapp-api/internal/core/domain"
)

// ctxUser extracts the user attached by the session middleware. Its
// presence proves the middleware ran; a handler reached without it is a
// routing mistake, answered with 401 rather than a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
