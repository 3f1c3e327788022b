package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware
// and performs a fast-fail check before any service call: presence proves
// the middleware ran. A handler reached without it is a routing mistake and
// is rejected with 401.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get("user").(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
