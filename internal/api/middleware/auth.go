package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-service/internal/api/metrics"
	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

// Auth extracts the bearer token, resolves it into an account, and injects
// the resolved user into the request context under the "user" key. Resolution
// reruns on every request, so expiry and the active flag are always current.
func Auth(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := resolver.Resolve(c.Request().Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrAccountInactive) {
					metrics.TokenResolutionsTotal.WithLabelValues("account_inactive").Inc()
					return echo.NewHTTPError(http.StatusForbidden, "account inactive")
				}
				metrics.TokenResolutionsTotal.WithLabelValues("invalid_credentials").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
			}

			metrics.TokenResolutionsTotal.WithLabelValues("resolved").Inc()
			c.Set("user", user)

			return next(c)
		}
	}
}
