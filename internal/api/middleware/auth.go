package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spectrosystems/student-management-api/internal/api/metrics"
	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

// Auth resolves the bearer token to its stored identity and injects it into
// the context as "user", alongside "username" and "role".
func Auth(authService ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := authService.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
				case errors.Is(err, domain.ErrTokenInvalid):
					metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				}
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return err
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.Set("user", user)
			c.Set("username", user.Username)
			c.Set("role", string(user.Role))

			return next(c)
		}
	}
}
