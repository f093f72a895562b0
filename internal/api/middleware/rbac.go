package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := c.Get("user").(*domain.User)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !user.HasAnyRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
