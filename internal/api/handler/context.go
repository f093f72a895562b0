package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spectrosystems/student-management-api/internal/core/domain"
)

// ctxUser returns the identity injected by the Auth middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
