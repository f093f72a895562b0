package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spectrosystems/student-management-api/internal/api/metrics"
	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new identity and returns a token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.AuthOperationDuration.WithLabelValues("register"))
	defer timer.ObserveDuration()

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	input, err := toRegisterInput(req)
	if err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	out, err := h.authService.Register(c.Request().Context(), input)
	metrics.AuthRegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tokenResponse{Token: out.Token})
}

// Login authenticates by username or email and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        body             body      loginRequest  false  "Login credentials"
// @Param        usernameOrEmail  query     string        false  "Username or email"
// @Param        password         query     string        false  "Password"
// @Success      200              {object}  tokenResponse
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  errorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.AuthOperationDuration.WithLabelValues("login"))
	defer timer.ObserveDuration()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// Bind skips query parameters on POST.
	if req.UsernameOrEmail == "" {
		req.UsernameOrEmail = c.QueryParam("usernameOrEmail")
	}
	if req.Password == "" {
		req.Password = c.QueryParam("password")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return err
	}

	out, err := h.authService.Login(c.Request().Context(), req.UsernameOrEmail, req.Password)
	metrics.AuthLoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: out.Token})
}

// Me returns the identity behind the bearer token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func registerResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.As(err, &ve):
		return "invalid"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUserNotFound):
		return "unknown_user"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "bad_password"
	default:
		return "error"
	}
}
