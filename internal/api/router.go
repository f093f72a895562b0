package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/spectrosystems/student-management-api/docs"
	"github.com/spectrosystems/student-management-api/internal/api/handler"
	"github.com/spectrosystems/student-management-api/internal/api/middleware"
	"github.com/spectrosystems/student-management-api/internal/core/domain"
	"github.com/spectrosystems/student-management-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	AuthService    ports.AuthService
	StudentService ports.StudentService
	Logger         zerolog.Logger
	// Checks are probed by /health/ready, keyed by dependency name.
	Checks map[string]handler.Check
	// Registry receives the HTTP request metrics. Defaults to the global
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	studentHandler := handler.NewStudentHandler(deps.StudentService)
	authMiddleware := middleware.Auth(deps.AuthService, deps.Logger)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Student routes: reads for any role, writes for admins ---
	students := e.Group("/api/students", authMiddleware)
	read := middleware.RBAC(domain.RoleUser, domain.RoleAdmin)
	write := middleware.RBAC(domain.RoleAdmin)

	students.GET("", studentHandler.List, read)
	students.GET("/:id", studentHandler.Get, read)
	students.POST("", studentHandler.Create, write)
	students.PUT("/:id", studentHandler.Update, write)
	students.DELETE("/:id", studentHandler.Delete, write)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
