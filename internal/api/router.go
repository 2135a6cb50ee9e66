package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mindmax/mood-journal/docs"
	"github.com/mindmax/mood-journal/internal/api/handler"
	"github.com/mindmax/mood-journal/internal/api/middleware"
	"github.com/mindmax/mood-journal/internal/core/ports"
	"github.com/mindmax/mood-journal/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Services are built by the caller.
type Deps struct {
	Logger   zerolog.Logger
	Auth     ports.AuthService
	Tokens   ports.TokenService
	Users    ports.UserService
	CheckIns ports.CheckInService

	// Ready maps dependency names to readiness probes for /health/ready.
	Ready map[string]handlers.Check

	APIPrefix   string
	BodyLimit   string
	CORSOrigins []string

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.BodyLimit == "" {
		d.BodyLimit = "1M"
	}
	if len(d.CORSOrigins) == 0 {
		d.CORSOrigins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "moodjournal",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	checkInHandler := handler.NewCheckInHandler(d.CheckIns)
	userHandler := handler.NewUserHandler(d.Users, d.CheckIns)
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Ready)
	authMiddleware := middleware.Auth(d.Tokens)

	// --- Operational routes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(strings.TrimRight(d.APIPrefix, "/"))
	api.GET("/health", healthHandler.Liveness)

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// --- Authenticated routes ---
	checkIns := api.Group("/checkins", authMiddleware)
	checkIns.GET("", checkInHandler.List)
	checkIns.POST("", checkInHandler.Create)
	checkIns.DELETE("/:id", checkInHandler.Delete)

	users := api.Group("/users", authMiddleware)
	users.GET("/me", userHandler.Me)
	users.GET("/stats", userHandler.Stats)

	return e
}
