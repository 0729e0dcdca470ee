package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/dispatch-coordinator/docs"
	"github.com/99minutos/dispatch-coordinator/internal/api/handler"
	"github.com/99minutos/dispatch-coordinator/internal/api/middleware"
	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
	"github.com/99minutos/dispatch-coordinator/internal/infrastructure/http/handlers"
)

// Deps groups what the router needs. Registerer and Gatherer default to the
// global prometheus registry.
type Deps struct {
	Service     ports.CoordinationService
	Checks      []handlers.Check
	AuthEnabled bool
	JWTSecret   string
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))
	// Renders errors itself, so the metrics middleware sees the final status.
	e.Use(requestLogger(deps.Log))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Transport coordination ---
	offerHandler := handler.NewOfferHandler(deps.Service)
	dispatchHandler := handler.NewDispatchHandler(deps.Service)

	g := e.Group("/api/transport")
	allow := func(...string) []echo.MiddlewareFunc { return nil }
	if deps.AuthEnabled {
		g.Use(middleware.Auth(deps.JWTSecret))
		allow = func(roles ...string) []echo.MiddlewareFunc {
			return []echo.MiddlewareFunc{middleware.RBAC(roles...)}
		}
	}

	g.GET("/offers", offerHandler.List, allow(domain.RoleDriver, domain.RoleShipper, domain.RoleAdmin)...)
	g.POST("/offers", offerHandler.Create, allow(domain.RoleDriver)...)
	g.PATCH("/offers", offerHandler.Accept, allow(domain.RoleShipper, domain.RoleAdmin)...)
	g.POST("/dispatch", dispatchHandler.Submit, allow(domain.RoleDriver)...)
	g.GET("/dispatch", dispatchHandler.Get, allow(domain.RoleDriver, domain.RoleShipper, domain.RoleAdmin)...)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	})
}
