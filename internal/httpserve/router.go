package httpserve

import (
	"github.com/bnema/simple-api/internal/httpserve/handlers"
	"github.com/bnema/simple-api/internal/httpserve/middleware"
	"github.com/bnema/simple-api/internal/server"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsPath = "/metrics"

// NewRouter builds the echo instance served as main:app.
func NewRouter(a *server.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler(a.Logger)

	e.Use(middleware.RequestLogger(a.Logger))
	e.Use(middleware.Recover(a.Logger))
	e.Use(middleware.CORS(a.Config.Http.CorsOrigins))

	if a.Config.Http.MetricsEnabled() {
		registerMetrics(e)
	}

	return RegisterRoutes(e, a)
}

// RegisterRoutes binds the application endpoints.
func RegisterRoutes(e *echo.Echo, a *server.App) *echo.Echo {
	e.GET("/", handlers.HealthCheck(a))
	e.GET("/test-time", handlers.TestTime(a))
	return e
}

// Each router gets its own registry so several apps can live in one process.
func registerMetrics(e *echo.Echo) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "simple_api",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == metricsPath
		},
	}))
	e.GET(metricsPath, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: registry,
	}))
}
