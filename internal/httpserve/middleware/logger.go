package middleware

import (
	"fmt"

	"github.com/bnema/simple-api/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs one line per request with its path and duration.
func RequestLogger(l *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURIPath:  true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			msg := fmt.Sprintf("Path: %s Duration: %.2fs", v.URIPath, v.Latency.Seconds())
			if v.Error != nil {
				l.Warn(msg, "method", v.Method, "status", v.Status, "error", v.Error)
				return nil
			}
			l.Info(msg, "method", v.Method, "status", v.Status)
			return nil
		},
	})
}
