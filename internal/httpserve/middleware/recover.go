package middleware

import (
	"github.com/bnema/simple-api/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Recover turns handler panics into 500 responses and logs them through l
// instead of echo's own logger.
func Recover(l *logger.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l.Error("Recovered from panic", "path", c.Request().URL.Path, "error", err)
			l.Debug("Panic stack", "stack", string(stack))
			return err
		},
	})
}
