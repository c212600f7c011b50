package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bnema/simple-api/pkg/logger"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// CustomHTTPErrorHandler answers errors as {"detail": "..."}. Internal errors
// are logged and never leak their message to the client.
func CustomHTTPErrorHandler(l *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		detail := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			detail = http.StatusText(code)
			if msg, ok := he.Message.(string); ok && msg != "" {
				detail = msg
			} else if he.Message != nil {
				detail = fmt.Sprint(he.Message)
			}
		}

		if code >= http.StatusInternalServerError {
			l.Error("Request failed", "path", c.Request().URL.Path, "status", code, "error", err)
			detail = http.StatusText(code)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, ErrorResponse{Detail: detail})
		}
		if writeErr != nil {
			l.Error("Failed to write error response", "error", writeErr)
		}
	}
}
