package handlers

import (
	"net/http"

	"github.com/bnema/simple-api/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusOnline  = "online"
	healthMessage = "Simple Test API is running"

	isoMicroLayout  = "2006-01-02T15:04:05.000000"
	currentTimeForm = "2006-01-02 15:04:05"
)

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	UnixTime  float64 `json:"unix_time"`
	Message   string  `json:"message"`
}

// TimeResponse is returned by GET /test-time.
type TimeResponse struct {
	CurrentTime string `json:"current_time"`
	Timezone    string `json:"timezone"`
	Service     string `json:"service"`
}

// HealthCheck reports that the service is online.
func HealthCheck(a *server.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		now := a.Now().UTC()
		return c.JSON(http.StatusOK, HealthResponse{
			Status:    statusOnline,
			Timestamp: now.Format(isoMicroLayout),
			UnixTime:  float64(now.UnixNano()) / 1e9,
			Message:   healthMessage,
		})
	}
}

// TestTime answers with the current UTC wall clock, to verify the API is responsive.
func TestTime(a *server.App) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, TimeResponse{
			CurrentTime: a.Now().UTC().Format(currentTimeForm),
			Timezone:    "UTC",
			Service:     a.ServiceName(),
		})
	}
}
