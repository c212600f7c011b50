package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/simple-api/internal/config"
	"github.com/bnema/simple-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedApp(t *testing.T, now time.Time) *server.App {
	t.Helper()
	a, err := server.NewServerApp(config.Default(), nil)
	require.NoError(t, err)
	a.Now = func() time.Time { return now }
	return a
}

func TestHealthCheck(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.FixedZone("CET", 3600))
	a := fixedApp(t, now)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, HealthCheck(a)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "online", body.Status)
	assert.Equal(t, "2024-03-09T13:05:07.123456", body.Timestamp)
	assert.InDelta(t, float64(now.Unix())+0.123456, body.UnixTime, 1e-6)
	assert.Equal(t, "Simple Test API is running", body.Message)
}

func TestTestTime(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC)
	a := fixedApp(t, now)
	a.Config.General.ServiceName = "Simple API on echo"

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test-time", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, TestTime(a)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body TimeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TimeResponse{
		CurrentTime: "2024-12-31 23:59:58",
		Timezone:    "UTC",
		Service:     "Simple API on echo",
	}, body)
}
