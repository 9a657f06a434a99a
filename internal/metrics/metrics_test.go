package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	metrics.Init()
	metrics.Init()

	app := fiber.New()
	app.Use(metrics.Middleware())
	app.Get("/ping/:id", func(c *fiber.Ctx) error { return c.SendString("pong") })
	app.Get("/metrics", metrics.Handler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping/1", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping/2", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `http_requests_total{method="GET",route="/ping/:id",status="200"} 2`)
	assert.Contains(t, string(body), "http_request_duration_seconds")
}
