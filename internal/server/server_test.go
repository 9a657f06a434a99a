package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/bad", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "bad input") })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("disk on fire") })
	app.Get("/unavailable", func(c *fiber.Ctx) error { return fiber.ErrServiceUnavailable })

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{"/bad", http.StatusBadRequest, "BAD_REQUEST", "bad input"},
		{"/missing", http.StatusNotFound, "NOT_FOUND", "Not Found"},
		{"/boom", http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
		{"/unavailable", http.StatusServiceUnavailable, "INTERNAL_ERROR", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestCorsConfig(t *testing.T) {
	assert.False(t, corsConfig("*").AllowCredentials)

	cfg := corsConfig("http://localhost:3000")
	assert.True(t, cfg.AllowCredentials)
	assert.Equal(t, "http://localhost:3000", cfg.AllowOrigins)
}
