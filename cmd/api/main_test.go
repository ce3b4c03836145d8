package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nulln0ne/amm-estimator/internal/config"
	"github.com/nulln0ne/amm-estimator/internal/logging"
)

func TestRegisterRoutes(t *testing.T) {
	cfg := &config.Config{MaxPoolTokens: 8, DefaultFeeBps: 30, DefaultAmplification: 100}
	app := fiber.New()
	if err := registerRoutes(app, logging.Discard(), prometheus.NewRegistry(), cfg, nil); err != nil {
		t.Fatalf("registerRoutes error: %v", err)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/quote?reserves=300,1000&amp=85&fee_bps=6&dx=400", http.StatusOK},
		{"/compare?reserves=300,1000&dx=400", http.StatusOK},
		{"/models", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/estimate", http.StatusServiceUnavailable},
		{"/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
		if err != nil {
			t.Fatalf("%s: app.Test error: %v", tt.target, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Fatalf("%s: expected %d, got %d", tt.target, tt.status, resp.StatusCode)
		}
	}
}
