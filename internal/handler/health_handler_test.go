package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/quota"
)

func TestHealthHandlerReportsProviders(t *testing.T) {
	cfg := &config.Config{
		GoogleMapsAPIKey: "maps-key",
		HunterAPIKey:     "hunter-key",
		FullEnrichAPIKey: "fe-key",
	}
	guard := quota.NewGuard(3, time.Minute, cfg.FullEnrichAPIKey)
	if !guard.TryConsume() {
		t.Fatal("expected quota grant")
	}
	h := NewHealthHandler(cfg, guard)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Check(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Status    string          `json:"status"`
		Providers map[string]bool `json:"providers"`
		Remaining int             `json:"fullenrich_quota_remaining"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Status != "ok" {
		t.Fatalf("unexpected status: %q", payload.Status)
	}
	if !payload.Providers["google_maps"] || !payload.Providers["hunter"] || !payload.Providers["fullenrich"] {
		t.Fatalf("configured providers not reported: %+v", payload.Providers)
	}
	if payload.Providers["dropcontact"] || payload.Providers["rocketreach"] {
		t.Fatalf("unconfigured providers reported as set: %+v", payload.Providers)
	}
	if payload.Remaining != 2 {
		t.Fatalf("expected quota remaining 2, got %d", payload.Remaining)
	}
}
