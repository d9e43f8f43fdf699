package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/quota"
)

// HealthHandler reports liveness and which providers are configured. The
// booleans only say whether a credential is present, not whether the upstream
// currently answers.
type HealthHandler struct {
	cfg   *config.Config
	guard *quota.Guard
}

// NewHealthHandler constructs the health handler.
func NewHealthHandler(cfg *config.Config, guard *quota.Guard) *HealthHandler {
	return &HealthHandler{cfg: cfg, guard: guard}
}

// Check handles GET /healthz requests.
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"providers": map[string]bool{
			"google_maps": h.cfg.GoogleMapsAPIKey != "",
			"hunter":      h.cfg.HunterAPIKey != "",
			"dropcontact": h.cfg.DropcontactAPIKey != "",
			"rocketreach": h.cfg.RocketReachAPIKey != "",
			"fullenrich":  h.cfg.FullEnrichAPIKey != "",
		},
		"fullenrich_quota_remaining": h.guard.Remaining(),
	})
}
