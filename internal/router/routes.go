package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/handler"
	middlewarepkg "github.com/octobees/prospector/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Health        *handler.HealthHandler
	Prospect      *handler.ProspectHandler
	EnrichContact *handler.EnrichContactHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", handlers.Health.Check)

	e.POST("/prospect", handlers.Prospect.Run, middlewarepkg.ProspectRateLimiter(cfg.RateLimitProspect))
	e.POST("/enrich-contact", handlers.EnrichContact.Enrich)
}
