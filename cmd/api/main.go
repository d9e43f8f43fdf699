package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/prospector/internal/config"
	"github.com/octobees/prospector/internal/geo"
	"github.com/octobees/prospector/internal/handler"
	middlewarepkg "github.com/octobees/prospector/internal/middleware"
	"github.com/octobees/prospector/internal/provider"
	"github.com/octobees/prospector/internal/quota"
	"github.com/octobees/prospector/internal/registry"
	"github.com/octobees/prospector/internal/router"
	"github.com/octobees/prospector/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	registryClient := registry.NewClient(httpClient)
	expander := geo.NewExpander(httpClient)
	maps := provider.NewMapsEnricher(httpClient, cfg.GoogleMapsAPIKey)

	dropcontact := provider.NewDropcontact(httpClient, cfg.DropcontactAPIKey)
	scraper := provider.NewScraper(httpClient)
	hunter := provider.NewHunter(httpClient, cfg.HunterAPIKey)
	rocketreach := provider.NewRocketReach(httpClient, cfg.RocketReachAPIKey)
	fullenrich := provider.NewFullEnrich(httpClient, cfg.FullEnrichAPIKey)

	guard := quota.NewGuard(cfg.FullEnrichQuota.Requests, cfg.FullEnrichQuota.Interval, cfg.FullEnrichAPIKey)
	stages := service.DefaultStages(dropcontact, scraper, hunter, rocketreach, fullenrich, guard)
	prospectService := service.NewProspectService(registryClient, expander, maps, stages, fullenrich, cfg.InterCompanyDelay)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Health:        handler.NewHealthHandler(cfg, guard),
		Prospect:      handler.NewProspectHandler(prospectService),
		EnrichContact: handler.NewEnrichContactHandler(prospectService),
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
