package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentroll-ai/optimizer/api/internal/config"
	"github.com/rentroll-ai/optimizer/api/internal/database"
	"github.com/rentroll-ai/optimizer/api/internal/handlers"
	"github.com/rentroll-ai/optimizer/api/internal/logger"
	"github.com/rentroll-ai/optimizer/api/internal/middleware"
	"github.com/rentroll-ai/optimizer/api/internal/repository"
	"github.com/rentroll-ai/optimizer/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting rent optimizer API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create warehouse connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to warehouse", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Warehouse connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Table name resolver, shared by all repositories and updatable at runtime
	tables := repository.NewTables(cfg.Warehouse)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository layer
	unitRepo := repository.NewUnitRepository(db, tables)
	analyticsRepo := repository.NewAnalyticsRepository(db, tables)
	competitionRepo := repository.NewCompetitionRepository(db, tables, cfg.Pricing)
	diagnosticsRepo := repository.NewDiagnosticsRepository(db, tables)

	// Initialize service layer
	unitService := services.NewUnitService(unitRepo, log)
	analyticsService := services.NewAnalyticsService(analyticsRepo, unitRepo, log)
	competitionService := services.NewCompetitionService(competitionRepo, cfg.Pricing, log)
	pricingService := services.NewPricingService(unitRepo, cfg.Pricing, log)
	settingsService := services.NewSettingsService(tables, diagnosticsRepo, log)
	diagnosticsService := services.NewDiagnosticsService(diagnosticsRepo, log)

	// Initialize handlers
	unitHandler := handlers.NewUnitHandler(unitService, pricingService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, unitService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(diagnosticsService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		units := v1.Group("/units")
		{
			units.GET("", unitHandler.List)
			units.POST("/batch-optimize", unitHandler.BatchOptimize)
			units.GET("/:unit_id", unitHandler.Get)
			units.GET("/:unit_id/comparables", unitHandler.Comparables)
			units.POST("/:unit_id/optimize", unitHandler.Optimize)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/portfolio", analyticsHandler.Portfolio)
			analytics.GET("/market-position", analyticsHandler.MarketPosition)
			analytics.GET("/pricing-opportunities", analyticsHandler.PricingOpportunities)
			analytics.GET("/summary", analyticsHandler.Summary)
		}

		v1.GET("/properties", analyticsHandler.Properties)
		properties := v1.Group("/properties")
		{
			properties.GET("/:property_name/competition-analysis", competitionHandler.CompetitionAnalysis)
			properties.GET("/:property_name/unit-analysis", competitionHandler.UnitAnalysis)
			properties.GET("/:property_name/market-trends", competitionHandler.MarketTrends)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.POST("", settingsHandler.Save)
			settings.POST("/test", settingsHandler.Test)
		}

		v1.GET("/test-property/:property_name", diagnosticsHandler.TestProperty)
		v1.GET("/test-competition", diagnosticsHandler.TestCompetition)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
