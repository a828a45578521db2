// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/bannerstack-go/internal/application/container"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/caching/cleanup"
	schemadb "github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/bannerstack-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

// demoProducts fill an empty catalog when SEED_DEMO_PRODUCTS is set.
var demoProducts = []schemadb.SeedProduct{
	{ID: 1, Name: "Canvas Tote", Price: 24.00, ImageURL: "/media/images/demo-tote.webp"},
	{ID: 2, Name: "Linen Shirt", Price: 58.00, ImageURL: "/media/images/demo-shirt.webp"},
	{ID: 3, Name: "Leather Sandals", Price: 89.50, ImageURL: "/media/images/demo-sandals.webp"},
	{ID: 4, Name: "Straw Hat", Price: 32.00, ImageURL: "/media/images/demo-hat.webp"},
	{ID: 5, Name: "Sunglasses", Price: 120.00, ImageURL: "/media/images/demo-sunglasses.webp"},
}

// Initialize performs the complete startup sequence and blocks until shutdown
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Channeled logging
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Starting bannerstack", "ginMode", gin.Mode())

	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	// Step 2: Database connection and schema
	stepStart := time.Now()
	db, err := database.Open(database.SettingsFromConfig(), logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(stepStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := database.TestConnectionWithLogger(ctx, db.DB, logger); err != nil {
		logger.LogStartupPhase("database", time.Since(stepStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("database connection check failed: %w", err)
	}

	tableCreator := schemadb.NewTableCreator()
	if err := tableCreator.CreateSchema(ctx, db.DB); err != nil {
		logger.LogStartupPhase("schema", time.Since(stepStart), false, map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if config.SeedDemoProducts {
		if err := tableCreator.SeedProducts(ctx, db.DB, demoProducts); err != nil {
			logger.Startup().Warn("Demo product seeding failed", "error", err.Error())
		}
	}
	logger.LogStartupPhase("database", time.Since(stepStart), true, map[string]any{"driver": db.Driver})

	// Step 3: Dependency injection container
	appContainer := container.NewContainer(db, logger, perfTracker)
	logger.Startup().Info("Singleton application services initialized via container")

	// Step 4: Warm the storefront cache
	stepStart = time.Now()
	if active, err := appContainer.BannerService.WarmCache(ctx); err != nil {
		logger.Startup().Error("Cache warming failed", "error", err.Error(), "duration", time.Since(stepStart))
	} else {
		logger.LogStartupPhase("cache_warming", time.Since(stepStart), true, map[string]any{"activeBanners": active})
	}

	// Step 5: Background workers
	go appContainer.EditorHub.Run(ctx)
	cleanupWorker := cleanup.NewWorker(appContainer.BannerCache, perfTracker, logger, cleanup.NewConfig())
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background workers started")

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal or a listener failure
	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()

	// Stops the hub first so open editor sockets are closed
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures gin and the standard logger used before the channeled logger exists
func setupLogging() {
	if config.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		log.Printf("Invalid LOG_LEVEL, using INFO: %v", err)
	}
	cfg.DefaultLevel = level
	return logging.NewChanneledLogger(cfg)
}
