package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/cavern/internal/api"
	"github.com/VoidMesh/cavern/internal/biome"
	"github.com/VoidMesh/cavern/internal/config"
	"github.com/VoidMesh/cavern/internal/db"
	"github.com/VoidMesh/cavern/internal/geom"
	"github.com/VoidMesh/cavern/internal/logging"
	"github.com/VoidMesh/cavern/internal/store"
	"github.com/VoidMesh/cavern/internal/world"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	logger := logging.Init(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Prefix: "cavern",
	})
	logger.Debug("Configuration loaded", "server_port", cfg.Server.Port, "db_path", cfg.Database.Path, "dim", cfg.World.Dimension)

	// Initialize database
	database, err := db.Open(cfg.Database.Path, cfg.Database.MaxOpenConns)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}
	defer database.Close()
	database.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	database.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	logger.Info("Database initialized", "path", cfg.Database.Path)

	// Run migrations
	if err := db.Migrate(database); err != nil {
		log.Fatal("Failed to run database migrations", "error", err)
	}
	logger.Info("Database migrations completed")

	catalog, err := loadCatalog(cfg.World.BiomeCatalog)
	if err != nil {
		log.Fatal("Failed to load biome catalog", "error", err, "path", cfg.World.BiomeCatalog)
	}

	// Open the world
	grid := geom.Grid{W: int32(cfg.World.ChunkWidth), H: int32(cfg.World.ChunkHeight)}
	ws := store.NewSQLite(database, grid, logger)
	bootCtx, bootCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	session, err := world.Bootstrap(bootCtx, ws, world.Options{
		Dimension: cfg.World.Dimension,
		Grid:      grid,
		Catalog:   catalog,
		Seed:      cfg.World.Seed,
		Strength:  cfg.World.MinerStrength,
		Logger:    logger,
	})
	bootCancel()
	if err != nil {
		log.Fatal("Failed to open world", "error", err)
	}

	// Start background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go startBackgroundServices(ctx, session, cfg.Server.AutosaveInterval)

	handler := api.NewHandler(session, logger)
	router := api.SetupRoutes(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting Cavern server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", "error", err)
		}
		logger.Debug("Server stopped listening")
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("Shutting down server...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	cancel()

	if err := session.Save(shutdownCtx); err != nil {
		logger.Error("Final save failed", "error", err)
	} else {
		logger.Info("World saved")
	}

	logger.Info("Server exited")
}

func loadCatalog(path string) (*biome.Catalog, error) {
	if path == "" {
		return biome.Default()
	}
	return biome.LoadFile(path)
}

func startBackgroundServices(ctx context.Context, session *world.Session, autosave time.Duration) {
	logger := logging.WithComponent(logging.GetLogger(), "autosave")
	logger.Debug("Starting autosave ticker", "interval", autosave)
	ticker := time.NewTicker(autosave)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Background services stopped")
			return

		case <-ticker.C:
			start := time.Now()
			if err := session.Save(ctx); err != nil {
				logger.Error("Autosave failed", "error", err, "duration", time.Since(start))
			} else {
				logger.Debug("Autosave completed", "duration", time.Since(start))
			}
		}
	}
}
