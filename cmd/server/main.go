package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/scopecreep/projectgame/internal/api"
	"github.com/scopecreep/projectgame/internal/factory"
	redisstorage "github.com/scopecreep/projectgame/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		RulesPath:   os.Getenv("PGAME_RULES"),
		Logger:      logger,
		StorageType: os.Getenv("PGAME_STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("PGAME_REDIS_URL")
		if redisURL == "" {
			logger.Error("PGAME_REDIS_URL required when PGAME_STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load game content: CSV files if present, otherwise whatever a
	// previous run cached in storage
	contentDir := os.Getenv("PGAME_CONTENT_DIR")
	if contentDir == "" {
		contentDir = "data"
	}
	if err := app.ContentService.LoadFromDir(context.Background(), contentDir); err != nil {
		logger.Warn("could not load content from directory, trying storage",
			slog.String("dir", contentDir),
			slog.String("error", err.Error()))
		if err := app.ContentService.LoadFromStorage(context.Background()); err != nil {
			logger.Warn("game content not loaded; game creation will fail until it is",
				slog.String("error", err.Error()))
		}
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Store:          app.Store,
		Orchestrator:   app.Orchestrator,
		MovementEngine: app.MovementEngine,
		Storage:        app.Storage,
		HubManager:     app.HubManager,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PGAME_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			serverConfig.Port = p
		}
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
