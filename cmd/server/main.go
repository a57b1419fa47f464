package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/game2048/internal/api"
	"github.com/mcoot/game2048/internal/config"
	"github.com/mcoot/game2048/internal/factory"
	"github.com/mcoot/game2048/internal/services/auth"
	"github.com/mcoot/game2048/internal/services/suggestion"
	redisstorage "github.com/mcoot/game2048/internal/storage/redis"
	"github.com/mcoot/game2048/internal/web"
	"github.com/mcoot/game2048/internal/web/sse"
)

const hubCleanupInterval = time.Minute

func main() {
	conf, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := conf.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if conf.APIKey == "" && conf.SuggestionURL == "" {
		logger.Warn("POE_API_KEY is not set; suggestions will fail")
	}

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: conf.StorageType,
		AuthConfig:  auth.Config{Cost: conf.TokenCost},
		Model: suggestion.OpenAIConfig{
			APIKey:  conf.APIKey,
			BaseURL: conf.LLMBaseURL,
			Model:   conf.LLMModel,
		},
		SuggestionURL: conf.SuggestionURL,
	}
	if conf.HasRandomSeed {
		seed := conf.RandomSeed
		cfg.RandomSeed = &seed
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = conf.RedisURL
		redisCfg.GameTTL = conf.GameTTL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	hubManager := sse.NewHubManager(logger)
	defer hubManager.Close()

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		Suggester:      app.SuggestionService,
		AllowedOrigins: conf.CORSAllowedOrigins,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HubManager:     hubManager,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/health", apiRouter)
	mux.Handle("/prompt", apiRouter)
	mux.Handle("/", webRouter)

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = conf.Host
	serverConfig.Port = conf.Port
	server := api.NewServer(mux, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Drop hubs nobody is watching
	go func() {
		ticker := time.NewTicker(hubCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hubManager.CleanupEmptyHubs()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", conf.StorageType),
		slog.Bool("remote_suggestions", conf.SuggestionURL != ""))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
