package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/mygomeme/internal/api"
	"github.com/timmy/mygomeme/internal/api/middleware"
	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/config"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/metrics"
	"github.com/timmy/mygomeme/internal/service"
	"github.com/timmy/mygomeme/internal/source/asset"
	"github.com/timmy/mygomeme/internal/source/mygoapi"
)

func main() {
	appLogger := logger.NewFromEnv(logger.LoadFromEnv("mygomeme"))
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	var m *metrics.Metrics
	metricsPath := ""
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsPath = cfg.Metrics.Path
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog: listing API first, last refreshed asset as a stale fallback
	store := catalog.NewStore()
	catalogService := service.NewCatalogService(
		store,
		mygoapi.NewAdapter(&mygoapi.Config{
			ListingURL: cfg.Catalog.ListingURL,
			Timeout:    cfg.Catalog.FetchTimeout,
		}),
		asset.NewAdapter(cfg.Catalog.AssetPath),
		m,
	)

	// Accept connections while the catalog is still loading
	go func() {
		catalogService.Initialize(ctx)
		catalogService.Run(ctx, cfg.Catalog.RefreshInterval)
	}()

	llmFactory := service.NewLLMFactory(&service.LLMConfig{
		Provider:        cfg.LLM.Provider,
		Model:           cfg.LLM.Model,
		BaseURL:         cfg.LLM.BaseURL,
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		Timeout:         cfg.LLM.Timeout,
	})
	matcher := service.NewChatMatcher(llmFactory, m, &service.ChatMatcherConfig{
		HistoryTurns: cfg.LLM.HistoryTurns,
	})

	appLogger.WithFields(logger.Fields{
		logger.FieldProvider: llmFactory.Provider(),
		"model":              llmFactory.Model(),
	}).Info("Language model configured")

	router := api.SetupRouter(api.Dependencies{
		Store:    store,
		Selector: matcher,
		Metrics:  m,
		Logger:   appLogger,
	}, api.RouterConfig{
		Mode:      cfg.Server.Mode,
		StaticDir: cfg.Server.StaticDir,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		MetricsPath: metricsPath,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
