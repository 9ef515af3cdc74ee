package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/glefebvre/cinescout/internal/api"
	"github.com/glefebvre/cinescout/internal/catalog"
	"github.com/glefebvre/cinescout/internal/config"
	"github.com/glefebvre/cinescout/internal/database"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/metrics"
	"github.com/glefebvre/cinescout/internal/search"
	"github.com/glefebvre/cinescout/internal/session"
	"github.com/glefebvre/cinescout/internal/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Cinescout HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func runServe() {
	cfg := config.Get()

	logger.Initialize(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Default()

	metrics.Register(prometheus.DefaultRegisterer)

	shutdownHandler := shutdown.New(30 * time.Second)

	var history *database.HistoryStore
	serverOpts := []api.Option{
		api.WithAllowedOrigins(cfg.API.AllowedOrigins),
	}

	if cfg.Database.Enabled {
		if err := database.Initialize(); err != nil {
			log.Error("Failed to initialize database", err)
			os.Exit(1)
		}
		shutdownHandler.Register(func(ctx context.Context) error {
			log.Debug("Closing database connection")
			return database.Close()
		})
		history = database.NewHistoryStore(database.Get())
		serverOpts = append(serverOpts,
			api.WithHistory(history),
			api.WithHealthChecker("database", database.HealthCheck),
		)
	}

	client := catalog.NewClient(catalog.Config{
		APIKey:        cfg.Catalog.APIKey,
		BaseURL:       cfg.Catalog.BaseURL,
		Timeout:       cfg.CatalogTimeout(),
		RetryAttempts: cfg.Catalog.RetryAttempts,
	})

	cacheTTL := time.Duration(cfg.Catalog.CacheTTLSec) * time.Second
	details := search.NewDetailFetcher(client, cacheTTL)
	pipeline := search.NewPipeline(client, details, search.Options{
		SearchInterval: cfg.SearchInterval(),
		DetailInterval: cfg.DetailInterval(),
		MaxCandidates:  cfg.Search.MaxCandidates,
		TopN:           cfg.Search.TopN,
		ProxyTermCount: cfg.Search.ProxyTermCount,
	})

	sessions := session.NewManager(pipeline, cfg.Debounce(), cfg.SessionIdleTTL())
	if history != nil {
		sessions.WithRecorder(history)
	}
	shutdownHandler.Register(func(ctx context.Context) error {
		log.Debug("Closing sessions")
		return sessions.Close()
	})

	server := api.NewServer(sessions, client, serverOpts...)
	httpServer := server.NewHTTPServer(cfg.API.Port)

	shutdownHandler.Register(func(ctx context.Context) error {
		log.Debug("Stopping HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.WithFields(map[string]interface{}{
			"port": cfg.API.Port,
		}).Info("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	shutdownHandler.Wait()
	log.Info("Shutdown complete")
}
