// Package main provides the portal API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yhseo-kgs/chatbot-proxy/internal/cache"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
	"github.com/yhseo-kgs/chatbot-proxy/internal/clova"
	"github.com/yhseo-kgs/chatbot-proxy/internal/config"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
	"github.com/yhseo-kgs/chatbot-proxy/internal/recent"
	"github.com/yhseo-kgs/chatbot-proxy/internal/relay"
	"github.com/yhseo-kgs/chatbot-proxy/internal/vessel"
)

const loadTimeout = 30 * time.Second

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	// Credentials are checked once here; the error names variables, never values.
	if err := cfg.Clova.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid CLOVA configuration")
	}

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("qna_source", cfg.QnA.Source).
		Str("cache", cfg.Cache.Driver).
		Str("model", cfg.Clova.Model).
		Msg("Starting portal API")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store := qna.NewStore(qna.NewSource(cfg.QnA.Source, &http.Client{Timeout: loadTimeout}), logger)
	loadCtx, cancelLoad := context.WithTimeout(ctx, loadTimeout)
	err = store.Initialize(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load QnA data")
	}

	vessels, err := vessel.Load(cfg.Vessel.DataPath)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Vessel.DataPath).Msg("Vessel data unavailable, lookups will miss")
		vessels = vessel.NewRegistry(cfg.Vessel.DataPath)
	}
	if cfg.Vessel.Watch {
		startVesselWatcher(ctx, vessels, logger)
	}

	cacheClient, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create cache client")
	}
	defer cacheClient.Close()

	backends := map[string]Pinger{}
	if p, ok := cacheClient.(Pinger); ok {
		backends["cache"] = p
	}

	vendor := clova.NewClient(clova.Config{
		Credentials: clova.Credentials{
			AccessKey: cfg.Clova.AccessKey,
			SecretKey: cfg.Clova.SecretKey,
			APIKey:    cfg.Clova.APIKey,
		},
		BaseURL: cfg.Clova.BaseURL,
		Model:   cfg.Clova.Model,
		Timeout: cfg.Clova.Timeout,
	})

	var ai chatbot.AIClient = chatbot.NewDirectClient(vendor)
	if cfg.Chatbot.RelayURL != "" {
		ai = chatbot.NewRelayClient(cfg.Chatbot.RelayURL, nil)
	}

	sessions := chatbot.NewSessions(store, ai, chatbot.Config{
		ScoreThreshold: chatbot.Threshold(cfg.Chatbot.ScoreThreshold),
		AITimeout:      cfg.Chatbot.AITimeout,
	}, 0, cfg.Chatbot.MaxSessions, logger)

	appCfg := &AppConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: []string{"*"},
		RateLimit:      cfg.RateLimit.Enabled,
		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
	}

	router := NewRouter(logger, appCfg, Deps{
		Store:    store,
		Sessions: sessions,
		Relay:    relay.NewHandler(vendor, logger),
		Vessels:  vessels,
		Recent:   recent.NewStore(cacheClient, cfg.Cache.TTL),
		Backends: backends,
	})

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

func startVesselWatcher(ctx context.Context, registry *vessel.Registry, logger *observability.Logger) {
	w, err := vessel.NewWatcher(registry, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Vessel watcher unavailable")
		return
	}
	go func() {
		defer w.Close()
		if err := w.Run(ctx); err != nil {
			logger.Warn().Err(err).Msg("Vessel watcher stopped")
		}
	}()
}
