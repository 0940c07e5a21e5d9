// Command apiserver runs the molscope HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	appsearch "github.com/praxisip/molscope/internal/application/search"
	"github.com/praxisip/molscope/internal/config"
	domainpatent "github.com/praxisip/molscope/internal/domain/patent"
	"github.com/praxisip/molscope/internal/extraction"
	cacheredis "github.com/praxisip/molscope/internal/infrastructure/cache/redis"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	"github.com/praxisip/molscope/internal/infrastructure/portal"
	httpiface "github.com/praxisip/molscope/internal/interfaces/http"
	"github.com/praxisip/molscope/internal/interfaces/http/handlers"
	"github.com/praxisip/molscope/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Local development convenience; absent files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	if *configPath != "" {
		err := config.Watch(*configPath, func(next *config.Config) {
			logging.SetLevel(logger, next.Log.Level)
			logger.Info("configuration reloaded",
				logging.String("log_level", next.Log.Level))
		})
		if err != nil {
			logger.Warn("config watch unavailable", logging.Err(err))
		}
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	var cache *cacheredis.SearchCache
	if cfg.Redis.Enabled() {
		client, err := cacheredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		cache = cacheredis.NewSearchCache(client, cfg.Redis.TTL, logger, metrics)
		logger.Info("result cache enabled", logging.String("addr", cfg.Redis.Addr))
	}

	fetcher := portal.NewFetcher(nil, cfg.Portal, logger, metrics)
	strategies := []extraction.Strategy{extraction.NewSelectorStrategy()}
	if ai := extraction.NewAIStrategy(cfg.AI, logger); ai != nil {
		strategies = append(strategies, ai)
		logger.Info("model-assisted extraction enabled", logging.String("model", cfg.AI.Model))
	}
	chain := extraction.NewChain(logger, metrics, strategies...)
	normalizer := domainpatent.NewNormalizer(cfg.Portal.BaseURL)
	service := appsearch.NewService(fetcher, chain, normalizer, cache, logger, metrics)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
	}

	router := httpiface.NewRouter(httpiface.RouterConfig{
		SearchHandler: handlers.NewSearchHandler(service),
		PatentHandler: handlers.NewPatentHandler(service),
		HealthHandler: handlers.NewHealthHandler(service, version),
		RateLimiter:   limiter,
		Logger:        logger,
		Metrics:       metrics,
	})
	server := httpiface.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
