package cli

import (
	appsearch "github.com/praxisip/molscope/internal/application/search"
	"github.com/praxisip/molscope/internal/config"
	domainpatent "github.com/praxisip/molscope/internal/domain/patent"
	"github.com/praxisip/molscope/internal/extraction"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	"github.com/praxisip/molscope/internal/infrastructure/portal"
)

// buildService assembles the pipeline for one CLI invocation. The CLI
// runs the same pipeline as the server, minus the cache: a one-shot
// process gains nothing from read-through caching.
func buildService(cfg *config.Config) (*appsearch.Service, error) {
	logCfg := cfg.Log
	logCfg.Level = "error"
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}

	metrics := prometheus.NewMetrics()
	fetcher := portal.NewFetcher(nil, cfg.Portal, logger, metrics)

	strategies := []extraction.Strategy{extraction.NewSelectorStrategy()}
	if ai := extraction.NewAIStrategy(cfg.AI, logger); ai != nil {
		strategies = append(strategies, ai)
	}
	chain := extraction.NewChain(logger, metrics, strategies...)
	normalizer := domainpatent.NewNormalizer(cfg.Portal.BaseURL)

	return appsearch.NewService(fetcher, chain, normalizer, nil, logger, metrics), nil
}
