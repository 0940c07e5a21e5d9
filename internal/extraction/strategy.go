// Package extraction pulls patent field sets out of portal HTML. A chain
// of strategies runs in order: the cheap selector strategy first, the
// model-assisted strategy only when the selectors find nothing usable.
package extraction

import (
	"context"

	"github.com/praxisip/molscope/internal/domain/patent"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

// DocumentKind distinguishes the two portal page shapes.
type DocumentKind string

const (
	KindSearchResults DocumentKind = "search_results"
	KindDetail        DocumentKind = "detail"
)

// Document is one fetched portal page handed to the strategies.
type Document struct {
	HTML string
	Kind DocumentKind
	URL  string
}

// Result is the raw outcome of one strategy run. TotalResults is the
// result count the page declares, zero when the page does not say.
type Result struct {
	FieldSets    []patent.RawFieldSet
	TotalResults int
}

// Usable reports whether the run produced at least one candidate with a
// publication number or title. Candidates with neither cannot survive
// normalization, so a run yielding only those must not stop the chain.
func (r *Result) Usable() bool {
	if r == nil {
		return false
	}
	for _, set := range r.FieldSets {
		if set.Identified() {
			return true
		}
	}
	return false
}

// Strategy is one way of extracting field sets from a document.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, doc Document) (*Result, error)
}

// Chain runs strategies in order and stops at the first usable result.
type Chain struct {
	strategies []Strategy
	logger     logging.Logger
	metrics    *prometheus.Metrics
}

// NewChain builds a chain over the given strategies. Nil strategies are
// skipped so callers can pass an unconfigured fallback directly.
func NewChain(logger logging.Logger, metrics *prometheus.Metrics, strategies ...Strategy) *Chain {
	kept := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Chain{strategies: kept, logger: logger, metrics: metrics}
}

// Extract runs the chain. A strategy error or empty result advances to
// the next strategy; when every strategy comes up empty the chain
// returns an extraction-failed error and the caller degrades to an
// empty result set.
func (c *Chain) Extract(ctx context.Context, doc Document) (*Result, error) {
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "extraction canceled")
		}

		res, err := s.Extract(ctx, doc)
		if err != nil {
			c.metrics.ExtractionRuns.WithLabelValues(s.Name(), prometheus.StrategyNotUsable).Inc()
			c.logger.Warn("extraction strategy failed",
				logging.String("strategy", s.Name()),
				logging.String("kind", string(doc.Kind)),
				logging.Err(err))
			continue
		}
		if !res.Usable() {
			c.metrics.ExtractionRuns.WithLabelValues(s.Name(), prometheus.StrategyNotUsable).Inc()
			c.logger.Debug("extraction strategy found no candidates",
				logging.String("strategy", s.Name()),
				logging.String("kind", string(doc.Kind)))
			continue
		}

		c.metrics.ExtractionRuns.WithLabelValues(s.Name(), prometheus.StrategyUsable).Inc()
		c.logger.Debug("extraction strategy succeeded",
			logging.String("strategy", s.Name()),
			logging.Int("candidates", len(res.FieldSets)))
		return res, nil
	}

	return nil, apperrors.ExtractionFailed("no strategy produced a usable candidate")
}
