package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/praxisip/molscope/internal/domain/search"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

const keyPrefix = "molscope:search:"

// SearchCache is a read-through cache for search responses. A nil
// *SearchCache is valid and disables caching, so the service does not
// branch on configuration.
type SearchCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  logging.Logger
	metrics *prometheus.Metrics
}

// NewSearchCache wraps a connected client.
func NewSearchCache(client *redis.Client, ttl time.Duration, logger logging.Logger, metrics *prometheus.Metrics) *SearchCache {
	return &SearchCache{
		client:  client,
		ttl:     ttl,
		logger:  logger.Named("cache"),
		metrics: metrics,
	}
}

// Key derives the cache key for one query. Every field that changes the
// response participates, so two queries share a key only when their
// responses are interchangeable.
func Key(q search.SearchQuery) string {
	return fmt.Sprintf("%s%s:%s:%d:%d", keyPrefix, q.Mode, q.Identifier, q.Page, q.PageSize)
}

// Get returns the cached response for q, or nil on miss. Cache failures
// degrade to a miss: the caller falls through to the portal.
func (c *SearchCache) Get(ctx context.Context, q search.SearchQuery) *patenttypes.SearchResponse {
	if c == nil {
		return nil
	}

	data, err := c.client.Get(ctx, Key(q)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", logging.Err(err))
		}
		c.metrics.CacheLookups.WithLabelValues(prometheus.CacheMiss).Inc()
		return nil
	}

	var resp patenttypes.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Warn("cache entry corrupt, dropping", logging.String("key", Key(q)), logging.Err(err))
		_ = c.client.Del(ctx, Key(q)).Err()
		c.metrics.CacheLookups.WithLabelValues(prometheus.CacheMiss).Inc()
		return nil
	}

	c.metrics.CacheLookups.WithLabelValues(prometheus.CacheHit).Inc()
	return &resp
}

// Set stores a response. Failures are logged and ignored; the cache is
// an optimization, never a dependency.
func (c *SearchCache) Set(ctx context.Context, q search.SearchQuery, resp *patenttypes.SearchResponse) {
	if c == nil || resp == nil {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Warn("cache encode failed", logging.Err(err))
		return
	}
	if err := c.client.Set(ctx, Key(q), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", logging.Err(err))
	}
}
