// Package redis provides the optional search-result cache. Repeat
// queries within the TTL are served from the cache instead of re-fetching
// the portal.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/praxisip/molscope/internal/config"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "connect to redis")
	}
	return client, nil
}
