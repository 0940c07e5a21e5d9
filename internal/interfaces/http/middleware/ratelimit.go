package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/praxisip/molscope/internal/config"
	apperrors "github.com/praxisip/molscope/pkg/errors"
	"github.com/praxisip/molscope/pkg/types/common"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

// bucket is one client's token bucket.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is an in-memory per-client token bucket. A single process
// fronts the portal here, so no shared store is needed; the limiter
// mainly protects the portal from one misbehaving caller.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	ratePerSec float64
	burst      float64
	lastSweep  time.Time
}

// NewRateLimiter builds a limiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		buckets:    make(map[string]*bucket),
		ratePerSec: float64(cfg.RequestsPerMinute) / 60.0,
		burst:      float64(cfg.Burst),
		lastSweep:  time.Now(),
	}
}

// Handler is the gin middleware enforcing the limit per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, patenttypes.ErrorResponse{
				Status:    "error",
				Error:     string(apperrors.ErrCodeTooManyRequests),
				Message:   apperrors.DefaultMessageForCode(apperrors.ErrCodeTooManyRequests),
				Timestamp: common.NewTimestamp(),
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(client string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > 10*time.Minute {
		rl.sweep(now)
	}

	b, ok := rl.buckets[client]
	if !ok {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[client] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.ratePerSec
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle long enough to have refilled completely.
func (rl *RateLimiter) sweep(now time.Time) {
	for client, b := range rl.buckets {
		if now.Sub(b.lastSeen) > 10*time.Minute {
			delete(rl.buckets, client)
		}
	}
	rl.lastSweep = now
}
