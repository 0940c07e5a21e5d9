package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/praxisip/molscope/internal/config"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/logging"
	"github.com/praxisip/molscope/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/praxisip/molscope/pkg/errors"
)

// maxBodyBytes caps how much of a portal page is read into memory.
const maxBodyBytes = 8 << 20

// RawDocument is one successfully fetched portal page plus fetch
// diagnostics for the response metadata.
type RawDocument struct {
	Body       string
	StatusCode int
	URL        string
	Elapsed    time.Duration
	Attempts   int
}

// Fetcher retrieves portal pages. Transient failures (network errors,
// timeouts, 429, 5xx) are retried with exponential backoff and jitter;
// any other 4xx is a rejection and fails immediately.
type Fetcher struct {
	client  *http.Client
	cfg     config.PortalConfig
	logger  logging.Logger
	metrics *prometheus.Metrics
}

// NewFetcher builds a fetcher from portal configuration. A nil client
// gets a fresh one; callers with several fetchers should pass a shared
// client so they share a connection pool.
func NewFetcher(client *http.Client, cfg config.PortalConfig, logger logging.Logger, metrics *prometheus.Metrics) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:  client,
		cfg:     cfg,
		logger:  logger.Named("fetcher"),
		metrics: metrics,
	}
}

// Fetch retrieves the page for the given query. On success the returned
// document records how many attempts it took. Exhausting the retry
// budget yields an upstream-unavailable error; a non-rate-limit 4xx
// yields an upstream-rejected error after a single attempt.
func (f *Fetcher) Fetch(ctx context.Context, query UpstreamQuery) (*RawDocument, error) {
	target := query.URL(f.cfg.BaseURL)
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := f.sleep(ctx, f.backoffDelay(attempt, lastErr)); err != nil {
				return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "fetch canceled during backoff")
			}
		}

		doc, err := f.attempt(ctx, target)
		if err == nil {
			doc.Elapsed = time.Since(start)
			doc.Attempts = attempt + 1
			f.metrics.FetchAttempts.WithLabelValues(prometheus.OutcomeSuccess).Inc()
			f.logger.Debug("portal fetch succeeded",
				logging.String("url", target),
				logging.Int("attempts", doc.Attempts),
				logging.Duration("elapsed", doc.Elapsed))
			return doc, nil
		}

		if !apperrors.IsTransient(err) {
			f.metrics.FetchAttempts.WithLabelValues(prometheus.OutcomeRejected).Inc()
			f.logger.Warn("portal rejected request",
				logging.String("url", target),
				logging.Int("attempt", attempt+1),
				logging.Err(err))
			return nil, err
		}

		f.metrics.FetchAttempts.WithLabelValues(prometheus.OutcomeTransient).Inc()
		f.logger.Warn("portal fetch attempt failed",
			logging.String("url", target),
			logging.Int("attempt", attempt+1),
			logging.Int("max_attempts", f.cfg.MaxRetries+1),
			logging.Err(err))
		lastErr = err
	}

	f.metrics.FetchExhausted.Inc()
	return nil, apperrors.UpstreamUnavailable(
		fmt.Sprintf("portal unavailable after %d attempts", f.cfg.MaxRetries+1)).
		WithCause(lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, target string) (*RawDocument, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build portal request")
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.UpstreamUnavailable("portal request timed out").WithCause(err)
		}
		return nil, apperrors.UpstreamUnavailable("portal request failed").WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, rateLimited(resp)
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.UpstreamUnavailable(
			fmt.Sprintf("portal returned %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		io.Copy(io.Discard, resp.Body)
		return nil, apperrors.UpstreamRejected(
			fmt.Sprintf("portal returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("read portal response").WithCause(err)
	}

	return &RawDocument{
		Body:       string(body),
		StatusCode: resp.StatusCode,
		URL:        target,
	}, nil
}

// setHeaders sends browser-like headers; the portal serves a reduced
// page to clients it does not recognize.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// backoffDelay computes the pause before the given attempt. A rate-limit
// response with a Retry-After hint overrides the exponential schedule.
func (f *Fetcher) backoffDelay(attempt int, lastErr error) time.Duration {
	if hint, ok := retryAfterHint(lastErr); ok {
		return hint
	}
	delay := f.cfg.RetryBaseDelay * (1 << (attempt - 1))
	if delay > f.cfg.RetryMaxDelay {
		delay = f.cfg.RetryMaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func rateLimited(resp *http.Response) *apperrors.AppError {
	err := apperrors.New(apperrors.ErrCodeUpstreamRateLimited, "portal rate limited the client")
	if hint := resp.Header.Get("Retry-After"); hint != "" {
		if secs, parseErr := strconv.Atoi(hint); parseErr == nil && secs > 0 {
			err = err.WithDetail(hint)
		}
	}
	return err
}

// retryAfterHint recovers the Retry-After value carried on a rate-limit
// error, if the portal sent one.
func retryAfterHint(err error) (time.Duration, bool) {
	if !apperrors.IsCode(err, apperrors.ErrCodeUpstreamRateLimited) {
		return 0, false
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Detail == "" {
		return 0, false
	}
	secs, parseErr := strconv.Atoi(appErr.Detail)
	if parseErr != nil || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
