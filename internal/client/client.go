package client

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/SeriesDumpster/internal/apperrors"
	"github.com/Belphemur/SeriesDumpster/internal/cache"
	"github.com/Belphemur/SeriesDumpster/internal/config"
	"github.com/Belphemur/SeriesDumpster/internal/metrics"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"golang.org/x/sync/semaphore"
)

// Fetcher retrieves catalog pages as UTF-8 text
type Fetcher interface {
	// Fetch returns the body of pageURL. Every failure, including exhausted retries,
	// is reported through the error; Fetch never panics on network problems.
	Fetch(ctx context.Context, pageURL string) (string, error)

	// Close releases the page cache, if any.
	Close() error
}

// fetcher shares one permit pool between every caller. A permit is held for the whole
// jitter sleep, request and retry cycle of a single Fetch.
type fetcher struct {
	httpClient  *http.Client
	permits     *semaphore.Weighted
	pageCache   cache.Cache
	minDelay    time.Duration
	maxDelay    time.Duration
	retryDelay  time.Duration
	timeout     time.Duration
	maxAttempts int
}

// NewFetcher creates a Fetcher from configuration. pageCache may be nil.
func NewFetcher(cfg *config.Config, pageCache cache.Cache) Fetcher {
	logger := config.GetLogger()

	// Clone DefaultTransport to keep its pooling and HTTP/2 settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	concurrency := cfg.Fetch.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	maxAttempts := cfg.Fetch.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	return &fetcher{
		// No client-wide timeout: each attempt gets its own deadline
		httpClient:  &http.Client{Transport: newSiteTransport(baseTransport, cfg.GetUserAgent())},
		permits:     semaphore.NewWeighted(int64(concurrency)),
		pageCache:   pageCache,
		minDelay:    config.ParseDuration("fetch.min_delay", cfg.Fetch.MinDelay, 1500*time.Millisecond),
		maxDelay:    config.ParseDuration("fetch.max_delay", cfg.Fetch.MaxDelay, 2500*time.Millisecond),
		retryDelay:  config.ParseDuration("fetch.retry_delay", cfg.Fetch.RetryDelay, 2*time.Second),
		timeout:     config.ParseDuration("fetch.timeout", cfg.Fetch.Timeout, 15*time.Second),
		maxAttempts: maxAttempts,
	}
}

func (f *fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	logger := config.GetLogger()

	if f.pageCache != nil {
		if body, ok := f.pageCache.Get(pageURL); ok {
			metrics.FetchRequestsTotal.WithLabelValues("cached").Inc()
			logger.Debug().Str("url", pageURL).Msg("Page served from cache")
			return string(body), nil
		}
	}

	if err := f.permits.Acquire(ctx, 1); err != nil {
		metrics.FetchRequestsTotal.WithLabelValues("failure").Inc()
		return "", apperrors.NewFetchFailedError(pageURL, 0, err)
	}
	metrics.FetchInFlight.Inc()
	defer func() {
		metrics.FetchInFlight.Dec()
		f.permits.Release(1)
	}()

	attempts := 0
	retryPolicy := retrypolicy.NewBuilder[string]().
		WithMaxAttempts(f.maxAttempts).
		WithDelay(f.retryDelay).
		AbortIf(func(_ string, _ error) bool {
			return ctx.Err() != nil
		}).
		ReturnLastFailure().
		OnRetry(func(e failsafe.ExecutionEvent[string]) {
			logger.Warn().
				Err(e.LastError()).
				Str("url", pageURL).
				Int("attempt", e.Attempts()).
				Msg("Retrying page fetch")
		}).
		Build()

	body, err := failsafe.With[string](retryPolicy).
		WithContext(ctx).
		Get(func() (string, error) {
			attempts++
			if err := sleepContext(ctx, jitterDelay(f.minDelay, f.maxDelay)); err != nil {
				return "", err
			}
			metrics.FetchAttemptsTotal.Inc()
			return f.attempt(ctx, pageURL)
		})
	if err != nil {
		metrics.FetchRequestsTotal.WithLabelValues("failure").Inc()
		logger.Error().Err(err).Str("url", pageURL).Int("attempts", attempts).Msg("Failed to fetch page")
		return "", apperrors.NewFetchFailedError(pageURL, attempts, err)
	}

	metrics.FetchRequestsTotal.WithLabelValues("success").Inc()
	if f.pageCache != nil {
		f.pageCache.Set(pageURL, []byte(body))
	}
	return body, nil
}

// attempt performs one GET bounded by the per-attempt timeout.
func (f *fetcher) attempt(ctx context.Context, pageURL string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apperrors.ErrUnexpectedStatus{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := readUTF8(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

func (f *fetcher) Close() error {
	if f.pageCache == nil {
		return nil
	}
	return f.pageCache.Close()
}

// jitterDelay returns a uniform duration in [minDelay, maxDelay]; minDelay when the range is empty.
func jitterDelay(minDelay, maxDelay time.Duration) time.Duration {
	if maxDelay <= minDelay {
		return minDelay
	}
	return minDelay + rand.N(maxDelay-minDelay+1)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
