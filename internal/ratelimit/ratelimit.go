package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minhtran99/jobflow/internal/model"
)

// SourceRateLimiter enforces a minimum delay between successive requests to
// the same platform. Different platforms never block each other.
type SourceRateLimiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time
	minDelay  time.Duration
	overrides map[string]time.Duration // per-source overrides, keyed by source name
}

// NewSourceRateLimiter creates a rate limiter that enforces minDelay between
// consecutive requests to the same source. overrides may be nil.
func NewSourceRateLimiter(minDelay time.Duration, overrides map[string]time.Duration) *SourceRateLimiter {
	return &SourceRateLimiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (r *SourceRateLimiter) delayFor(source string) time.Duration {
	if d, ok := r.overrides[source]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to the
// given source. Returns an error if the context is cancelled while waiting.
func (r *SourceRateLimiter) Wait(ctx context.Context, source string) error {
	r.mu.Lock()
	last, ok := r.lastCall[source]
	now := time.Now()

	if !ok {
		// First request for this source — no wait needed.
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	minDelay := r.delayFor(source)
	elapsed := now.Sub(last)
	if elapsed >= minDelay {
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	remaining := minDelay - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[source] = time.Now()
	r.mu.Unlock()

	return nil
}

// LimitedFetcher is a decorator that enforces source-level rate limiting
// before delegating to the wrapped PageFetcher.
type LimitedFetcher struct {
	inner   model.PageFetcher
	limiter *SourceRateLimiter
	source  string
}

// NewLimitedFetcher wraps a PageFetcher with source-level rate limiting.
// All fetchers targeting the same source should share the same limiter.
func NewLimitedFetcher(inner model.PageFetcher, limiter *SourceRateLimiter, source string) *LimitedFetcher {
	return &LimitedFetcher{
		inner:   inner,
		limiter: limiter,
		source:  source,
	}
}

// FetchPage waits for the rate limiter to allow a request, then delegates to
// the wrapped fetcher.
func (f *LimitedFetcher) FetchPage(ctx context.Context, query string, page int) ([]model.RawJob, error) {
	if err := f.limiter.Wait(ctx, f.source); err != nil {
		return nil, err
	}
	return f.inner.FetchPage(ctx, query, page)
}
