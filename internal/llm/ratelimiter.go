package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider wraps a Provider with a sliding-window request limit.
// Calls past the limit block until a slot frees up or the context expires.
type RateLimitedProvider struct {
	inner    Provider
	limit    int
	window   time.Duration
	mu       sync.Mutex
	requests []time.Time
}

// NewRateLimitedProvider wraps p so at most limit requests are made per window.
func NewRateLimitedProvider(p Provider, limit int, window time.Duration) *RateLimitedProvider {
	return &RateLimitedProvider{inner: p, limit: limit, window: window}
}

func (r *RateLimitedProvider) Name() string { return r.inner.Name() }

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-r.window)
		kept := r.requests[:0]
		for _, t := range r.requests {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		r.requests = kept

		if len(r.requests) < r.limit {
			r.requests = append(r.requests, now)
			r.mu.Unlock()
			return nil
		}
		wait := r.requests[0].Sub(cutoff)
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
