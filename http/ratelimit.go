package http

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter manages per-host request pacing using a token bucket. It is safe
// for concurrent use and is typically shared by all sessions of one client so
// parallel fetch operations stay within the same budget.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	config   RateLimiterConfig
}

// RateLimiterConfig defines rate limiting behavior.
type RateLimiterConfig struct {
	// RequestsPerSecond is the sustained request rate per host.
	// Zero or negative disables rate limiting.
	RequestsPerSecond float64
	// Burst is the maximum burst size per host (default: 2).
	Burst int
}

// DefaultRateLimiterConfig returns sensible defaults for YouTube endpoints.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 4.0,
		Burst:             2,
	}
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Burst < 1 {
		cfg.Burst = 2
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		config:   cfg,
	}
}

// Wait blocks until a request to urlStr may proceed, or the context is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if rl == nil || rl.config.RequestsPerSecond <= 0 {
		return nil
	}
	return rl.limiterFor(extractHost(urlStr)).Wait(ctx)
}

// limiterFor returns the limiter for a host, creating it on first use.
func (rl *RateLimiter) limiterFor(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.Burst)
		rl.limiters[host] = limiter
	}
	return limiter
}

// extractHost returns the host portion of a URL, or the raw string when it
// cannot be parsed so unparsable URLs still share one bucket.
func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return urlStr
	}
	return u.Host
}
