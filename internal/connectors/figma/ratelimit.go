package figma

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the sustained request rate for API calls. Figma's
	// file and image endpoints sit in its most restrictive tier.
	ProactiveRate = 2.0

	// ProactiveBurst is the token bucket burst size.
	ProactiveBurst = 3

	// MaxRetryAfter caps how long a single Retry-After may stall a request.
	MaxRetryAfter = 2 * time.Minute

	// DefaultRetryAfter applies when a 429 carries no usable Retry-After.
	DefaultRetryAfter = 10 * time.Second

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter paces Figma API calls. It combines a proactive token bucket
// with a reactive pause after the API answers 429.
type RateLimiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter with the default pacing.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithRate(ProactiveRate, ProactiveBurst)
}

// NewRateLimiterWithRate creates a rate limiter with custom pacing.
func NewRateLimiterWithRate(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.bucket.Wait(ctx)
}

// CheckRateLimit inspects a response. For a 429 it records when requests
// may resume and returns a RateLimitError; otherwise it returns nil.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	retryAt := time.Now().Add(parseRetryAfter(resp.Header.Get(HeaderRetryAfter)))

	r.mu.Lock()
	if retryAt.After(r.retryAt) {
		r.retryAt = retryAt
	}
	r.mu.Unlock()

	return &RateLimitError{RetryAt: retryAt}
}

// RetryAt returns when requests may resume after the last 429.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}

// parseRetryAfter reads a Retry-After value in seconds, capped at MaxRetryAfter.
func parseRetryAfter(v string) time.Duration {
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return DefaultRetryAfter
	}
	d := time.Duration(seconds) * time.Second
	if d > MaxRetryAfter {
		return MaxRetryAfter
	}
	return d
}
