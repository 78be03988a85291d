package sdk

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"time"
)

// BackoffConfig controls the exponential reconnection delay policy.
type BackoffConfig struct {
	// InitialDelay is the delay before the first reconnection attempt.
	InitialDelay time.Duration
	// Multiplier grows the delay after each attempt.
	Multiplier float64
	// MaxDelay caps the delay before jitter is applied.
	MaxDelay time.Duration
	// JitterFactor spreads each delay uniformly within
	// [delay*(1-j), delay*(1+j)]. Zero disables jitter.
	JitterFactor float64
}

// DefaultBackoffConfig returns the policy used when none is supplied.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Second,
		Multiplier:   2.0,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.1,
	}
}

func (c BackoffConfig) normalized() BackoffConfig {
	cfg := c
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = time.Second
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 2.0
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.JitterFactor < 0 || cfg.JitterFactor > 1 {
		cfg.JitterFactor = 0.1
	}
	return cfg
}

// Delay returns the delay for a zero-based attempt number. The exponential
// value is capped at MaxDelay first; jitter is applied after the cap, so the
// steady state still varies between retries.
func (c BackoffConfig) Delay(attempt int) time.Duration {
	cfg := c.normalized()
	if attempt < 0 {
		attempt = 0
	}
	d := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt))
	if cap := float64(cfg.MaxDelay); d > cap {
		d = cap
	}
	if cfg.JitterFactor > 0 {
		d *= 1 + cfg.JitterFactor*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}

// Backoff tracks the attempt counter across a reconnection loop.
type Backoff struct {
	cfg     BackoffConfig
	attempt int
}

// NewBackoff returns a counter over cfg.
func NewBackoff(cfg BackoffConfig) *Backoff {
	return &Backoff{cfg: cfg.normalized()}
}

// Next returns the delay for the current attempt and advances the counter.
func (b *Backoff) Next() time.Duration {
	d := b.cfg.Delay(b.attempt)
	b.attempt++
	return d
}

// Reset rewinds the counter after a healthy connection.
func (b *Backoff) Reset() { b.attempt = 0 }

// Attempt returns the number of delays handed out since the last Reset.
func (b *Backoff) Attempt() int { return b.attempt }

// IsRetryable classifies an error for the reconnection loop. Cancellation is
// final; deadline expiry, network timeouts, temporary DNS failures, and
// retryable HTTP statuses (429 and 5xx) are worth another attempt.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 429 || statusErr.StatusCode >= 500
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
