package resilience

import (
	"math"
	"time"
)

// RetryPolicy bounds how often one upstream call is attempted.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// BreakerPolicy configures the per-operation circuit breaker.
type BreakerPolicy struct {
	Enabled          bool
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

type Config struct {
	Retry   RetryPolicy
	Breaker BreakerPolicy
}

// DefaultConfig makes a single attempt per call. Compliance reads are not
// retried unless Retry.MaxAttempts is raised explicitly.
func DefaultConfig() Config {
	return Config{
		Retry: RetryPolicy{
			MaxAttempts:    1,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     400 * time.Millisecond,
			Multiplier:     2.0,
		},
		Breaker: BreakerPolicy{
			Enabled:          true,
			MinRequests:      10,
			FailureRatio:     0.5,
			OpenTimeout:      30 * time.Second,
			HalfOpenMaxCalls: 2,
		},
	}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	return Config{
		Retry:   c.Retry.normalize(def.Retry),
		Breaker: c.Breaker.normalize(def.Breaker),
	}
}

func (p RetryPolicy) normalize(def RetryPolicy) RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	p.MaxBackoff = max(p.MaxBackoff, p.InitialBackoff)
	if p.Multiplier < 1.0 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// backoff returns the wait before the attempt following attempt n (1-based).
func (p RetryPolicy) backoff(n int) time.Duration {
	wait := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(n-1))
	if wait >= float64(p.MaxBackoff) {
		return p.MaxBackoff
	}
	return time.Duration(wait)
}

func (p BreakerPolicy) normalize(def BreakerPolicy) BreakerPolicy {
	if p.MinRequests == 0 {
		p.MinRequests = def.MinRequests
	}
	if p.FailureRatio <= 0 || p.FailureRatio > 1 {
		p.FailureRatio = def.FailureRatio
	}
	if p.OpenTimeout <= 0 {
		p.OpenTimeout = def.OpenTimeout
	}
	if p.HalfOpenMaxCalls == 0 {
		p.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return p
}

func (p BreakerPolicy) shouldTrip(requests, failures uint32) bool {
	if requests < p.MinRequests {
		return false
	}
	return float64(failures)/float64(requests) >= p.FailureRatio
}
