// Package server throttles publishing per connection with a token bucket.
package server

import (
	"sync"
	"time"
)

// rateLimiter is a token bucket owned by one client. The zero of *rateLimiter
// (nil) means no limit.
type rateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	perSec   float64

	lastCheck time.Time
	now       func() time.Time
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if !cfg.Enabled() {
		return nil
	}
	interval := cfg.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}

	burst := float64(cfg.Burst)
	return &rateLimiter{
		tokens:    burst,
		capacity:  burst,
		perSec:    burst / interval.Seconds(),
		lastCheck: time.Now(),
		now:       time.Now,
	}
}

// allow spends one token if there is one.
func (rl *rateLimiter) allow() bool {
	if rl == nil {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if elapsed := now.Sub(rl.lastCheck); elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+elapsed.Seconds()*rl.perSec)
	}
	rl.lastCheck = now

	if rl.tokens < 1 {
		return false
	}
	rl.tokens--
	return true
}
