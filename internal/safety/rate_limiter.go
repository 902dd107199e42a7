// Package safety bounds how fast the application hits external services.
package safety

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket. The EastMoney quote endpoints tolerate a
// few requests per second per client before throttling, so batch downloads
// pace themselves through one of these.
type RateLimiter struct {
	capacity   int
	tokens     int
	refillRate int // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a full bucket with the given capacity and refill
// rate per second.
func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	return &RateLimiter{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes one token if available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.Allow() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.nextTokenDelay()):
		}
	}
}

func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	if elapsed < time.Second {
		return
	}

	added := int(elapsed.Seconds()) * rl.refillRate
	if added > 0 {
		rl.tokens += added
		if rl.tokens > rl.capacity {
			rl.tokens = rl.capacity
		}
		rl.lastRefill = now
	}
}

func (rl *RateLimiter) nextTokenDelay() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.refillRate <= 0 {
		return time.Second
	}
	// Small buffer over the exact refill moment for timer precision.
	return time.Second/time.Duration(rl.refillRate) + 50*time.Millisecond
}
