package safety

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestRateLimiter_Allow tests that the bucket starts full and drains.
func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, 1)

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

// TestRateLimiter_WaitImmediate tests that Wait returns at once while
// tokens remain.
func TestRateLimiter_WaitImmediate(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	start := time.Now()
	assert.NoError(t, rl.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestRateLimiter_WaitCancelled tests that a cancelled context unblocks an
// empty bucket.
func TestRateLimiter_WaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRateLimiter_Refills tests that tokens come back over time.
func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, rl.Allow())
}
