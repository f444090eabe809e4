package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 1, 3, 3, 3},
		{"exceeding burst blocks", 1, 2, 5, 2},
		{"single token", 1, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("203.0.113.7") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := PerMinute(1, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("198.51.100.1"))
	assert.False(t, rl.Allow("198.51.100.1"))
	assert.True(t, rl.Allow("198.51.100.2"))
	assert.Equal(t, 2, rl.Len())
}

func TestKeyedRateLimiter_RetryAfter(t *testing.T) {
	rl := PerMinute(60, 1) // one token per second
	defer rl.Stop()

	assert.Zero(t, rl.RetryAfter("client"))
	assert.True(t, rl.Allow("client"))

	wait := rl.RetryAfter("client")
	assert.Greater(t, wait, 500*time.Millisecond)
	assert.LessOrEqual(t, wait, time.Second)

	// RetryAfter does not consume the token.
	assert.False(t, rl.Allow("client"))
}

func TestKeyedRateLimiter_RetryAfterKeepsToken(t *testing.T) {
	rl := PerMinute(1, 1)
	defer rl.Stop()

	for range 3 {
		assert.Zero(t, rl.RetryAfter("198.51.100.7"))
	}
	assert.True(t, rl.Allow("198.51.100.7"))
	assert.False(t, rl.Allow("198.51.100.7"))
}

func TestKeyedRateLimiter_EvictsIdleKeys(t *testing.T) {
	rl := NewWithIdle(1, 1, time.Minute)
	defer rl.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(45 * time.Second)
	rl.Allow("recent")
	now = now.Add(30 * time.Second)

	rl.evict()
	assert.Equal(t, 1, rl.Len())

	// An evicted key starts with a full bucket again.
	assert.True(t, rl.Allow("old"))
}

func TestKeyedRateLimiter_StopTwice(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	assert.NoError(t, rl.Shutdown())
}
