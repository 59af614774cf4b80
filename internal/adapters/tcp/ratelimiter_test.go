package tcp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommandRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewCommandRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow("1"))
	assert.True(t, rl.Allow("1"))
	assert.True(t, rl.Allow("1"))
	assert.False(t, rl.Allow("1"))
}

func TestCommandRateLimiterTracksUsersIndependently(t *testing.T) {
	rl := NewCommandRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("1"))
	assert.True(t, rl.Allow("2"))
	assert.False(t, rl.Allow("1"))
	assert.False(t, rl.Allow("2"))
}

func TestCommandRateLimiterRefillsAfterIntervalElapses(t *testing.T) {
	rl := NewCommandRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("1"))
	assert.False(t, rl.Allow("1"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Allow("1"))
}
