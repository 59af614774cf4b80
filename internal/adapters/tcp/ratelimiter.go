package tcp

import (
	"sync"
	"time"

	"github.com/dkeye/clustchat/internal/domain"
)

// CommandRateLimiter caps how many commands a logged-in user_number may
// send per interval, generalized from the teacher's per-room chat
// throttle to a per-user_number one since this protocol has no notion of
// "room" until a command names one.
type CommandRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.UserNumber][]time.Time
	limit    int
	interval time.Duration
}

func NewCommandRateLimiter(limit int, interval time.Duration) *CommandRateLimiter {
	return &CommandRateLimiter{
		history:  make(map[domain.UserNumber][]time.Time),
		limit:    limit,
		interval: interval,
	}
}

func (rl *CommandRateLimiter) Allow(number domain.UserNumber) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.interval)

	fresh := make([]time.Time, 0, len(rl.history[number]))
	for _, t := range rl.history[number] {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[number] = fresh
		return false
	}

	fresh = append(fresh, now)
	rl.history[number] = fresh
	return true
}
