// Package ratelimit provides an in-memory sliding-window log rate limiter
// keyed by client identifier (IP address). It stores exact request
// timestamps per client, so the limit is precise rather than approximate,
// at O(cap) memory per active client.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window log rate limiter. Construct with New and
// inject where needed; it holds no global state.
type Limiter struct {
	cap    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
}

// New creates a Limiter admitting at most cap calls per client within the
// trailing window.
func New(cap int, window time.Duration) *Limiter {
	return &Limiter{
		cap:     cap,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// NewWithClock creates a Limiter with a custom time source, for tests.
func NewWithClock(cap int, window time.Duration, now func() time.Time) *Limiter {
	l := New(cap, window)
	l.now = now
	return l
}

// Allow reports whether a request from clientID is admitted. It first prunes
// the client's timestamps to those strictly newer than now-window, then
// records the current time and admits if the pruned count is below the cap.
// Rejected calls are not recorded, so they never consume a slot. The
// prune-check-append sequence runs under a single lock, so two concurrent
// calls for the same client cannot both claim the last slot.
func (l *Limiter) Allow(clientID string) bool {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Prune in place on the shared backing array.
	timestamps := l.clients[clientID]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= l.cap {
		l.clients[clientID] = valid
		return false
	}

	l.clients[clientID] = append(valid, now)
	return true
}

// RetryAfter returns how long the client must wait until the oldest recorded
// timestamp falls out of the window. Zero when the client is not currently
// limited.
func (l *Limiter) RetryAfter(clientID string) time.Duration {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamps := l.clients[clientID]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}
	l.clients[clientID] = valid

	if len(valid) < l.cap || len(valid) == 0 {
		return 0
	}
	return valid[0].Add(l.window).Sub(now)
}
