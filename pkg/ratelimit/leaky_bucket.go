package ratelimit

import (
	"sync"
	"time"
)

// LeakyBucket admits a request when the water level stays under capacity after
// draining. The drain is computed lazily at each check (drain-then-admit)
// under the same mutex as the level mutation, so there are no lost updates and
// no background timer.
type LeakyBucket struct {
	mu            sync.Mutex
	capacity      int
	leakPerSecond float64
	level         float64
	lastCheck     time.Time
}

// NewLeakyBucket creates an empty bucket draining leakPerSecond requests per
// second.
func NewLeakyBucket(capacity, leakPerSecond int) *LeakyBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if leakPerSecond <= 0 {
		leakPerSecond = 1
	}
	return &LeakyBucket{
		capacity:      capacity,
		leakPerSecond: float64(leakPerSecond),
		lastCheck:     time.Now(),
	}
}

// TryAcquire drains the elapsed leakage, then admits the request only if the
// level is still under capacity.
func (b *LeakyBucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastCheck)
	b.lastCheck = now

	b.level -= elapsed.Seconds() * b.leakPerSecond
	if b.level < 0 {
		b.level = 0
	}

	if b.level < float64(b.capacity) {
		b.level++
		return true
	}
	return false
}
