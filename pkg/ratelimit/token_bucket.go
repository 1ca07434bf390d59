package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is the admission contract shared by both bucket algorithms.
type Limiter interface {
	// TryAcquire takes one permit without blocking and reports whether the
	// request is admitted. This is the only mode used on the request path.
	TryAcquire() bool
}

// TokenBucket admits up to capacity requests immediately and refills a fixed
// number of tokens per interval. Refill is computed lazily on each acquire
// under the bucket mutex, so no background timer is required.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     int
	capacity   int
	refill     int
	interval   time.Duration
	lastRefill time.Time
}

// NewTokenBucket creates a bucket that starts full.
func NewTokenBucket(capacity, tokensPerInterval int, interval time.Duration) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if tokensPerInterval <= 0 {
		tokensPerInterval = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TokenBucket{
		tokens:     capacity,
		capacity:   capacity,
		refill:     tokensPerInterval,
		interval:   interval,
		lastRefill: time.Now(),
	}
}

// TryAcquire takes one token, returning false immediately when none is
// available.
func (b *TokenBucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(time.Now())

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// Acquire blocks until a token is available or the context is cancelled. It is
// meant for background callers that can tolerate waiting; it must never be
// used on the request path.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	for {
		if b.TryAcquire() {
			return nil
		}

		wait := b.nextRefillIn()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refillLocked credits min(refill, capacity-current) tokens for each whole
// interval elapsed since the last refill. Caller holds b.mu.
func (b *TokenBucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed < b.interval {
		return
	}

	periods := int(elapsed / b.interval)
	credited := periods * b.refill
	if b.tokens+credited > b.capacity {
		b.tokens = b.capacity
	} else {
		b.tokens += credited
	}
	b.lastRefill = b.lastRefill.Add(time.Duration(periods) * b.interval)
}

func (b *TokenBucket) nextRefillIn() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	wait := b.interval - time.Since(b.lastRefill)
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait
}
