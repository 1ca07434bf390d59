// Package jobs runs background work on a bounded worker pool. The gateway
// uses it to take verification email delivery off the request path.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes one payload. A non-nil error triggers a retry until the
// attempt budget is spent.
type Handler[T any] func(ctx context.Context, payload T) error

// Config tunes the worker pool.
type Config struct {
	Workers int
	Buffer  int
	Retries int
	Backoff time.Duration
	Logger  *zap.Logger
}

// Queue dispatches payloads of one type to a fixed set of workers over a
// buffered channel. Enqueue blocks when the buffer is full, which
// backpressures producers instead of growing memory without bound.
type Queue[T any] struct {
	name    string
	handler Handler[T]
	retries int
	backoff time.Duration
	logger  *zap.Logger

	tasks   chan T
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// New builds a queue for the given handler. Zero config fields fall back to
// safe defaults.
func New[T any](name string, handler Handler[T], cfg Config) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = cfg.Workers * 4
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue[T]{
		name:    name,
		handler: handler,
		retries: cfg.Retries,
		backoff: cfg.Backoff,
		logger:  cfg.Logger,
		tasks:   make(chan T, cfg.Buffer),
		workers: cfg.Workers,
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Info("queue started", zap.String("queue", q.name), zap.Int("workers", q.workers))
}

// Stop cancels the workers and waits for in-flight handlers to return.
// Buffered payloads that no worker has picked up yet are dropped.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Info("queue stopped", zap.String("queue", q.name))
}

// Enqueue hands a payload to the pool, blocking while the buffer is full.
func (q *Queue[T]) Enqueue(payload T) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("queue %s stopped: %w", q.name, err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.tasks <- payload:
		return nil
	}
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case payload := <-q.tasks:
			q.process(payload)
		}
	}
}

func (q *Queue[T]) process(payload T) {
	for attempt := 0; ; attempt++ {
		err := q.handler(q.ctx, payload)
		if err == nil {
			return
		}
		if attempt >= q.retries {
			q.logger.Error("task dropped after retries",
				zap.String("queue", q.name),
				zap.Int("attempts", attempt+1),
				zap.Error(err))
			return
		}
		q.logger.Warn("task failed, retrying",
			zap.String("queue", q.name),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		select {
		case <-q.ctx.Done():
			return
		case <-time.After(q.backoff):
		}
	}
}
