package service

import (
	"context"
	"time"

	"github.com/aligarduo/Naive-Dev/pkg/jobs"
)

// VerifyMail is the delivery payload handed to the background queue.
type VerifyMail struct {
	To   string
	Code string
	TTL  time.Duration
}

// QueuedMailSender satisfies the auth service's mail contract by enqueueing
// delivery instead of holding the request open for the SMTP round trip. A
// delivery failure is retried by the queue; the caller only sees enqueue
// errors.
type QueuedMailSender struct {
	queue *jobs.Queue[VerifyMail]
}

// NewQueuedMailSender wraps a started delivery queue.
func NewQueuedMailSender(queue *jobs.Queue[VerifyMail]) *QueuedMailSender {
	return &QueuedMailSender{queue: queue}
}

// SendVerifyCode enqueues the verification email for delivery.
func (s *QueuedMailSender) SendVerifyCode(ctx context.Context, to, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.queue.Enqueue(VerifyMail{To: to, Code: code, TTL: ttl})
}
