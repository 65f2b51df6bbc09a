// Package delivery provides the bounded in-memory outboxes behind the email
// and push notification channels. Jobs are drained and logged; no external
// provider is contacted.
package delivery

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rewardsboard/eventcast/internal/shared/goroutine"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// ErrQueueFull is returned when a job is dropped because the buffer is at capacity.
var ErrQueueFull = errors.New("delivery queue full")

// Job is one queued notification for one subscriber.
type Job struct {
	UserID         string    `json:"user_id"`
	AnnouncementID uint      `json:"announcement_id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary,omitempty"`
	Priority       string    `json:"priority"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

// Sender performs the final hand-off of a job. The default sender only logs.
type Sender func(ctx context.Context, job Job) error

// QueueStats is a point-in-time snapshot of a queue.
type QueueStats struct {
	Name     string `json:"name"`
	Pending  int    `json:"pending"`
	Capacity int    `json:"capacity"`
	Enqueued int64  `json:"enqueued"`
	Dropped  int64  `json:"dropped"`
	Sent     int64  `json:"sent"`
	Failed   int64  `json:"failed"`
}

// Queue is a non-blocking, drop-on-full outbox.
type Queue struct {
	name   string
	jobs   chan Job
	sender Sender
	logger logger.Interface

	enqueued atomic.Int64
	dropped  atomic.Int64
	sent     atomic.Int64
	failed   atomic.Int64
}

func NewQueue(name string, capacity int, sender Sender, log logger.Interface) *Queue {
	if capacity <= 0 {
		capacity = 1000
	}
	q := &Queue{
		name:   name,
		jobs:   make(chan Job, capacity),
		sender: sender,
		logger: log.With("component", "delivery."+name),
	}
	if q.sender == nil {
		q.sender = q.logSender
	}
	return q
}

func (q *Queue) Name() string { return q.name }

// Enqueue never blocks.
func (q *Queue) Enqueue(job Job) error {
	select {
	case q.jobs <- job:
		q.enqueued.Add(1)
		return nil
	default:
		q.dropped.Add(1)
		q.logger.Warnw("delivery queue full, dropping job",
			"user_id", job.UserID,
			"announcement_id", job.AnnouncementID,
		)
		return ErrQueueFull
	}
}

// Start drains the queue on a background goroutine until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	goroutine.SafeGo(q.logger, "delivery-"+q.name, func() {
		q.run(ctx)
	})
}

func (q *Queue) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *Queue) process(ctx context.Context, job Job) {
	err := goroutine.Run(q.logger, "delivery-"+q.name+"-send", func() {
		if sendErr := q.sender(ctx, job); sendErr != nil {
			q.failed.Add(1)
			q.logger.Warnw("delivery failed",
				"user_id", job.UserID,
				"announcement_id", job.AnnouncementID,
				"error", sendErr,
			)
			return
		}
		q.sent.Add(1)
	})
	if err != nil {
		q.failed.Add(1)
	}
}

func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Name:     q.name,
		Pending:  len(q.jobs),
		Capacity: cap(q.jobs),
		Enqueued: q.enqueued.Load(),
		Dropped:  q.dropped.Load(),
		Sent:     q.sent.Load(),
		Failed:   q.failed.Load(),
	}
}

func (q *Queue) logSender(_ context.Context, job Job) error {
	q.logger.Debugw("notification handed off",
		"user_id", job.UserID,
		"announcement_id", job.AnnouncementID,
		"priority", job.Priority,
		"queued_for", time.Since(job.EnqueuedAt),
	)
	return nil
}
