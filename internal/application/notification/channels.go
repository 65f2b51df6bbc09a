package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/infrastructure/delivery"
)

// ErrNotConnected means the subscriber has no live handle. The dispatcher
// counts it as skipped, not failed.
var ErrNotConnected = errors.New("subscriber not connected")

// Channel is one delivery path. Enabled consults the subscriber's preferences.
type Channel interface {
	Name() string
	Enabled(sub subscriber.Subscription) bool
	Deliver(ctx context.Context, sub subscriber.Subscription, msg Message) error
}

// ConnectionSource resolves the live handle of a user.
type ConnectionSource interface {
	Connection(userID string) (subscriber.LiveHandle, bool)
}

// RealtimeChannel pushes JSON frames to connected subscribers.
type RealtimeChannel struct {
	conns ConnectionSource
}

func NewRealtimeChannel(conns ConnectionSource) *RealtimeChannel {
	return &RealtimeChannel{conns: conns}
}

func (c *RealtimeChannel) Name() string { return "realtime" }

func (c *RealtimeChannel) Enabled(sub subscriber.Subscription) bool {
	return sub.Preferences.RealTime
}

func (c *RealtimeChannel) Deliver(ctx context.Context, sub subscriber.Subscription, msg Message) error {
	handle, ok := c.conns.Connection(sub.UserID)
	if !ok {
		return ErrNotConnected
	}
	frame, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode realtime message: %w", err)
	}
	return handle.Deliver(ctx, frame)
}

// Enqueuer accepts delivery jobs without blocking.
type Enqueuer interface {
	Enqueue(job delivery.Job) error
}

// QueueChannel hands messages to a bounded outbox (email, push).
type QueueChannel struct {
	name    string
	enabled func(subscriber.Preferences) bool
	queue   Enqueuer
}

func NewEmailChannel(queue Enqueuer) *QueueChannel {
	return &QueueChannel{
		name:    "email",
		enabled: func(p subscriber.Preferences) bool { return p.Email },
		queue:   queue,
	}
}

func NewPushChannel(queue Enqueuer) *QueueChannel {
	return &QueueChannel{
		name:    "push",
		enabled: func(p subscriber.Preferences) bool { return p.Push },
		queue:   queue,
	}
}

func (c *QueueChannel) Name() string { return c.name }

func (c *QueueChannel) Enabled(sub subscriber.Subscription) bool {
	return c.enabled(sub.Preferences)
}

func (c *QueueChannel) Deliver(_ context.Context, sub subscriber.Subscription, msg Message) error {
	return c.queue.Enqueue(delivery.Job{
		UserID:         sub.UserID,
		AnnouncementID: msg.AnnouncementID,
		Title:          msg.Title,
		Summary:        msg.Summary,
		Priority:       msg.Priority,
		EnqueuedAt:     msg.SentAt,
	})
}
