package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rewardsboard/eventcast/internal/shared/goroutine"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// CacheInvalidationEvent asks every instance to drop keys matching Pattern.
type CacheInvalidationEvent struct {
	Pattern    string `json:"pattern"`
	InstanceID string `json:"instance_id"`
	Timestamp  int64  `json:"timestamp"`
}

// CacheInvalidationHandler is called for each event published by another instance.
type CacheInvalidationHandler func(ctx context.Context, event CacheInvalidationEvent)

// RedisCacheInvalidationBus distributes cache invalidations over Redis Pub/Sub.
type RedisCacheInvalidationBus struct {
	client     *redis.Client
	channel    string
	instanceID string
	logger     logger.Interface
}

func NewRedisCacheInvalidationBus(client *redis.Client, channel, instanceID string, logger logger.Interface) *RedisCacheInvalidationBus {
	return &RedisCacheInvalidationBus{
		client:     client,
		channel:    channel,
		instanceID: instanceID,
		logger:     logger,
	}
}

// PublishInvalidation publishes pattern to peer instances.
func (b *RedisCacheInvalidationBus) PublishInvalidation(ctx context.Context, pattern string) error {
	data, err := json.Marshal(CacheInvalidationEvent{
		Pattern:    pattern,
		InstanceID: b.instanceID,
		Timestamp:  time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish cache invalidation: %w", err)
	}

	b.logger.Debugw("cache invalidation published",
		"pattern", pattern,
		"channel", b.channel,
	)
	return nil
}

// Subscribe blocks until ctx is cancelled, dispatching events that did not
// originate from this instance.
func (b *RedisCacheInvalidationBus) Subscribe(ctx context.Context, handler CacheInvalidationHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to cache invalidation events",
		"channel", b.channel,
	)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("cache invalidation subscriber stopped",
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("cache invalidation channel closed")
				return nil
			}

			var event CacheInvalidationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal cache invalidation event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}
			if event.InstanceID == b.instanceID {
				continue
			}

			_ = goroutine.Run(b.logger, "cache-invalidation-handler", func() {
				handler(ctx, event)
			})
		}
	}
}
