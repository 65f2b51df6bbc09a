package http

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rewardsboard/eventcast/internal/application/analytics"
	"github.com/rewardsboard/eventcast/internal/application/announcement"
	"github.com/rewardsboard/eventcast/internal/application/notification"
	appsubscriber "github.com/rewardsboard/eventcast/internal/application/subscriber"
	apptemplate "github.com/rewardsboard/eventcast/internal/application/template"
	"github.com/rewardsboard/eventcast/internal/infrastructure/audience"
	"github.com/rewardsboard/eventcast/internal/infrastructure/cache"
	"github.com/rewardsboard/eventcast/internal/infrastructure/config"
	"github.com/rewardsboard/eventcast/internal/infrastructure/delivery"
	"github.com/rewardsboard/eventcast/internal/infrastructure/pubsub"
	"github.com/rewardsboard/eventcast/internal/infrastructure/realtime"
	"github.com/rewardsboard/eventcast/internal/infrastructure/scheduler"
	templateinfra "github.com/rewardsboard/eventcast/internal/infrastructure/template"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/middleware"
	shareddb "github.com/rewardsboard/eventcast/internal/shared/db"
	"github.com/rewardsboard/eventcast/internal/shared/goroutine"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
	"github.com/rewardsboard/eventcast/internal/shared/services/markdown"
)

const defaultInvalidationChannel = "eventcast:cache:invalidate"

// initInfrastructure sets up Redis (optional), repositories and the content cache.
func (c *Container) initInfrastructure() error {
	if c.cfg.Redis.Enabled {
		client, err := initRedis(c.cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, c.log)

	var cacheOpts []cache.Option
	if c.redis != nil && c.cfg.Cache.Broadcast {
		channel := c.cfg.Cache.BroadcastChannel
		if channel == "" {
			channel = defaultInvalidationChannel
		}
		c.invalidationBus = pubsub.NewRedisCacheInvalidationBus(c.redis, channel, uuid.NewString(), c.log)
		cacheOpts = append(cacheOpts, cache.WithBroadcaster(c.invalidationBus))
	}
	c.contentCache = cache.NewContentCache(c.log, cacheOpts...)

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		log.Errorw("failed to connect to Redis", "addr", cfg.Redis.GetAddr(), "error", err)
		return nil, err
	}
	log.Infow("Redis connection established successfully")

	return redisClient, nil
}

// initTemplates wires the template engine with the system catalogue loader.
func (c *Container) initTemplates() {
	c.templateService = apptemplate.NewServiceDDD(
		c.repos.templateRepo,
		templateinfra.NewSystemTemplateLoader(c.cfg.Templates.SystemPath, c.log),
		shareddb.NewTransactionManager(c.db),
		markdown.NewMarkdownService(),
		c.log,
	)
}

// initAudience wires the in-memory subscriber registry and the segment matcher.
func (c *Container) initAudience() {
	c.subscriberRegistry = appsubscriber.NewRegistry(c.log,
		appsubscriber.WithActivityWindow(c.cfg.Notification.ActivityWindow),
	)
	c.segmentMatcher = audience.NewSegmentMatcher(
		c.repos.segmentRepo,
		c.cfg.Audience.CacheSize,
		c.cfg.Audience.CacheTTL,
		c.log,
	)
	c.subscriberService = appsubscriber.NewService(c.subscriberRegistry, c.segmentMatcher, c.log)
}

// initNotification wires the delivery outboxes and the dispatcher.
// Channel order is delivery order per subscriber.
func (c *Container) initNotification() {
	c.emailQueue = delivery.NewQueue("email", c.cfg.Notification.EmailQueueSize, nil, c.log)
	c.pushQueue = delivery.NewQueue("push", c.cfg.Notification.PushQueueSize, nil, c.log)

	channels := []notification.Channel{
		notification.NewRealtimeChannel(c.subscriberRegistry),
		notification.NewEmailChannel(c.emailQueue),
		notification.NewPushChannel(c.pushQueue),
	}
	c.dispatcher = notification.NewDispatcher(c.subscriberRegistry, c.segmentMatcher, channels, c.log)
}

// initAnnouncements wires the engagement tracker and the announcement service.
func (c *Container) initAnnouncements() {
	c.tracker = analytics.NewTracker(c.repos.announcementRepo, c.log,
		analytics.WithCapacity(c.cfg.Engagement.BufferCapacity),
		analytics.WithDashboardSources(c.contentCache, c.subscriberRegistry),
		analytics.WithActiveWindow(c.cfg.Notification.ActivityWindow),
	)

	c.announcementService = announcement.NewServiceDDD(
		c.repos.announcementRepo,
		c.contentCache,
		c.dispatcher,
		c.tracker,
		c.log,
	)
}

// initScheduler registers the publication tick and the cache sweep.
func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		c.log.Errorw("failed to create scheduler manager", "error", err)
		return err
	}

	jobCfg := scheduler.PublicationJobConfig{
		Interval: c.cfg.Scheduler.PublicationInterval,
		Timeout:  c.cfg.Scheduler.JobTimeout,
		LockTTL:  c.cfg.Scheduler.LockTTL,
	}
	if c.redis != nil && c.cfg.Scheduler.LockEnabled {
		jobCfg.Lock = cache.NewJobLock(c.redis)
	}
	if err := manager.RegisterPublicationJob(c.announcementService.PublicationJob(), jobCfg); err != nil {
		c.log.Errorw("failed to register publication job", "error", err)
		return err
	}
	if err := manager.RegisterCacheSweepJob(c.contentCache, c.cfg.Cache.SweepInterval); err != nil {
		c.log.Errorw("failed to register cache sweep job", "error", err)
		return err
	}

	c.schedulerManager = manager
	return nil
}

// initHandlers builds rate limiters, health checks and every HTTP handler.
func (c *Container) initHandlers() {
	if c.redis != nil {
		if limit := c.cfg.RateLimit.TrackPerMinute; limit > 0 {
			c.trackLimiter = middleware.NewRateLimiter(c.redis, "track", limit, time.Minute, c.log)
		}
		if limit := c.cfg.RateLimit.EngagementPerMinute; limit > 0 {
			c.engagementLimiter = middleware.NewRateLimiter(c.redis, "engagement", limit, time.Minute, c.log)
		}
	}

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.redis.Ping(ctx).Err() }
	}

	c.hdlrs = &allHandlers{
		templateHandler:     handlers.NewTemplateHandler(c.templateService, c.log),
		announcementHandler: handlers.NewAnnouncementHandler(c.announcementService, c.log),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			c.baseCtx,
			c.subscriberService,
			c.subscriberRegistry,
			realtime.NewUpgrader(c.cfg.Server.AllowedOrigins),
			c.log,
		),
		audienceHandler:  handlers.NewAudienceHandler(c.subscriberService, c.log),
		analyticsHandler: handlers.NewAnalyticsHandler(c.tracker, c.log),
		healthHandler:    handlers.NewHealthHandler(checks, c.log),
	}
}

// startCacheInvalidationListener clears local entries matching patterns
// published by peer instances. Own messages are filtered by the bus.
func (c *Container) startCacheInvalidationListener() {
	if c.invalidationBus == nil {
		return
	}
	goroutine.SafeGo(c.log, "cache-invalidation-listener", func() {
		err := c.invalidationBus.Subscribe(c.baseCtx, func(_ context.Context, event pubsub.CacheInvalidationEvent) {
			pattern, err := regexp.Compile(event.Pattern)
			if err != nil {
				c.log.Warnw("ignoring invalid cache invalidation pattern", "pattern", event.Pattern, "error", err)
				return
			}
			if n := c.contentCache.ClearLocal(pattern); n > 0 {
				c.log.Debugw("cleared cache entries from peer invalidation", "pattern", event.Pattern, "count", n)
			}
		})
		logSubscriberExit(c.log, "cache-invalidation-listener", err)
	})
}

// logSubscriberExit logs subscriber goroutine exit, treating context.Canceled as normal shutdown.
func logSubscriberExit(log logger.Interface, name string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		log.Infow("subscriber stopped", "name", name)
		return
	}
	log.Errorw("subscriber exited with error", "name", name, "error", err)
}
