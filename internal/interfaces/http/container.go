package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

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
	"github.com/rewardsboard/eventcast/internal/infrastructure/scheduler"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/middleware"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// Container holds all infrastructure components, services, handlers and
// background workers. It is responsible for wiring everything together and
// providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// baseCtx outlives requests; cancelled on Shutdown to stop workers and
	// close websocket connections.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	// Repositories
	repos *repositories

	// Content cache and cross-instance invalidation
	contentCache    *cache.ContentCache
	invalidationBus *pubsub.RedisCacheInvalidationBus

	// Application services
	templateService     *apptemplate.ServiceDDD
	announcementService *announcement.ServiceDDD
	subscriberRegistry  *appsubscriber.Registry
	subscriberService   *appsubscriber.Service
	segmentMatcher      *audience.SegmentMatcher
	dispatcher          *notification.Dispatcher
	tracker             *analytics.Tracker

	// Delivery outboxes
	emailQueue *delivery.Queue
	pushQueue  *delivery.Queue

	// Middlewares
	trackLimiter      *middleware.RateLimiter
	engagementLimiter *middleware.RateLimiter

	// Handlers
	hdlrs *allHandlers

	// Background jobs
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer creates a new Container with all dependencies wired together.
// Sections are initialised in dependency order.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	baseCtx, baseCancel := context.WithCancel(context.Background())
	c := &Container{
		engine:     gin.New(),
		db:         db,
		cfg:        cfg,
		log:        log,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}

	// Section 1: Infrastructure - Redis, Repositories, Content Cache
	if err := c.initInfrastructure(); err != nil {
		baseCancel()
		return nil, err
	}

	// Section 2: Templates - Catalogue, Template Service
	c.initTemplates()

	// Section 3: Audience - Subscriber Registry, Segments
	c.initAudience()

	// Section 4: Notification - Outboxes, Channels, Dispatcher
	c.initNotification()

	// Section 5: Analytics & Announcements
	c.initAnnouncements()

	// Section 6: Scheduler - Publication Tick, Cache Sweep
	if err := c.initScheduler(); err != nil {
		baseCancel()
		return nil, err
	}

	// Section 7: Handlers and middlewares
	c.initHandlers()

	return c, nil
}

// Engine returns the Gin engine
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Start launches the background workers and seeds system templates when configured.
func (c *Container) Start() {
	c.emailQueue.Start(c.baseCtx)
	c.pushQueue.Start(c.baseCtx)

	c.startCacheInvalidationListener()

	if c.cfg.Templates.SeedOnStart {
		result, err := c.templateService.InitializeSystemTemplates(c.baseCtx)
		if err != nil {
			c.log.Errorw("failed to seed system templates", "error", err)
		} else {
			c.log.Infow("system templates seeded",
				"created", len(result.Created),
				"skipped", len(result.Skipped),
			)
		}
	}

	c.schedulerManager.Start()
}

// Shutdown stops background work in reverse order of startup. It is safe to
// call after the HTTP server has stopped accepting requests.
func (c *Container) Shutdown() {
	// Stop the publication tick first so no announcement is published mid-shutdown
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	// Cancel workers, invalidation listener and websocket connections
	c.baseCancel()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
