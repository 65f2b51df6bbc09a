// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

const (
	publicationJobName = "announcement-publication"
	cacheSweepJobName  = "content-cache-sweep"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// Locker guards a job tick across instances. An empty token means another
// instance holds the lock.
type Locker interface {
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (string, error)
	Release(ctx context.Context, name, token string) error
}

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep() int
}

// PublicationJobConfig configures the scheduled publication tick.
type PublicationJobConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	// Lock is optional; when nil only in-process overlap protection applies.
	Lock    Locker
	LockTTL time.Duration
}

// SchedulerManager manages all scheduled jobs using gocron v2.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Publication Job (1 min interval by default, start immediately)
// ========================================

// RegisterPublicationJob registers the tick that promotes due scheduled
// announcements. Singleton mode skips a tick while the previous one is
// still running.
func (m *SchedulerManager) RegisterPublicationJob(job BatchJob, cfg PublicationJobConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.Interval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			defer cancel()
			m.runPublicationTick(ctx, job, cfg)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("announcement", "publication"),
		gocron.WithName(publicationJobName),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered publication job",
		"interval", cfg.Interval,
		"distributed_lock", cfg.Lock != nil,
	)
	return nil
}

// runPublicationTick executes one tick. Failures are logged and never stop the timer.
func (m *SchedulerManager) runPublicationTick(ctx context.Context, job BatchJob, cfg PublicationJobConfig) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Errorw("publication tick panicked", "panic", r)
		}
	}()

	if cfg.Lock != nil {
		token, err := cfg.Lock.TryAcquire(ctx, publicationJobName, cfg.LockTTL)
		if err != nil {
			m.logger.Warnw("failed to acquire publication lock, skipping tick", "error", err)
			return
		}
		if token == "" {
			m.logger.Debugw("publication lock held by another instance, skipping tick")
			return
		}
		defer func() {
			if err := cfg.Lock.Release(context.Background(), publicationJobName, token); err != nil {
				m.logger.Warnw("failed to release publication lock", "error", err)
			}
		}()
	}

	startTime := biztime.NowUTC()
	published, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to publish scheduled announcements",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if published > 0 {
		m.logger.Infow("scheduled announcements published",
			"count", published,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("no scheduled announcements due",
			"duration", time.Since(startTime),
		)
	}
}

// ========================================
// Cache Maintenance Job
// ========================================

// RegisterCacheSweepJob periodically removes expired content cache entries.
func (m *SchedulerManager) RegisterCacheSweepJob(sweeper Sweeper, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if n := sweeper.Sweep(); n > 0 {
				m.logger.Debugw("expired cache entries swept", "count", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("cache", "sweep"),
		gocron.WithName(cacheSweepJobName),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered cache sweep job", "interval", interval)
	return nil
}

// ========================================
// Lifecycle
// ========================================

// Start starts the scheduler.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}
