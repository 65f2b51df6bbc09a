// Package analytics keeps a bounded, in-memory index of recent engagement
// events and derives metrics, reports and trends from it. Authoritative
// counters stay in persistence; the buffer only covers the process lifetime.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	appsubscriber "github.com/rewardsboard/eventcast/internal/application/subscriber"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/infrastructure/cache"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// DefaultCapacity bounds the event buffer.
const DefaultCapacity = 10000

// AnnouncementReader is the authoritative side of analytics queries.
type AnnouncementReader interface {
	GetByID(ctx context.Context, id uint) (*announcement.Announcement, error)
	ListPublishedBetween(ctx context.Context, start, end *time.Time, limit int) ([]*announcement.Announcement, error)
}

// CacheStatsSource and SubscriberStatsSource feed the dashboard.
type CacheStatsSource interface {
	Stats() cache.Stats
}

type SubscriberStatsSource interface {
	GetStats() appsubscriber.Stats
}

// Tracker is a fixed-capacity ring buffer of engagement events. Once full,
// each new event overwrites the oldest one.
type Tracker struct {
	mu     sync.RWMutex
	events []engagement.Event
	next   int
	full   bool

	announcements AnnouncementReader
	cacheStats    CacheStatsSource
	subscribers   SubscriberStatsSource
	activeWindow  time.Duration

	now    func() time.Time
	logger logger.Interface
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithCapacity(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.events = make([]engagement.Event, n)
		}
	}
}

// WithDashboardSources attaches the cache and subscriber statistics shown
// on the dashboard. Either may be nil.
func WithDashboardSources(c CacheStatsSource, s SubscriberStatsSource) Option {
	return func(t *Tracker) {
		t.cacheStats = c
		t.subscribers = s
	}
}

// WithActiveWindow sets how far back the dashboard counts active users.
func WithActiveWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.activeWindow = d
		}
	}
}

func NewTracker(announcements AnnouncementReader, log logger.Interface, opts ...Option) *Tracker {
	t := &Tracker{
		events:        make([]engagement.Event, DefaultCapacity),
		announcements: announcements,
		activeWindow:  24 * time.Hour,
		now:           time.Now,
		logger:        log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track validates and appends e, assigning an id and timestamp when missing.
func (t *Tracker) Track(e engagement.Event) (engagement.Event, error) {
	if e.UserID == "" {
		return engagement.Event{}, errors.NewValidationError("user id is required")
	}
	if e.AnnouncementID == 0 {
		return engagement.Event{}, errors.NewValidationError("announcement id is required")
	}
	if !e.Action.IsValid() {
		return engagement.Event{}, errors.NewValidationError("invalid engagement action", string(e.Action))
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = t.now().UTC()
	}

	t.mu.Lock()
	t.events[t.next] = e
	t.next = (t.next + 1) % len(t.events)
	if t.next == 0 {
		t.full = true
	}
	t.mu.Unlock()

	t.logger.Debugw("engagement tracked",
		"announcement_id", e.AnnouncementID,
		"user_id", e.UserID,
		"action", e.Action,
	)
	return e, nil
}

// Len returns the number of buffered events.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.full {
		return len(t.events)
	}
	return t.next
}

func (t *Tracker) Capacity() int {
	return len(t.events)
}

// snapshot copies the buffered events, oldest first.
func (t *Tracker) snapshot() []engagement.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		out := make([]engagement.Event, t.next)
		copy(out, t.events[:t.next])
		return out
	}
	out := make([]engagement.Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	out = append(out, t.events[:t.next]...)
	return out
}
