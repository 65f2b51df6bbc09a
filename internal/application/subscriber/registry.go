// Package subscriber keeps the in-process subscription registry and the
// live-connection handles used for realtime delivery.
package subscriber

import (
	"cmp"
	"slices"
	"sync"
	"time"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// DefaultActivityWindow is how long a subscriber counts as active after
// their last recorded activity.
const DefaultActivityWindow = 24 * time.Hour

// Stats summarises the registry.
type Stats struct {
	TotalSubscribers  int     `json:"total_subscribers"`
	ActiveSubscribers int     `json:"active_subscribers"`
	ActiveConnections int     `json:"active_connections"`
	EmailEnabled      int     `json:"email_enabled"`
	PushEnabled       int     `json:"push_enabled"`
	ConnectionRate    float64 `json:"connection_rate"`
}

// Registry holds subscriptions and live handles behind one RWMutex so that
// no reader observes a partially applied update. Subscriptions are handed
// out as copies.
type Registry struct {
	mu    sync.RWMutex
	subs  map[string]subscriber.Subscription
	conns map[string]subscriber.LiveHandle

	window time.Duration
	now    func() time.Time
	logger logger.Interface
}

type Option func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithActivityWindow overrides DefaultActivityWindow.
func WithActivityWindow(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.window = d
		}
	}
}

func NewRegistry(log logger.Interface, opts ...Option) *Registry {
	r := &Registry{
		subs:   make(map[string]subscriber.Subscription),
		conns:  make(map[string]subscriber.LiveHandle),
		window: DefaultActivityWindow,
		now:    time.Now,
		logger: log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe merges p into the user's existing subscription, or into the
// defaults when there is none, and refreshes the activity timestamp.
func (r *Registry) Subscribe(userID string, p subscriber.Partial) (subscriber.Subscription, error) {
	if userID == "" {
		return subscriber.Subscription{}, errors.NewValidationError("user id is required")
	}
	for _, t := range p.Types {
		if !t.IsValid() {
			return subscriber.Subscription{}, errors.NewValidationError("invalid announcement type", string(t))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	current, ok := r.subs[userID]
	if !ok {
		current = subscriber.NewSubscription(userID, now)
	}
	updated := current.Merge(p, now)
	r.subs[userID] = updated

	r.logger.Debugw("subscription stored", "user_id", userID, "created", !ok)
	return updated.Clone(), nil
}

// Unsubscribe removes the subscription and any live handle. It reports
// whether a subscription existed and returns the removed handle, if any, so
// the caller can close it.
func (r *Registry) Unsubscribe(userID string) (bool, subscriber.LiveHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.subs[userID]
	handle := r.conns[userID]
	delete(r.subs, userID)
	delete(r.conns, userID)
	return ok, handle
}

// UpdatePreferences shallow-merges patch into the user's preferences. A user
// without a subscription is left alone and ok is false.
func (r *Registry) UpdatePreferences(userID string, patch subscriber.PreferencesPatch) (subscriber.Subscription, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[userID]
	if !ok {
		return subscriber.Subscription{}, false
	}
	sub.Preferences = sub.Preferences.Merge(patch)
	sub.LastActivity = r.now()
	r.subs[userID] = sub
	return sub.Clone(), true
}

// Get returns a copy of the user's subscription.
func (r *Registry) Get(userID string) (subscriber.Subscription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[userID]
	if !ok {
		return subscriber.Subscription{}, false
	}
	return sub.Clone(), true
}

// RegisterConnection associates handle with userID and returns the handle it
// replaced, if any, so the caller can close it.
func (r *Registry) RegisterConnection(userID string, handle subscriber.LiveHandle) subscriber.LiveHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.conns[userID]
	r.conns[userID] = handle
	r.touchLocked(userID)
	return previous
}

func (r *Registry) RemoveConnection(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, userID)
}

// RemoveConnectionIf removes the user's handle only while it is still the
// handle with handleID. A connection that was already replaced by a newer one
// does not unregister its successor.
func (r *Registry) RemoveConnectionIf(userID, handleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.conns[userID]
	if !ok || h.ID() != handleID {
		return false
	}
	delete(r.conns, userID)
	return true
}

// Connection returns the live handle registered for userID.
func (r *Registry) Connection(userID string) (subscriber.LiveHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.conns[userID]
	return h, ok
}

// Touch records activity for a subscribed user.
func (r *Registry) Touch(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touchLocked(userID)
}

func (r *Registry) touchLocked(userID string) {
	sub, ok := r.subs[userID]
	if !ok {
		return
	}
	sub.LastActivity = r.now()
	r.subs[userID] = sub
}

// Candidates returns the subscriptions interested in an announcement of type
// t and the given category, ordered by user id.
func (r *Registry) Candidates(t annvo.AnnouncementType, category string) []subscriber.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []subscriber.Subscription
	for _, sub := range r.subs {
		if sub.InterestedIn(t, category) {
			out = append(out, sub.Clone())
		}
	}
	sortByUser(out)
	return out
}

// GetActiveSubscribers returns subscriptions with activity inside the window.
func (r *Registry) GetActiveSubscribers() []subscriber.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var out []subscriber.Subscription
	for _, sub := range r.subs {
		if sub.IsActive(now, r.window) {
			out = append(out, sub.Clone())
		}
	}
	sortByUser(out)
	return out
}

func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	stats := Stats{
		TotalSubscribers:  len(r.subs),
		ActiveConnections: len(r.conns),
	}
	for _, sub := range r.subs {
		if sub.Preferences.Email {
			stats.EmailEnabled++
		}
		if sub.Preferences.Push {
			stats.PushEnabled++
		}
		if sub.IsActive(now, r.window) {
			stats.ActiveSubscribers++
		}
	}
	if stats.TotalSubscribers > 0 {
		stats.ConnectionRate = float64(stats.ActiveConnections) / float64(stats.TotalSubscribers) * 100
	}
	return stats
}

func sortByUser(subs []subscriber.Subscription) {
	slices.SortFunc(subs, func(a, b subscriber.Subscription) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
}
