package analytics

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	appsubscriber "github.com/rewardsboard/eventcast/internal/application/subscriber"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/infrastructure/cache"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

const dashboardTopN = 5

// UserSummary counts, per action, the distinct announcements a user engaged with.
type UserSummary struct {
	UserID       string         `json:"user_id"`
	Actions      map[string]int `json:"actions"`
	TotalEvents  int            `json:"total_events"`
	LastActivity *time.Time     `json:"last_activity,omitempty"`
}

type TrendPoint struct {
	Bucket string         `json:"bucket"`
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

type ActionTotal struct {
	Action string `json:"action"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

type AnnouncementActivity struct {
	AnnouncementID uint `json:"announcement_id"`
	Events         int  `json:"events"`
	UniqueUsers    int  `json:"unique_users"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
}

type Dashboard struct {
	GeneratedAt      time.Time              `json:"generated_at"`
	BufferedEvents   int                    `json:"buffered_events"`
	BufferCapacity   int                    `json:"buffer_capacity"`
	Totals           []ActionTotal          `json:"totals"`
	TopAnnouncements []AnnouncementActivity `json:"top_announcements"`
	ActiveUsers      int                    `json:"active_users"`
	CacheCategories  []CategoryTotal        `json:"cache_categories"`
	Cache            *cache.Stats           `json:"cache,omitempty"`
	Subscribers      *appsubscriber.Stats   `json:"subscribers,omitempty"`
}

// UserSummary reads the buffer only, so it reflects the process lifetime.
func (t *Tracker) UserSummary(userID string) (*UserSummary, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user id is required")
	}

	seen := make(map[engagement.Action]map[uint]struct{})
	summary := &UserSummary{UserID: userID, Actions: make(map[string]int)}
	for _, e := range t.snapshot() {
		if e.UserID != userID {
			continue
		}
		summary.TotalEvents++
		if seen[e.Action] == nil {
			seen[e.Action] = make(map[uint]struct{})
		}
		seen[e.Action][e.AnnouncementID] = struct{}{}
		if summary.LastActivity == nil || e.Timestamp.After(*summary.LastActivity) {
			ts := e.Timestamp
			summary.LastActivity = &ts
		}
	}
	for _, action := range engagement.AllActions() {
		summary.Actions[string(action)] = len(seen[action])
	}
	return summary, nil
}

// Trends buckets the buffered events of the last timeframe by period.
func (t *Tracker) Trends(period, timeframe string) ([]TrendPoint, error) {
	if period == "" {
		period = biztime.PeriodDay
	}
	if !biztime.IsValidPeriod(period) {
		return nil, errors.NewValidationError("invalid period", period)
	}

	since := t.now().UTC().Add(-biztime.TimeframeDuration(timeframe))
	points := make(map[string]*TrendPoint)
	for _, e := range t.snapshot() {
		if e.Timestamp.Before(since) {
			continue
		}
		bucket := biztime.BucketKey(e.Timestamp, period)
		p, ok := points[bucket]
		if !ok {
			p = &TrendPoint{Bucket: bucket, Counts: make(map[string]int)}
			points[bucket] = p
		}
		p.Counts[string(e.Action)]++
		p.Total++
	}

	out := make([]TrendPoint, 0, len(points))
	for _, bucket := range sortedKeys(points) {
		out = append(out, *points[bucket])
	}
	return out, nil
}

// Dashboard assembles buffer aggregates with cache and subscriber statistics.
func (t *Tracker) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := t.now().UTC()
	events := t.snapshot()
	d := &Dashboard{
		GeneratedAt:    now,
		BufferedEvents: len(events),
		BufferCapacity: t.Capacity(),
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Totals = actionTotals(events)
		return nil
	})

	g.Go(func() error {
		d.TopAnnouncements = topAnnouncements(events, dashboardTopN)
		return nil
	})

	g.Go(func() error {
		since := now.Add(-t.activeWindow)
		users := make(map[string]struct{})
		for _, e := range events {
			if !e.Timestamp.Before(since) {
				users[e.UserID] = struct{}{}
			}
		}
		d.ActiveUsers = len(users)
		return nil
	})

	if t.cacheStats != nil {
		g.Go(func() error {
			stats := t.cacheStats.Stats()
			d.Cache = &stats
			d.CacheCategories = categoryTotals(stats.ByCategory)
			return nil
		})
	}

	if t.subscribers != nil {
		g.Go(func() error {
			stats := t.subscribers.GetStats()
			d.Subscribers = &stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if d.CacheCategories == nil {
		d.CacheCategories = []CategoryTotal{}
	}
	return d, nil
}

func actionTotals(events []engagement.Event) []ActionTotal {
	counts := make(map[engagement.Action]int)
	for _, e := range events {
		counts[e.Action]++
	}
	caser := cases.Title(language.English)
	out := make([]ActionTotal, 0, len(counts))
	for _, action := range engagement.AllActions() {
		out = append(out, ActionTotal{
			Action: string(action),
			Label:  caser.String(string(action)),
			Count:  counts[action],
		})
	}
	return out
}

func topAnnouncements(events []engagement.Event, n int) []AnnouncementActivity {
	grouped := groupByAnnouncement(events)
	out := make([]AnnouncementActivity, 0, len(grouped))
	for id, evs := range grouped {
		users := make(map[string]struct{})
		for _, e := range evs {
			users[e.UserID] = struct{}{}
		}
		out = append(out, AnnouncementActivity{AnnouncementID: id, Events: len(evs), UniqueUsers: len(users)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Events != out[j].Events {
			return out[i].Events > out[j].Events
		}
		return out[i].AnnouncementID < out[j].AnnouncementID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func categoryTotals(categories map[string]int) []CategoryTotal {
	caser := cases.Title(language.English)
	out := make([]CategoryTotal, 0, len(categories))
	for _, name := range sortedKeys(categories) {
		out = append(out, CategoryTotal{
			Category: name,
			Label:    caser.String(name),
			Count:    categories[name],
		})
	}
	return out
}
