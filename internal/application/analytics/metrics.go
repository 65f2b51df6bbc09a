package analytics

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

const (
	defaultReportLimit = 20
	maxReportLimit     = 100
	reportWorkers      = 8
)

// Ranking metrics accepted by TopPerforming.
const (
	MetricViews          = "views"
	MetricLikes          = "likes"
	MetricShares         = "shares"
	MetricEngagementRate = "engagementRate"
)

// Metrics joins authoritative counters with rates derived from the buffer.
// Rates are fractions of views and are zero when there are no views.
type Metrics struct {
	AnnouncementID uint                  `json:"announcement_id"`
	Title          string                `json:"title"`
	Type           string                `json:"type"`
	Category       string                `json:"category,omitempty"`
	PublishedAt    *time.Time            `json:"published_at,omitempty"`
	Counters       announcement.Counters `json:"counters"`
	RecentEvents   int                   `json:"recent_events"`
	NonViewEvents  int                   `json:"non_view_events"`
	UniqueUsers    int                   `json:"unique_users"`
	EngagementRate float64               `json:"engagement_rate"`
	ConversionRate float64               `json:"conversion_rate"`
}

// AudienceInsights summarises who engaged, from the buffer.
type AudienceInsights struct {
	UniqueUsers    int     `json:"unique_users"`
	ReturningUsers int     `json:"returning_users"`
	PeakBucket     string  `json:"peak_bucket,omitempty"`
	EventsPerUser  float64 `json:"events_per_user"`
}

type AnnouncementPerformance struct {
	Metrics  Metrics                   `json:"metrics"`
	Trend    map[string]map[string]int `json:"trend"`
	Audience AudienceInsights          `json:"audience"`
}

type PerformanceReport struct {
	Start         *time.Time                 `json:"start,omitempty"`
	End           *time.Time                 `json:"end,omitempty"`
	Period        string                     `json:"period"`
	GeneratedAt   time.Time                  `json:"generated_at"`
	Announcements []*AnnouncementPerformance `json:"announcements"`
}

// Metrics returns the metrics of one announcement.
func (t *Tracker) Metrics(ctx context.Context, id uint) (*Metrics, error) {
	a, err := t.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	if a == nil {
		return nil, errors.NewNotFoundError("announcement not found", fmt.Sprint(id))
	}

	events := eventsFor(t.snapshot(), id)
	m := computeMetrics(a, events)
	return &m, nil
}

// PerformanceReport covers announcements published in [start, end]. Trend
// buckets are keyed by period (hour, day, week or month).
func (t *Tracker) PerformanceReport(ctx context.Context, start, end *time.Time, limit int, period string) (*PerformanceReport, error) {
	if period == "" {
		period = biztime.PeriodDay
	}
	if !biztime.IsValidPeriod(period) {
		return nil, errors.NewValidationError("invalid period", period)
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, errors.NewValidationError("end must not be before start")
	}
	limit = clampLimit(limit)

	anns, err := t.announcements.ListPublishedBetween(ctx, start, end, limit)
	if err != nil {
		t.logger.Errorw("failed to list announcements for report", "error", err)
		return nil, fmt.Errorf("failed to list published announcements: %w", err)
	}

	byAnnouncement := groupByAnnouncement(t.snapshot())
	results := make([]*AnnouncementPerformance, len(anns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reportWorkers)
	for i, a := range anns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			events := byAnnouncement[a.ID()]
			results[i] = &AnnouncementPerformance{
				Metrics:  computeMetrics(a, events),
				Trend:    trendOf(events, period),
				Audience: insightsOf(events, period),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PerformanceReport{
		Start:         start,
		End:           end,
		Period:        period,
		GeneratedAt:   t.now().UTC(),
		Announcements: results,
	}, nil
}

// TopPerforming ranks announcements published within timeframe by metric,
// highest first.
func (t *Tracker) TopPerforming(ctx context.Context, metric, timeframe string, limit int) ([]Metrics, error) {
	if metric == "" {
		metric = MetricViews
	}
	key, ok := rankKeys[metric]
	if !ok {
		return nil, errors.NewValidationError("invalid ranking metric", metric)
	}

	start := t.now().UTC().Add(-biztime.TimeframeDuration(timeframe))
	report, err := t.PerformanceReport(ctx, &start, nil, maxReportLimit, biztime.PeriodDay)
	if err != nil {
		return nil, err
	}

	ranked := make([]Metrics, 0, len(report.Announcements))
	for _, p := range report.Announcements {
		ranked = append(ranked, p.Metrics)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})

	if limit <= 0 {
		limit = 10
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

var rankKeys = map[string]func(Metrics) float64{
	MetricViews:          func(m Metrics) float64 { return float64(m.Counters.Views) },
	MetricLikes:          func(m Metrics) float64 { return float64(m.Counters.Likes) },
	MetricShares:         func(m Metrics) float64 { return float64(m.Counters.Shares) },
	MetricEngagementRate: func(m Metrics) float64 { return m.EngagementRate },
}

func computeMetrics(a *announcement.Announcement, events []engagement.Event) Metrics {
	counters := a.Counters()
	users := make(map[string]struct{})
	nonView := 0
	for _, e := range events {
		users[e.UserID] = struct{}{}
		if e.Action != engagement.ActionView {
			nonView++
		}
	}

	m := Metrics{
		AnnouncementID: a.ID(),
		Title:          a.Title(),
		Type:           a.Type().String(),
		Category:       a.Category(),
		PublishedAt:    a.PublishedAt(),
		Counters:       counters,
		RecentEvents:   len(events),
		NonViewEvents:  nonView,
		UniqueUsers:    len(users),
	}
	if counters.Views > 0 {
		views := float64(counters.Views)
		m.EngagementRate = round4(float64(nonView) / views)
		m.ConversionRate = round4(float64(counters.Clicks+counters.Acknowledges) / views)
	}
	return m
}

// trendOf counts events per bucket and action.
func trendOf(events []engagement.Event, period string) map[string]map[string]int {
	trend := make(map[string]map[string]int)
	for _, e := range events {
		bucket := biztime.BucketKey(e.Timestamp, period)
		if trend[bucket] == nil {
			trend[bucket] = make(map[string]int)
		}
		trend[bucket][string(e.Action)]++
	}
	return trend
}

func insightsOf(events []engagement.Event, period string) AudienceInsights {
	perUser := make(map[string]int)
	perBucket := make(map[string]int)
	for _, e := range events {
		perUser[e.UserID]++
		perBucket[biztime.BucketKey(e.Timestamp, period)]++
	}

	var insights AudienceInsights
	insights.UniqueUsers = len(perUser)
	for _, n := range perUser {
		if n > 1 {
			insights.ReturningUsers++
		}
	}
	if len(perUser) > 0 {
		insights.EventsPerUser = round4(float64(len(events)) / float64(len(perUser)))
	}

	best := 0
	for _, b := range sortedKeys(perBucket) {
		if perBucket[b] > best {
			best = perBucket[b]
			insights.PeakBucket = b
		}
	}
	return insights
}

func eventsFor(events []engagement.Event, id uint) []engagement.Event {
	var out []engagement.Event
	for _, e := range events {
		if e.AnnouncementID == id {
			out = append(out, e)
		}
	}
	return out
}

func groupByAnnouncement(events []engagement.Event) map[uint][]engagement.Event {
	out := make(map[uint][]engagement.Event)
	for _, e := range events {
		out[e.AnnouncementID] = append(out[e.AnnouncementID], e)
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultReportLimit
	}
	return min(limit, maxReportLimit)
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// sortedKeys returns map keys in ascending order.
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
