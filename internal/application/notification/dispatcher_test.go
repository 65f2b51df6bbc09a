package notification

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appsubscriber "github.com/rewardsboard/eventcast/internal/application/subscriber"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/infrastructure/delivery"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

var publishedAt = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newPublished(t *testing.T, id uint, annType annvo.AnnouncementType, category string, target []string, featured bool, priority annvo.Priority) *announcement.Announcement {
	t.Helper()
	a, err := announcement.ReconstructAnnouncement(announcement.ReconstructParams{
		ID:             id,
		Title:          "Spring Festival",
		Content:        "Join us",
		Summary:        "Festival starts soon",
		Type:           annType,
		Category:       category,
		Priority:       priority,
		TargetAudience: target,
		IsPublished:    true,
		IsActive:       true,
		IsFeatured:     featured,
		PublishedAt:    &publishedAt,
		CreatedAt:      publishedAt,
		UpdatedAt:      publishedAt,
	})
	require.NoError(t, err)
	return a
}

type recordingHandle struct {
	id     string
	mu     sync.Mutex
	frames [][]byte
}

func (h *recordingHandle) ID() string { return h.id }

func (h *recordingHandle) Deliver(_ context.Context, payload []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, payload)
	return nil
}

type mockMatcher struct {
	mock.Mock
}

func (m *mockMatcher) Matches(ctx context.Context, userID string, target []string) (bool, error) {
	args := m.Called(ctx, userID, target)
	return args.Bool(0), args.Error(1)
}

// scriptedChannel records deliveries and fails or panics for chosen users.
type scriptedChannel struct {
	name    string
	failFor map[string]error
	panicOn map[string]bool
	mu      sync.Mutex
	got     []string
}

func (c *scriptedChannel) Name() string                         { return c.name }
func (c *scriptedChannel) Enabled(subscriber.Subscription) bool { return true }

func (c *scriptedChannel) Deliver(_ context.Context, sub subscriber.Subscription, _ Message) error {
	if c.panicOn[sub.UserID] {
		panic("channel exploded")
	}
	if err := c.failFor[sub.UserID]; err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, sub.UserID)
	return nil
}

func newRegistry(t *testing.T, subs map[string]subscriber.Partial) *appsubscriber.Registry {
	t.Helper()
	r := appsubscriber.NewRegistry(logger.NewNopLogger())
	for id, p := range subs {
		_, err := r.Subscribe(id, p)
		require.NoError(t, err)
	}
	return r
}

func eventsOnly() subscriber.Partial {
	return subscriber.Partial{Types: []annvo.AnnouncementType{annvo.AnnouncementTypeEvent}, Categories: []string{}}
}

func TestDispatcher_TypeExcludedNeverDelivered(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{
		"general-only": {},
		"events":       eventsOnly(),
	})
	ch := &scriptedChannel{name: "test"}
	matcher := new(mockMatcher)
	matcher.On("Matches", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	d := NewDispatcher(registry, matcher, []Channel{ch}, logger.NewNopLogger())

	for _, target := range [][]string{nil, {"all"}, {"vip"}, {"user:general-only"}} {
		ann := newPublished(t, 1, annvo.AnnouncementTypeEvent, "", target, false, annvo.PriorityNormal)
		d.Notify(context.Background(), Payload{Announcement: ann})
	}

	assert.NotContains(t, ch.got, "general-only")
	assert.Contains(t, ch.got, "events")
}

func TestDispatcher_TargetAudienceFiltering(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{
		"a": eventsOnly(),
		"b": eventsOnly(),
		"c": eventsOnly(),
	})
	matcher := new(mockMatcher)
	target := []string{"vip"}
	matcher.On("Matches", mock.Anything, "a", target).Return(true, nil)
	matcher.On("Matches", mock.Anything, "b", target).Return(false, nil)
	matcher.On("Matches", mock.Anything, "c", target).Return(false, stderrors.New("segment store down"))

	ch := &scriptedChannel{name: "test"}
	d := NewDispatcher(registry, matcher, []Channel{ch}, logger.NewNopLogger())

	report := d.Notify(context.Background(), Payload{
		Announcement: newPublished(t, 2, annvo.AnnouncementTypeEvent, "", target, false, annvo.PriorityNormal),
	})

	assert.Equal(t, DispatchReport{Candidates: 3, Targeted: 1, Delivered: 1}, report)
	assert.Equal(t, []string{"a"}, ch.got)
}

func TestDispatcher_AllAudienceSkipsMatcher(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{"a": eventsOnly()})
	matcher := new(mockMatcher)
	ch := &scriptedChannel{name: "test"}
	d := NewDispatcher(registry, matcher, []Channel{ch}, logger.NewNopLogger())

	report := d.Notify(context.Background(), Payload{
		Announcement:   newPublished(t, 3, annvo.AnnouncementTypeEvent, "", []string{"vip"}, false, annvo.PriorityNormal),
		TargetAudience: []string{"vip", "all"},
	})

	assert.Equal(t, 1, report.Delivered)

	report = d.Notify(context.Background(), Payload{
		Announcement:   newPublished(t, 4, annvo.AnnouncementTypeEvent, "", []string{"vip"}, false, annvo.PriorityNormal),
		TargetAudience: []string{" ALL "},
	})

	assert.Equal(t, 1, report.Delivered)
	matcher.AssertNotCalled(t, "Matches", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatcher_FailureIsolation(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{
		"ok":     eventsOnly(),
		"broken": eventsOnly(),
		"panics": eventsOnly(),
	})
	primary := &scriptedChannel{
		name:    "primary",
		failFor: map[string]error{"broken": stderrors.New("smtp down")},
		panicOn: map[string]bool{"panics": true},
	}
	secondary := &scriptedChannel{name: "secondary"}
	d := NewDispatcher(registry, nil, []Channel{primary, secondary}, logger.NewNopLogger())

	var report DispatchReport
	assert.NotPanics(t, func() {
		report = d.Notify(context.Background(), Payload{
			Announcement: newPublished(t, 4, annvo.AnnouncementTypeEvent, "", nil, false, annvo.PriorityNormal),
		})
	})

	assert.Equal(t, 3, report.Targeted)
	assert.Equal(t, 4, report.Delivered)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, []string{"ok"}, primary.got)
	assert.ElementsMatch(t, []string{"broken", "ok", "panics"}, secondary.got)
}

func TestDispatcher_RealtimeChannel(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{
		"online":  eventsOnly(),
		"offline": eventsOnly(),
		"muted": {
			Types:       []annvo.AnnouncementType{annvo.AnnouncementTypeEvent},
			Preferences: subscriber.PreferencesPatch{RealTime: new(bool)},
		},
	})
	handle := &recordingHandle{id: "conn-1"}
	registry.RegisterConnection("online", handle)
	registry.RegisterConnection("muted", &recordingHandle{id: "conn-2"})

	d := NewDispatcher(registry, nil, []Channel{NewRealtimeChannel(registry)}, logger.NewNopLogger())
	report := d.NotifyUrgent(context.Background(),
		newPublished(t, 5, annvo.AnnouncementTypeEvent, "pvp", nil, false, annvo.PriorityNormal))

	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)

	require.Len(t, handle.frames, 1)
	var msg Message
	require.NoError(t, json.Unmarshal(handle.frames[0], &msg))
	assert.Equal(t, KindUrgent, msg.Kind)
	assert.Equal(t, "urgent", msg.Priority)
	assert.Equal(t, uint(5), msg.AnnouncementID)
	assert.Equal(t, "Spring Festival", msg.Title)
}

func TestDispatcher_QueueChannelsDropOnFull(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{
		"u1": {Types: []annvo.AnnouncementType{annvo.AnnouncementTypeEvent}, Preferences: subscriber.PreferencesPatch{Email: boolPtr(true), Push: boolPtr(true)}},
		"u2": {Types: []annvo.AnnouncementType{annvo.AnnouncementTypeEvent}, Preferences: subscriber.PreferencesPatch{Email: boolPtr(true)}},
	})
	email := delivery.NewQueue("email", 1, nil, logger.NewNopLogger())
	push := delivery.NewQueue("push", 10, nil, logger.NewNopLogger())

	d := NewDispatcher(registry, nil, []Channel{NewEmailChannel(email), NewPushChannel(push)}, logger.NewNopLogger())
	report := d.Notify(context.Background(), Payload{
		Announcement: newPublished(t, 6, annvo.AnnouncementTypeEvent, "", nil, false, annvo.PriorityHigh),
	})

	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, int64(1), email.Stats().Dropped)
	assert.Equal(t, 1, push.Stats().Pending)
}

func TestDispatcher_NotifyFeatured(t *testing.T) {
	registry := newRegistry(t, map[string]subscriber.Partial{"u": eventsOnly()})
	ch := &scriptedChannel{name: "test"}
	d := NewDispatcher(registry, nil, []Channel{ch}, logger.NewNopLogger())

	report := d.NotifyFeatured(context.Background(),
		newPublished(t, 7, annvo.AnnouncementTypeEvent, "", nil, false, annvo.PriorityNormal))
	assert.Equal(t, DispatchReport{}, report)
	assert.Empty(t, ch.got)

	report = d.NotifyFeatured(context.Background(),
		newPublished(t, 8, annvo.AnnouncementTypeEvent, "", nil, true, annvo.PriorityNormal))
	assert.Equal(t, 1, report.Delivered)
}

func TestDispatcher_NilAnnouncement(t *testing.T) {
	d := NewDispatcher(newRegistry(t, nil), nil, nil, logger.NewNopLogger())
	assert.Equal(t, DispatchReport{}, d.Notify(context.Background(), Payload{}))
	assert.Equal(t, DispatchReport{}, d.NotifyPublished(context.Background(), nil))
}

func boolPtr(b bool) *bool { return &b }
