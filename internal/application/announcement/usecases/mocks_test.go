package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rewardsboard/eventcast/internal/application/notification"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	vo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type mockAnnouncementRepository struct {
	mock.Mock
}

func (m *mockAnnouncementRepository) Create(ctx context.Context, a *announcement.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAnnouncementRepository) GetByID(ctx context.Context, id uint) (*announcement.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*announcement.Announcement), args.Error(1)
}

func (m *mockAnnouncementRepository) GetByIDs(ctx context.Context, ids []uint) ([]*announcement.Announcement, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*announcement.Announcement), args.Error(1)
}

func (m *mockAnnouncementRepository) Update(ctx context.Context, a *announcement.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *mockAnnouncementRepository) ListPublished(ctx context.Context, limit, offset int) ([]*announcement.Announcement, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*announcement.Announcement), args.Get(1).(int64), args.Error(2)
}

func (m *mockAnnouncementRepository) ListPublishedBetween(ctx context.Context, start, end *time.Time, limit int) ([]*announcement.Announcement, error) {
	args := m.Called(ctx, start, end, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*announcement.Announcement), args.Error(1)
}

func (m *mockAnnouncementRepository) FindDueForPublication(ctx context.Context, now time.Time) ([]*announcement.Announcement, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*announcement.Announcement), args.Error(1)
}

func (m *mockAnnouncementRepository) BulkPublish(ctx context.Context, ids []uint, now time.Time) ([]uint, error) {
	args := m.Called(ctx, ids, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *mockAnnouncementRepository) IncrementCounter(ctx context.Context, id uint, counter vo.Counter) error {
	args := m.Called(ctx, id, counter)
	return args.Error(0)
}

type recordingNotifier struct {
	mu        sync.Mutex
	published []uint
	states    []bool
}

func (n *recordingNotifier) NotifyPublished(_ context.Context, a *announcement.Announcement) notification.DispatchReport {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, a.ID())
	n.states = append(n.states, a.IsPublished())
	return notification.DispatchReport{Candidates: 1, Targeted: 1, Delivered: 1}
}

type recordingTracker struct {
	events []engagement.Event
	err    error
}

func (r *recordingTracker) Track(e engagement.Event) (engagement.Event, error) {
	if r.err != nil {
		return engagement.Event{}, r.err
	}
	e.ID = "evt-1"
	r.events = append(r.events, e)
	return e, nil
}

func storedAnnouncement(t *testing.T, id uint, published bool, scheduledFor *time.Time) *announcement.Announcement {
	t.Helper()
	p := announcement.ReconstructParams{
		ID:             id,
		Title:          "Season 4 kickoff",
		Content:        "The new season starts **today**.",
		Type:           vo.AnnouncementTypeSeason,
		Category:       "season",
		Priority:       vo.PriorityNormal,
		TargetAudience: []string{"all"},
		IsActive:       true,
		IsPublished:    published,
		ScheduledFor:   scheduledFor,
		Counters:       announcement.Counters{Views: 3},
		CreatedAt:      testNow.Add(-time.Hour),
		UpdatedAt:      testNow.Add(-time.Hour),
	}
	if published {
		at := testNow.Add(-time.Hour)
		p.PublishedAt = &at
	}
	a, err := announcement.ReconstructAnnouncement(p)
	require.NoError(t, err)
	return a
}
