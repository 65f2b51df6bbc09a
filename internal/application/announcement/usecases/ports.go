package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/rewardsboard/eventcast/internal/application/notification"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/infrastructure/cache"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

// ContentCache is the read-through cache in front of announcement reads.
type ContentCache interface {
	GetOrSet(ctx context.Context, key string, fetch func(context.Context) (any, error), ttl time.Duration) (any, error)
	InvalidateAnnouncementCache(ctx context.Context, id uint) int
}

type Notifier interface {
	NotifyPublished(ctx context.Context, ann *announcement.Announcement) notification.DispatchReport
}

type EngagementTracker interface {
	Track(e engagement.Event) (engagement.Event, error)
}

func announcementKey(id uint) string {
	return cache.GenerateKey("announcement", id)
}

func publishedKey(limit, offset int) string {
	return cache.GenerateKey("published", limit, offset)
}

func loadAnnouncement(ctx context.Context, repo announcement.Repository, id uint) (*announcement.Announcement, error) {
	a, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}
	if a == nil {
		return nil, errors.NewNotFoundError("announcement not found", fmt.Sprint(id))
	}
	return a, nil
}

// publishAftermath clears derived cache entries and fans the announcement
// out to subscribers. Neither step can fail the calling flow.
func publishAftermath(ctx context.Context, c ContentCache, n Notifier, a *announcement.Announcement, notify bool) notification.DispatchReport {
	if c != nil {
		c.InvalidateAnnouncementCache(ctx, a.ID())
	}
	if !notify || n == nil {
		return notification.DispatchReport{}
	}
	return n.NotifyPublished(ctx, a)
}
