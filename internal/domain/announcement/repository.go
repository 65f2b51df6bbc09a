package announcement

import (
	"context"
	"time"

	vo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
)

// Repository is the persistence boundary for announcements.
type Repository interface {
	Create(ctx context.Context, a *Announcement) error
	GetByID(ctx context.Context, id uint) (*Announcement, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Announcement, error)
	// Update returns a conflict error when the row changed since it was loaded.
	Update(ctx context.Context, a *Announcement) error
	ListPublished(ctx context.Context, limit, offset int) ([]*Announcement, int64, error)
	// ListPublishedBetween returns published announcements whose publishedAt
	// falls in [start, end]; nil bounds are open.
	ListPublishedBetween(ctx context.Context, start, end *time.Time, limit int) ([]*Announcement, error)

	// FindDueForPublication selects rows with scheduledFor <= now that are
	// active, unpublished and not deleted.
	FindDueForPublication(ctx context.Context, now time.Time) ([]*Announcement, error)
	// BulkPublish transitions all ids in a single statement and returns the
	// ids of the rows that this call actually moved to published.
	BulkPublish(ctx context.Context, ids []uint, now time.Time) ([]uint, error)

	IncrementCounter(ctx context.Context, id uint, counter vo.Counter) error
}
