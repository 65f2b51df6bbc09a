package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// PublishScheduledUseCase is the body of one publication tick. It satisfies
// scheduler.BatchJob.
type PublishScheduledUseCase struct {
	repo     announcement.Repository
	cache    ContentCache
	notifier Notifier
	logger   logger.Interface
}

func NewPublishScheduledUseCase(
	repo announcement.Repository,
	cache ContentCache,
	notifier Notifier,
	logger logger.Interface,
) *PublishScheduledUseCase {
	return &PublishScheduledUseCase{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute publishes every due announcement in one bulk statement, then
// invalidates caches and notifies subscribers of each row the statement
// transitioned. Rows published concurrently elsewhere are not notified again.
// It returns the number of rows the statement transitioned.
func (uc *PublishScheduledUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC().Truncate(time.Millisecond)

	due, err := uc.repo.FindDueForPublication(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find due announcements: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(due))
	byID := make(map[uint]*announcement.Announcement, len(due))
	for _, a := range due {
		ids = append(ids, a.ID())
		byID[a.ID()] = a
	}

	published, err := uc.repo.BulkPublish(ctx, ids, now)
	if err != nil {
		return 0, fmt.Errorf("failed to publish due announcements: %w", err)
	}
	if len(published) == 0 {
		uc.logger.Infow("due announcements already published elsewhere", "candidates", len(ids))
		return 0, nil
	}
	if len(published) < len(ids) {
		uc.logger.Warnw("some due announcements changed state concurrently",
			"candidates", len(ids),
			"published", len(published),
		)
	}

	for _, id := range published {
		a, ok := byID[id]
		if !ok {
			continue
		}
		a.Publish(now)
		report := publishAftermath(ctx, uc.cache, uc.notifier, a, true)
		uc.logger.Infow("scheduled announcement published",
			"id", a.ID(),
			"targeted", report.Targeted,
			"delivered", report.Delivered,
			"failed", report.Failed,
		)
	}

	return len(published), nil
}
