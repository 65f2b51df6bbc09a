package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/announcement/dto"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/domain/engagement"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type RecordEngagementUseCase struct {
	repo    announcement.Repository
	cache   ContentCache
	tracker EngagementTracker
	logger  logger.Interface
}

func NewRecordEngagementUseCase(
	repo announcement.Repository,
	cache ContentCache,
	tracker EngagementTracker,
	logger logger.Interface,
) *RecordEngagementUseCase {
	return &RecordEngagementUseCase{
		repo:    repo,
		cache:   cache,
		tracker: tracker,
		logger:  logger,
	}
}

// Execute bumps the persisted counter, then records the event in the
// analytics buffer and drops the cached announcement. Only the counter
// increment can fail the call.
func (uc *RecordEngagementUseCase) Execute(ctx context.Context, id uint, userID, rawAction string) (*dto.EngagementResponse, error) {
	uc.logger.Infow("executing record engagement use case", "id", id, "user_id", userID, "action", rawAction)

	if userID == "" {
		return nil, errors.NewValidationError("user id is required")
	}
	action, err := engagement.NewAction(rawAction)
	if err != nil {
		return nil, errors.NewValidationError("invalid engagement action", rawAction)
	}
	counter, ok := action.Counter()
	if !ok {
		return nil, errors.NewValidationError("action does not map to a counter", rawAction)
	}

	if err := uc.repo.IncrementCounter(ctx, id, counter); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to increment engagement counter", "id", id, "counter", counter, "error", err)
		return nil, fmt.Errorf("failed to record engagement: %w", err)
	}

	resp := &dto.EngagementResponse{
		AnnouncementID: id,
		Action:         string(action),
		RecordedAt:     biztime.NowUTC(),
	}

	if uc.tracker != nil {
		event, err := uc.tracker.Track(engagement.Event{
			UserID:         userID,
			AnnouncementID: id,
			Action:         action,
			Timestamp:      resp.RecordedAt,
		})
		if err != nil {
			uc.logger.Warnw("failed to track engagement event", "id", id, "user_id", userID, "error", err)
		} else {
			resp.EventID = event.ID
		}
	}

	if uc.cache != nil {
		uc.cache.InvalidateAnnouncementCache(ctx, id)
	}

	return resp, nil
}
