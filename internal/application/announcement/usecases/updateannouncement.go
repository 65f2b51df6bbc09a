package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/announcement/dto"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type UpdateAnnouncementUseCase struct {
	repo     announcement.Repository
	cache    ContentCache
	notifier Notifier
	logger   logger.Interface
}

func NewUpdateAnnouncementUseCase(
	repo announcement.Repository,
	cache ContentCache,
	notifier Notifier,
	logger logger.Interface,
) *UpdateAnnouncementUseCase {
	return &UpdateAnnouncementUseCase{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute applies the patch. Subscribers are notified only when the update
// moves the announcement from unpublished to published.
func (uc *UpdateAnnouncementUseCase) Execute(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	uc.logger.Infow("executing update announcement use case", "id", id)

	patch, err := toAnnouncementPatch(req)
	if err != nil {
		return nil, err
	}

	a, err := loadAnnouncement(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	published, err := a.Apply(patch, biztime.NowUTC())
	if err != nil {
		uc.logger.Warnw("announcement update rejected", "id", id, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.repo.Update(ctx, a); err != nil {
		if errors.IsNotFoundError(err) || errors.IsConflictError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to update announcement", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}

	report := publishAftermath(ctx, uc.cache, uc.notifier, a, published)
	uc.logger.Infow("announcement updated successfully",
		"id", id,
		"published_now", published,
		"notified", report.Delivered,
	)
	return dto.ToAnnouncementResponse(a), nil
}

func toAnnouncementPatch(req dto.UpdateAnnouncementRequest) (announcement.Patch, error) {
	patch := announcement.Patch{
		Title:          req.Title,
		Content:        req.Content,
		Summary:        req.Summary,
		Category:       req.Category,
		Tags:           req.Tags,
		TargetAudience: req.TargetAudience,
		IsPublished:    req.IsPublished,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
		ScheduledFor:   req.ScheduledFor,
		ExpiresAt:      req.ExpiresAt,
	}
	if req.Type != nil {
		t, err := annvo.NewAnnouncementType(*req.Type)
		if err != nil {
			return announcement.Patch{}, errors.NewValidationError("invalid announcement type", *req.Type)
		}
		patch.Type = &t
	}
	if req.Priority != nil {
		p, err := annvo.NewPriority(*req.Priority)
		if err != nil {
			return announcement.Patch{}, errors.NewValidationError("invalid priority", *req.Priority)
		}
		patch.Priority = &p
	}
	return patch, nil
}
