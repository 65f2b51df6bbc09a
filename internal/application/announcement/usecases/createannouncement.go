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

type CreateAnnouncementUseCase struct {
	repo     announcement.Repository
	cache    ContentCache
	notifier Notifier
	logger   logger.Interface
}

func NewCreateAnnouncementUseCase(
	repo announcement.Repository,
	cache ContentCache,
	notifier Notifier,
	logger logger.Interface,
) *CreateAnnouncementUseCase {
	return &CreateAnnouncementUseCase{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

func (uc *CreateAnnouncementUseCase) Execute(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	uc.logger.Infow("executing create announcement use case", "title", req.Title, "type", req.Type)

	draft, err := toDraft(req)
	if err != nil {
		return nil, err
	}

	a, err := announcement.NewAnnouncement(draft, biztime.NowUTC())
	if err != nil {
		uc.logger.Warnw("announcement rejected", "title", req.Title, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.repo.Create(ctx, a); err != nil {
		uc.logger.Errorw("failed to persist announcement", "title", req.Title, "error", err)
		return nil, fmt.Errorf("failed to save announcement: %w", err)
	}

	report := publishAftermath(ctx, uc.cache, uc.notifier, a, a.IsPublished())
	uc.logger.Infow("announcement created successfully",
		"id", a.ID(),
		"published", a.IsPublished(),
		"notified", report.Delivered,
	)
	return dto.ToAnnouncementResponse(a), nil
}

func toDraft(req dto.CreateAnnouncementRequest) (announcement.Draft, error) {
	d := announcement.Draft{
		Title:          req.Title,
		Content:        req.Content,
		Summary:        req.Summary,
		Category:       req.Category,
		Tags:           req.Tags,
		TargetAudience: req.TargetAudience,
		IsPublished:    req.IsPublished,
		IsFeatured:     req.IsFeatured,
		ScheduledFor:   req.ScheduledFor,
		ExpiresAt:      req.ExpiresAt,
		CreatedBy:      req.CreatedBy,
	}
	if req.Type != "" {
		t, err := annvo.NewAnnouncementType(req.Type)
		if err != nil {
			return announcement.Draft{}, errors.NewValidationError("invalid announcement type", req.Type)
		}
		d.Type = t
	}
	if req.Priority != "" {
		p, err := annvo.NewPriority(req.Priority)
		if err != nil {
			return announcement.Draft{}, errors.NewValidationError("invalid priority", req.Priority)
		}
		d.Priority = p
	}
	return d, nil
}
