package usecases

import (
	"context"

	"github.com/rewardsboard/eventcast/internal/application/announcement/dto"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type GetAnnouncementUseCase struct {
	repo   announcement.Repository
	cache  ContentCache
	logger logger.Interface
}

func NewGetAnnouncementUseCase(repo announcement.Repository, cache ContentCache, logger logger.Interface) *GetAnnouncementUseCase {
	return &GetAnnouncementUseCase{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (uc *GetAnnouncementUseCase) Execute(ctx context.Context, id uint) (*dto.AnnouncementResponse, error) {
	fetch := func(ctx context.Context) (any, error) {
		a, err := loadAnnouncement(ctx, uc.repo, id)
		if err != nil {
			return nil, err
		}
		return dto.ToAnnouncementResponse(a), nil
	}

	if uc.cache == nil {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v.(*dto.AnnouncementResponse), nil
	}

	v, err := uc.cache.GetOrSet(ctx, announcementKey(id), fetch, 0)
	if err != nil {
		return nil, err
	}
	resp, ok := v.(*dto.AnnouncementResponse)
	if !ok {
		uc.logger.Warnw("unexpected cached value, reading through", "id", id)
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return v.(*dto.AnnouncementResponse), nil
	}
	return resp, nil
}
