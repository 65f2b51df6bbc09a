package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/announcement/dto"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/shared/constants"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type ListPublishedUseCase struct {
	repo   announcement.Repository
	cache  ContentCache
	logger logger.Interface
}

func NewListPublishedUseCase(repo announcement.Repository, cache ContentCache, logger logger.Interface) *ListPublishedUseCase {
	return &ListPublishedUseCase{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (uc *ListPublishedUseCase) Execute(ctx context.Context, req dto.ListPublishedRequest) (*dto.ListPublishedResponse, error) {
	limit, offset := req.Limit, req.Offset
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	fetch := func(ctx context.Context) (any, error) {
		items, total, err := uc.repo.ListPublished(ctx, limit, offset)
		if err != nil {
			uc.logger.Errorw("failed to list published announcements", "limit", limit, "offset", offset, "error", err)
			return nil, fmt.Errorf("failed to list published announcements: %w", err)
		}
		return &dto.ListPublishedResponse{
			Items:  dto.ToAnnouncementResponses(items),
			Total:  total,
			Limit:  limit,
			Offset: offset,
		}, nil
	}

	var (
		v   any
		err error
	)
	if uc.cache != nil {
		v, err = uc.cache.GetOrSet(ctx, publishedKey(limit, offset), fetch, 0)
	} else {
		v, err = fetch(ctx)
	}
	if err != nil {
		return nil, err
	}
	if resp, ok := v.(*dto.ListPublishedResponse); ok {
		return resp, nil
	}

	uc.logger.Warnw("unexpected cached value, reading through", "limit", limit, "offset", offset)
	v, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	return v.(*dto.ListPublishedResponse), nil
}
