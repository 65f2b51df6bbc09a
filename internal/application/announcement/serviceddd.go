// Package announcement wires the announcement flows around the content
// engine: create and update with publish notifications, cache-aside reads,
// engagement recording and the scheduled publication tick.
package announcement

import (
	"context"

	"github.com/rewardsboard/eventcast/internal/application/announcement/dto"
	"github.com/rewardsboard/eventcast/internal/application/announcement/usecases"
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type ServiceDDD struct {
	logger logger.Interface

	createAnnouncement *usecases.CreateAnnouncementUseCase
	updateAnnouncement *usecases.UpdateAnnouncementUseCase
	getAnnouncement    *usecases.GetAnnouncementUseCase
	listPublished      *usecases.ListPublishedUseCase
	recordEngagement   *usecases.RecordEngagementUseCase
	publishScheduled   *usecases.PublishScheduledUseCase
}

func NewServiceDDD(
	repo announcement.Repository,
	cache usecases.ContentCache,
	notifier usecases.Notifier,
	tracker usecases.EngagementTracker,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		logger: logger,

		createAnnouncement: usecases.NewCreateAnnouncementUseCase(repo, cache, notifier, logger),
		updateAnnouncement: usecases.NewUpdateAnnouncementUseCase(repo, cache, notifier, logger),
		getAnnouncement:    usecases.NewGetAnnouncementUseCase(repo, cache, logger),
		listPublished:      usecases.NewListPublishedUseCase(repo, cache, logger),
		recordEngagement:   usecases.NewRecordEngagementUseCase(repo, cache, tracker, logger),
		publishScheduled:   usecases.NewPublishScheduledUseCase(repo, cache, notifier, logger),
	}
}

func (s *ServiceDDD) CreateAnnouncement(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	return s.createAnnouncement.Execute(ctx, req)
}

func (s *ServiceDDD) UpdateAnnouncement(ctx context.Context, id uint, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	return s.updateAnnouncement.Execute(ctx, id, req)
}

func (s *ServiceDDD) GetAnnouncement(ctx context.Context, id uint) (*dto.AnnouncementResponse, error) {
	return s.getAnnouncement.Execute(ctx, id)
}

func (s *ServiceDDD) ListPublished(ctx context.Context, req dto.ListPublishedRequest) (*dto.ListPublishedResponse, error) {
	return s.listPublished.Execute(ctx, req)
}

func (s *ServiceDDD) RecordEngagement(ctx context.Context, id uint, userID, action string) (*dto.EngagementResponse, error) {
	return s.recordEngagement.Execute(ctx, id, userID, action)
}

// PublicationJob is registered with the scheduler.
func (s *ServiceDDD) PublicationJob() *usecases.PublishScheduledUseCase {
	return s.publishScheduled
}
