package handlers

import (
	"context"

	announcementdto "github.com/rewardsboard/eventcast/internal/application/announcement/dto"
)

// announcementService is the subset of announcement.ServiceDDD used by AnnouncementHandler.
type announcementService interface {
	CreateAnnouncement(ctx context.Context, req announcementdto.CreateAnnouncementRequest) (*announcementdto.AnnouncementResponse, error)
	UpdateAnnouncement(ctx context.Context, id uint, req announcementdto.UpdateAnnouncementRequest) (*announcementdto.AnnouncementResponse, error)
	GetAnnouncement(ctx context.Context, id uint) (*announcementdto.AnnouncementResponse, error)
	ListPublished(ctx context.Context, req announcementdto.ListPublishedRequest) (*announcementdto.ListPublishedResponse, error)
	RecordEngagement(ctx context.Context, id uint, userID, action string) (*announcementdto.EngagementResponse, error)
}
