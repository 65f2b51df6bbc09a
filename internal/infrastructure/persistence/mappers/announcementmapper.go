package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	vo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/models"
	"github.com/rewardsboard/eventcast/internal/shared/mapper"
)

type AnnouncementMapper interface {
	ToEntity(model *models.AnnouncementModel) (*announcement.Announcement, error)
	ToModel(entity *announcement.Announcement) (*models.AnnouncementModel, error)
	ToEntities(models []*models.AnnouncementModel) ([]*announcement.Announcement, error)
}

type AnnouncementMapperImpl struct{}

func NewAnnouncementMapper() AnnouncementMapper {
	return &AnnouncementMapperImpl{}
}

func (m *AnnouncementMapperImpl) ToEntity(model *models.AnnouncementModel) (*announcement.Announcement, error) {
	if model == nil {
		return nil, nil
	}

	announcementType, err := vo.NewAnnouncementType(model.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement type: %w", err)
	}

	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("failed to create priority: %w", err)
	}

	tags, err := unmarshalStrings(model.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	audience, err := unmarshalStrings(model.TargetAudience)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal target audience: %w", err)
	}

	entity, err := announcement.ReconstructAnnouncement(announcement.ReconstructParams{
		ID:             model.ID,
		Title:          model.Title,
		Content:        model.Content,
		Summary:        model.Summary,
		Type:           announcementType,
		Category:       model.Category,
		Priority:       priority,
		Tags:           tags,
		TargetAudience: audience,
		IsPublished:    model.IsPublished,
		IsActive:       model.IsActive,
		IsFeatured:     model.IsFeatured,
		ScheduledFor:   model.ScheduledFor,
		PublishedAt:    model.PublishedAt,
		ExpiresAt:      model.ExpiresAt,
		CreatedBy:      model.CreatedBy,
		Counters: announcement.Counters{
			Views:        model.ViewCount,
			Likes:        model.LikeCount,
			Shares:       model.ShareCount,
			Clicks:       model.ClickCount,
			Acknowledges: model.AcknowledgeCount,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		Version:   model.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct announcement entity: %w", err)
	}

	return entity, nil
}

// ToModel leaves the counters zero: they are never written from the entity.
func (m *AnnouncementMapperImpl) ToModel(entity *announcement.Announcement) (*models.AnnouncementModel, error) {
	if entity == nil {
		return nil, nil
	}

	tagsJSON, err := marshalStrings(entity.Tags())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	audienceJSON, err := marshalStrings(entity.TargetAudience())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal target audience: %w", err)
	}

	return &models.AnnouncementModel{
		ID:             entity.ID(),
		Title:          entity.Title(),
		Content:        entity.Content(),
		Summary:        entity.Summary(),
		Type:           entity.Type().String(),
		Category:       entity.Category(),
		Priority:       entity.Priority().String(),
		Tags:           tagsJSON,
		TargetAudience: audienceJSON,
		IsPublished:    entity.IsPublished(),
		IsActive:       entity.IsActive(),
		IsFeatured:     entity.IsFeatured(),
		ScheduledFor:   entity.ScheduledFor(),
		PublishedAt:    entity.PublishedAt(),
		ExpiresAt:      entity.ExpiresAt(),
		CreatedBy:      entity.CreatedBy(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
		Version:        entity.Version(),
	}, nil
}

func (m *AnnouncementMapperImpl) ToEntities(modelList []*models.AnnouncementModel) ([]*announcement.Announcement, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.AnnouncementModel) uint { return model.ID })
}

func marshalStrings(values []string) (datatypes.JSON, error) {
	if len(values) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func unmarshalStrings(data datatypes.JSON) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
