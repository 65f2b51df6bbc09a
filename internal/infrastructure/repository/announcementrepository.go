package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	vo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/mappers"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/models"
	"github.com/rewardsboard/eventcast/internal/shared/db"
	apperrors "github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type AnnouncementRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AnnouncementMapper
	logger logger.Interface
}

func NewAnnouncementRepository(database *gorm.DB, log logger.Interface) announcement.Repository {
	return &AnnouncementRepositoryImpl{
		db:     database,
		mapper: mappers.NewAnnouncementMapper(),
		logger: log,
	}
}

func (r *AnnouncementRepositoryImpl) Create(ctx context.Context, a *announcement.Announcement) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return fmt.Errorf("failed to map announcement entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set announcement ID: %w", err)
	}

	return nil
}

func (r *AnnouncementRepositoryImpl) GetByID(ctx context.Context, id uint) (*announcement.Announcement, error) {
	var model models.AnnouncementModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get announcement by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map announcement model to entity: %w", err)
	}

	return entity, nil
}

func (r *AnnouncementRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*announcement.Announcement, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var modelList []*models.AnnouncementModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to get announcements by IDs: %w", err)
	}

	return r.toEntities(modelList)
}

// Update writes the editable columns with optimistic locking on version.
// Engagement counters are excluded so a concurrent increment is never
// overwritten by a stale entity.
func (r *AnnouncementRepositoryImpl) Update(ctx context.Context, a *announcement.Announcement) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		return fmt.Errorf("failed to map announcement entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)

	// the entity has already incremented the version
	previousVersion := model.Version - 1
	result := tx.Model(&models.AnnouncementModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select(
			"title", "content", "summary", "type", "category", "priority",
			"tags", "target_audience", "is_published", "is_active", "is_featured",
			"scheduled_for", "published_at", "expires_at", "updated_at", "version",
		).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update announcement: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.AnnouncementModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check announcement existence: %w", err)
		}
		if count == 0 {
			return apperrors.NewNotFoundError("announcement not found")
		}
		r.logger.Warnw("stale announcement update rejected", "id", model.ID, "version", previousVersion)
		return apperrors.NewConflictError("announcement has been modified concurrently, reload and retry")
	}

	return nil
}

func (r *AnnouncementRepositoryImpl) ListPublished(ctx context.Context, limit, offset int) ([]*announcement.Announcement, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AnnouncementModel{}).
		Where("is_published = ? AND is_active = ?", true, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count published announcements: %w", err)
	}

	query = query.Order("published_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var modelList []*models.AnnouncementModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list published announcements: %w", err)
	}

	entities, err := r.toEntities(modelList)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *AnnouncementRepositoryImpl) ListPublishedBetween(ctx context.Context, start, end *time.Time, limit int) ([]*announcement.Announcement, error) {
	query := db.GetTxFromContext(ctx, r.db).Where("is_published = ?", true)
	if start != nil {
		query = query.Where("published_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("published_at <= ?", *end)
	}
	query = query.Order("published_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var modelList []*models.AnnouncementModel
	if err := query.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements published in range: %w", err)
	}

	return r.toEntities(modelList)
}

func (r *AnnouncementRepositoryImpl) FindDueForPublication(ctx context.Context, now time.Time) ([]*announcement.Announcement, error) {
	var modelList []*models.AnnouncementModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("is_published = ? AND is_active = ?", false, true).
		Where("scheduled_for IS NOT NULL AND scheduled_for <= ?", now).
		Order("scheduled_for ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find announcements due for publication: %w", err)
	}

	return r.toEntities(modelList)
}

// BulkPublish re-applies the selection predicate inside the UPDATE so rows
// already published by a concurrent tick or edit are left alone. The rows
// this call transitioned are identified afterwards by the publish stamp.
func (r *AnnouncementRepositoryImpl) BulkPublish(ctx context.Context, ids []uint, now time.Time) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// DATETIME(3) keeps milliseconds; the stamp must compare equal after storage
	stamp := now.UTC().Truncate(time.Millisecond)

	var published []uint
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.AnnouncementModel{}).
			Where("id IN ? AND is_published = ? AND is_active = ?", ids, false, true).
			Updates(map[string]any{
				"is_published":  true,
				"published_at":  stamp,
				"scheduled_for": nil,
				"updated_at":    stamp,
				"version":       gorm.Expr("version + ?", 1),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to bulk publish announcements: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&models.AnnouncementModel{}).
			Where("id IN ? AND is_published = ? AND published_at = ?", ids, true, stamp).
			Order("id ASC").
			Pluck("id", &published).Error; err != nil {
			return fmt.Errorf("failed to read published announcement ids: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debugw("bulk publish applied", "requested", len(ids), "published", len(published))
	return published, nil
}

func (r *AnnouncementRepositoryImpl) IncrementCounter(ctx context.Context, id uint, counter vo.Counter) error {
	if !counter.IsValid() {
		return fmt.Errorf("invalid counter: %s", counter)
	}

	column := counter.Column()
	result := db.GetTxFromContext(ctx, r.db).Model(&models.AnnouncementModel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))

	if result.Error != nil {
		return fmt.Errorf("failed to increment %s: %w", column, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("announcement not found")
	}

	return nil
}

func (r *AnnouncementRepositoryImpl) toEntities(modelList []*models.AnnouncementModel) ([]*announcement.Announcement, error) {
	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map announcement models to entities: %w", err)
	}
	return entities, nil
}
