package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/mappers"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/models"
	"github.com/rewardsboard/eventcast/internal/shared/db"
	apperrors "github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type TemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TemplateMapper
	logger logger.Interface
}

func NewTemplateRepository(database *gorm.DB, log logger.Interface) template.Repository {
	return &TemplateRepositoryImpl{
		db:     database,
		mapper: mappers.NewTemplateMapper(),
		logger: log,
	}
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, t *template.Template) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map template entity to model: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("template already exists", t.ID())
		}
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

func (r *TemplateRepositoryImpl) GetByID(ctx context.Context, id string) (*template.Template, error) {
	var model models.TemplateModel

	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template by ID: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map template model to entity: %w", err)
	}

	return entity, nil
}

// Update never touches usage_count, which only moves through IncrementUsage.
func (r *TemplateRepositoryImpl) Update(ctx context.Context, t *template.Template) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map template entity to model: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.TemplateModel{}).
		Where("id = ?", model.ID).
		Select(
			"name", "description", "category", "announcement_type", "priority",
			"title_template", "content_template", "summary_template",
			"variables", "default_settings", "is_active", "updated_at",
		).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update template: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("template not found", t.ID())
	}

	return nil
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).Delete(&models.TemplateModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete template: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("template not found", id)
	}

	return nil
}

func (r *TemplateRepositoryImpl) List(ctx context.Context, filter template.Filter) ([]*template.Template, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.TemplateModel{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category.String())
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var modelList []*models.TemplateModel
	if err := query.Order("is_system DESC").Order("usage_count DESC").Order("name ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map template models to entities: %w", err)
	}

	return entities, nil
}

func (r *TemplateRepositoryImpl) ExistsSystemTemplate(ctx context.Context, name string) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.TemplateModel{}).
		Where("name = ? AND is_system = ?", name, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check system template: %w", err)
	}
	return count > 0, nil
}

func (r *TemplateRepositoryImpl) IncrementUsage(ctx context.Context, id string) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.TemplateModel{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))

	if result.Error != nil {
		return fmt.Errorf("failed to increment template usage: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("template not found", id)
	}

	return nil
}
