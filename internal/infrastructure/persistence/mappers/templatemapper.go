package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/models"
	"github.com/rewardsboard/eventcast/internal/shared/mapper"
)

type TemplateMapper interface {
	ToEntity(model *models.TemplateModel) (*template.Template, error)
	ToModel(entity *template.Template) (*models.TemplateModel, error)
	ToEntities(models []*models.TemplateModel) ([]*template.Template, error)
}

type templateMapper struct{}

func NewTemplateMapper() TemplateMapper {
	return &templateMapper{}
}

func (m *templateMapper) ToEntity(model *models.TemplateModel) (*template.Template, error) {
	if model == nil {
		return nil, nil
	}

	category, err := vo.NewCategory(model.Category)
	if err != nil {
		return nil, err
	}
	announcementType, err := annvo.NewAnnouncementType(model.AnnouncementType)
	if err != nil {
		return nil, err
	}
	priority, err := annvo.NewPriority(model.Priority)
	if err != nil {
		return nil, err
	}

	variables := template.Variables{}
	if len(model.Variables) > 0 {
		if err := json.Unmarshal(model.Variables, &variables); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variables: %w", err)
		}
	}

	var settings template.Settings
	if len(model.DefaultSettings) > 0 {
		if err := json.Unmarshal(model.DefaultSettings, &settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal default settings: %w", err)
		}
	}

	entity, err := template.ReconstructTemplate(template.ReconstructParams{
		ID: model.ID,
		Definition: template.Definition{
			Name:             model.Name,
			Description:      model.Description,
			Category:         category,
			AnnouncementType: announcementType,
			Priority:         priority,
			TitleTemplate:    model.TitleTemplate,
			ContentTemplate:  model.ContentTemplate,
			SummaryTemplate:  model.SummaryTemplate,
			Variables:        variables,
			DefaultSettings:  settings,
			CreatedBy:        model.CreatedBy,
		},
		IsActive:   model.IsActive,
		IsSystem:   model.IsSystem,
		UsageCount: model.UsageCount,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct template entity: %w", err)
	}

	return entity, nil
}

func (m *templateMapper) ToModel(entity *template.Template) (*models.TemplateModel, error) {
	if entity == nil {
		return nil, nil
	}

	variablesJSON, err := json.Marshal(entity.Variables())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal variables: %w", err)
	}

	settingsJSON, err := json.Marshal(entity.DefaultSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default settings: %w", err)
	}

	return &models.TemplateModel{
		ID:               entity.ID(),
		Name:             entity.Name(),
		Description:      entity.Description(),
		Category:         entity.Category().String(),
		AnnouncementType: entity.AnnouncementType().String(),
		Priority:         entity.Priority().String(),
		TitleTemplate:    entity.TitleTemplate(),
		ContentTemplate:  entity.ContentTemplate(),
		SummaryTemplate:  entity.SummaryTemplate(),
		Variables:        datatypes.JSON(variablesJSON),
		DefaultSettings:  datatypes.JSON(settingsJSON),
		IsActive:         entity.IsActive(),
		IsSystem:         entity.IsSystem(),
		UsageCount:       entity.UsageCount(),
		CreatedBy:        entity.CreatedBy(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}, nil
}

func (m *templateMapper) ToEntities(modelList []*models.TemplateModel) ([]*template.Template, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.TemplateModel) string { return model.ID })
}
