package usecases

import (
	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

func parseCategory(s string) (vo.Category, error) {
	c, err := vo.NewCategory(s)
	if err != nil {
		return "", errors.NewValidationError("invalid template category", s)
	}
	return c, nil
}

// parseAnnouncementType treats an empty string as "use the default".
func parseAnnouncementType(s string) (annvo.AnnouncementType, error) {
	if s == "" {
		return "", nil
	}
	t, err := annvo.NewAnnouncementType(s)
	if err != nil {
		return "", errors.NewValidationError("invalid announcement type", s)
	}
	return t, nil
}

func parsePriority(s string) (annvo.Priority, error) {
	if s == "" {
		return "", nil
	}
	p, err := annvo.NewPriority(s)
	if err != nil {
		return "", errors.NewValidationError("invalid priority", s)
	}
	return p, nil
}

func toDefinition(req dto.CreateTemplateRequest) (template.Definition, error) {
	category, err := parseCategory(req.Category)
	if err != nil {
		return template.Definition{}, err
	}
	annType, err := parseAnnouncementType(req.AnnouncementType)
	if err != nil {
		return template.Definition{}, err
	}
	priority, err := parsePriority(req.Priority)
	if err != nil {
		return template.Definition{}, err
	}

	return template.Definition{
		Name:             req.Name,
		Description:      req.Description,
		Category:         category,
		AnnouncementType: annType,
		Priority:         priority,
		TitleTemplate:    req.TitleTemplate,
		ContentTemplate:  req.ContentTemplate,
		SummaryTemplate:  req.SummaryTemplate,
		Variables:        dto.ToVariables(req.Variables),
		DefaultSettings:  dto.ToSettings(req.DefaultSettings),
		CreatedBy:        req.CreatedBy,
	}, nil
}

func toPatch(req dto.UpdateTemplateRequest) (template.Patch, error) {
	patch := template.Patch{
		Name:            req.Name,
		Description:     req.Description,
		TitleTemplate:   req.TitleTemplate,
		ContentTemplate: req.ContentTemplate,
		SummaryTemplate: req.SummaryTemplate,
		Variables:       dto.ToVariables(req.Variables),
		IsActive:        req.IsActive,
	}
	if req.Category != nil {
		c, err := parseCategory(*req.Category)
		if err != nil {
			return template.Patch{}, err
		}
		patch.Category = &c
	}
	if req.AnnouncementType != nil {
		t, err := annvo.NewAnnouncementType(*req.AnnouncementType)
		if err != nil {
			return template.Patch{}, errors.NewValidationError("invalid announcement type", *req.AnnouncementType)
		}
		patch.AnnouncementType = &t
	}
	if req.Priority != nil {
		p, err := annvo.NewPriority(*req.Priority)
		if err != nil {
			return template.Patch{}, errors.NewValidationError("invalid priority", *req.Priority)
		}
		patch.Priority = &p
	}
	if req.DefaultSettings != nil {
		s := dto.ToSettings(req.DefaultSettings)
		patch.DefaultSettings = &s
	}
	return patch, nil
}
