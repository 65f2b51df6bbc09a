package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type ListTemplatesUseCase struct {
	repo   template.Repository
	logger logger.Interface
}

func NewListTemplatesUseCase(repo template.Repository, logger logger.Interface) *ListTemplatesUseCase {
	return &ListTemplatesUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *ListTemplatesUseCase) Execute(ctx context.Context, req dto.ListTemplatesRequest) ([]*dto.TemplateResponse, error) {
	filter := template.Filter{ActiveOnly: req.ActiveOnly}
	if req.Category != "" {
		category, err := parseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = category
	}

	templates, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list templates", "category", req.Category, "error", err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return dto.ToTemplateResponses(templates), nil
}
