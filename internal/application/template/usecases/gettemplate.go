package usecases

import (
	"context"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type GetTemplateUseCase struct {
	repo   template.Repository
	logger logger.Interface
}

func NewGetTemplateUseCase(repo template.Repository, logger logger.Interface) *GetTemplateUseCase {
	return &GetTemplateUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetTemplateUseCase) Execute(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	tpl, err := loadTemplate(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	return dto.ToTemplateResponse(tpl), nil
}
