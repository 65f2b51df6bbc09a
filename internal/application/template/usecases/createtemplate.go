package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/biztime"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type CreateTemplateUseCase struct {
	repo   template.Repository
	logger logger.Interface
}

func NewCreateTemplateUseCase(repo template.Repository, logger logger.Interface) *CreateTemplateUseCase {
	return &CreateTemplateUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *CreateTemplateUseCase) Execute(ctx context.Context, req dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	uc.logger.Infow("executing create template use case", "name", req.Name, "category", req.Category)

	def, err := toDefinition(req)
	if err != nil {
		return nil, err
	}

	tpl, err := template.NewTemplate(def, biztime.NowUTC())
	if err != nil {
		uc.logger.Warnw("template definition rejected", "name", req.Name, "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewValidationError(fmt.Sprintf("failed to create template: %v", err))
	}

	if err := uc.repo.Create(ctx, tpl); err != nil {
		if errors.IsConflictError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to persist template", "name", req.Name, "error", err)
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	uc.logger.Infow("template created successfully", "id", tpl.ID(), "name", tpl.Name())
	return dto.ToTemplateResponse(tpl), nil
}
