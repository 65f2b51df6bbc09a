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

type UpdateTemplateUseCase struct {
	repo   template.Repository
	logger logger.Interface
}

func NewUpdateTemplateUseCase(repo template.Repository, logger logger.Interface) *UpdateTemplateUseCase {
	return &UpdateTemplateUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *UpdateTemplateUseCase) Execute(ctx context.Context, id string, req dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	uc.logger.Infow("executing update template use case", "id", id)

	tpl, err := loadTemplate(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	patch, err := toPatch(req)
	if err != nil {
		return nil, err
	}

	if err := tpl.Update(patch, biztime.NowUTC()); err != nil {
		uc.logger.Warnw("template update rejected", "id", id, "error", err)
		return nil, err
	}

	if err := uc.repo.Update(ctx, tpl); err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to update template", "id", id, "error", err)
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	uc.logger.Infow("template updated successfully", "id", id)
	return dto.ToTemplateResponse(tpl), nil
}

// loadTemplate maps a missing template to a not-found error.
func loadTemplate(ctx context.Context, repo template.Repository, id string) (*template.Template, error) {
	tpl, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tpl == nil {
		return nil, errors.NewNotFoundError("template not found", id)
	}
	return tpl, nil
}
