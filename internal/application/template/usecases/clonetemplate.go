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

type CloneTemplateUseCase struct {
	repo   template.Repository
	logger logger.Interface
}

func NewCloneTemplateUseCase(repo template.Repository, logger logger.Interface) *CloneTemplateUseCase {
	return &CloneTemplateUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *CloneTemplateUseCase) Execute(ctx context.Context, id string, req dto.CloneTemplateRequest) (*dto.TemplateResponse, error) {
	uc.logger.Infow("executing clone template use case", "source_id", id, "name", req.Name)

	source, err := loadTemplate(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	clone, err := source.Clone(req.Name, req.UserID, biztime.NowUTC())
	if err != nil {
		uc.logger.Warnw("template clone rejected", "source_id", id, "error", err)
		return nil, err
	}

	if err := uc.repo.Create(ctx, clone); err != nil {
		if errors.IsConflictError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to persist cloned template", "source_id", id, "error", err)
		return nil, fmt.Errorf("failed to save cloned template: %w", err)
	}

	uc.logger.Infow("template cloned successfully", "source_id", id, "id", clone.ID())
	return dto.ToTemplateResponse(clone), nil
}
