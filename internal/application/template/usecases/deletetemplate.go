package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type DeleteTemplateUseCase struct {
	repo   template.Repository
	logger logger.Interface
}

func NewDeleteTemplateUseCase(repo template.Repository, logger logger.Interface) *DeleteTemplateUseCase {
	return &DeleteTemplateUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *DeleteTemplateUseCase) Execute(ctx context.Context, id string) error {
	uc.logger.Infow("executing delete template use case", "id", id)

	tpl, err := loadTemplate(ctx, uc.repo, id)
	if err != nil {
		return err
	}
	if err := tpl.EnsureMutable(); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.IsNotFoundError(err) {
			return err
		}
		uc.logger.Errorw("failed to delete template", "id", id, "error", err)
		return fmt.Errorf("failed to delete template: %w", err)
	}

	uc.logger.Infow("template deleted successfully", "id", id)
	return nil
}
