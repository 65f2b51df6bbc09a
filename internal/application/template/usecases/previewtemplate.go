package usecases

import (
	"context"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// PreviewTemplateUseCase renders a template without recording usage.
type PreviewTemplateUseCase struct {
	repo            template.Repository
	markdownService dto.MarkdownService
	logger          logger.Interface
}

func NewPreviewTemplateUseCase(
	repo template.Repository,
	markdownService dto.MarkdownService,
	logger logger.Interface,
) *PreviewTemplateUseCase {
	return &PreviewTemplateUseCase{
		repo:            repo,
		markdownService: markdownService,
		logger:          logger,
	}
}

func (uc *PreviewTemplateUseCase) Execute(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	tpl, err := loadTemplate(ctx, uc.repo, req.TemplateID)
	if err != nil {
		return nil, err
	}

	rendered, err := tpl.Render(req.Variables)
	if err != nil {
		uc.logger.Debugw("template preview rejected", "template_id", req.TemplateID, "error", err)
		return nil, err
	}

	return &dto.PreviewResponse{
		Title:       rendered.Title,
		Content:     rendered.Content,
		ContentHTML: renderHTML(uc.markdownService, uc.logger, rendered.Content),
		Summary:     rendered.Summary,
		Unresolved:  nonNilStrings(rendered.Unresolved),
	}, nil
}
