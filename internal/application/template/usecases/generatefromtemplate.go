package usecases

import (
	"context"
	"fmt"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// GenerateFromTemplateUseCase renders a template into an announcement
// creation payload and records one use of the template.
type GenerateFromTemplateUseCase struct {
	repo            template.Repository
	markdownService dto.MarkdownService
	logger          logger.Interface
}

func NewGenerateFromTemplateUseCase(
	repo template.Repository,
	markdownService dto.MarkdownService,
	logger logger.Interface,
) *GenerateFromTemplateUseCase {
	return &GenerateFromTemplateUseCase{
		repo:            repo,
		markdownService: markdownService,
		logger:          logger,
	}
}

func (uc *GenerateFromTemplateUseCase) Execute(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	uc.logger.Infow("executing generate from template use case", "template_id", req.TemplateID, "user_id", req.UserID)

	tpl, err := loadTemplate(ctx, uc.repo, req.TemplateID)
	if err != nil {
		return nil, err
	}

	draft, rendered, err := tpl.Generate(req.Variables, dto.ToSettings(req.Overrides), req.UserID)
	if err != nil {
		uc.logger.Warnw("template generation rejected", "template_id", req.TemplateID, "error", err)
		return nil, err
	}

	if err := uc.repo.IncrementUsage(ctx, tpl.ID()); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to increment template usage", "template_id", tpl.ID(), "error", err)
		return nil, fmt.Errorf("failed to record template usage: %w", err)
	}

	if len(rendered.Unresolved) > 0 {
		uc.logger.Warnw("generated content has unresolved placeholders",
			"template_id", tpl.ID(),
			"unresolved", rendered.Unresolved,
		)
	}

	uc.logger.Infow("announcement generated from template", "template_id", tpl.ID(), "title", draft.Title)
	return &dto.GenerateResponse{
		TemplateID:   tpl.ID(),
		Announcement: dto.ToDraftResponse(draft, renderHTML(uc.markdownService, uc.logger, draft.Content)),
		Unresolved:   nonNilStrings(rendered.Unresolved),
	}, nil
}

// renderHTML converts markdown to HTML. A rendering failure leaves the HTML
// empty; the markdown itself is still returned.
func renderHTML(md dto.MarkdownService, log logger.Interface, content string) string {
	if md == nil {
		return ""
	}
	html, err := md.ToHTML(content)
	if err != nil {
		log.Warnw("failed to convert markdown to HTML", "error", err)
		return ""
	}
	return html
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
