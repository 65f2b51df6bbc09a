// Package template exposes the template engine: CRUD over announcement
// templates plus rendering, generation and system template seeding.
package template

import (
	"context"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/application/template/usecases"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

type ServiceDDD struct {
	logger logger.Interface

	createTemplate  *usecases.CreateTemplateUseCase
	updateTemplate  *usecases.UpdateTemplateUseCase
	deleteTemplate  *usecases.DeleteTemplateUseCase
	getTemplate     *usecases.GetTemplateUseCase
	listTemplates   *usecases.ListTemplatesUseCase
	generate        *usecases.GenerateFromTemplateUseCase
	preview         *usecases.PreviewTemplateUseCase
	cloneTemplate   *usecases.CloneTemplateUseCase
	initializeSeeds *usecases.InitializeSystemTemplatesUseCase
}

func NewServiceDDD(
	repo template.Repository,
	source usecases.DefinitionSource,
	tx usecases.TransactionRunner,
	markdownService dto.MarkdownService,
	logger logger.Interface,
) *ServiceDDD {
	return &ServiceDDD{
		logger: logger,

		createTemplate:  usecases.NewCreateTemplateUseCase(repo, logger),
		updateTemplate:  usecases.NewUpdateTemplateUseCase(repo, logger),
		deleteTemplate:  usecases.NewDeleteTemplateUseCase(repo, logger),
		getTemplate:     usecases.NewGetTemplateUseCase(repo, logger),
		listTemplates:   usecases.NewListTemplatesUseCase(repo, logger),
		generate:        usecases.NewGenerateFromTemplateUseCase(repo, markdownService, logger),
		preview:         usecases.NewPreviewTemplateUseCase(repo, markdownService, logger),
		cloneTemplate:   usecases.NewCloneTemplateUseCase(repo, logger),
		initializeSeeds: usecases.NewInitializeSystemTemplatesUseCase(repo, source, tx, logger),
	}
}

func (s *ServiceDDD) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	return s.createTemplate.Execute(ctx, req)
}

func (s *ServiceDDD) UpdateTemplate(ctx context.Context, id string, req dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	return s.updateTemplate.Execute(ctx, id, req)
}

func (s *ServiceDDD) DeleteTemplate(ctx context.Context, id string) error {
	return s.deleteTemplate.Execute(ctx, id)
}

func (s *ServiceDDD) GetTemplate(ctx context.Context, id string) (*dto.TemplateResponse, error) {
	return s.getTemplate.Execute(ctx, id)
}

func (s *ServiceDDD) ListTemplates(ctx context.Context, req dto.ListTemplatesRequest) ([]*dto.TemplateResponse, error) {
	return s.listTemplates.Execute(ctx, req)
}

func (s *ServiceDDD) GenerateFromTemplate(ctx context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	return s.generate.Execute(ctx, req)
}

func (s *ServiceDDD) PreviewTemplate(ctx context.Context, req dto.PreviewRequest) (*dto.PreviewResponse, error) {
	return s.preview.Execute(ctx, req)
}

func (s *ServiceDDD) CloneTemplate(ctx context.Context, id string, req dto.CloneTemplateRequest) (*dto.TemplateResponse, error) {
	return s.cloneTemplate.Execute(ctx, id, req)
}

func (s *ServiceDDD) InitializeSystemTemplates(ctx context.Context) (*dto.InitializeSystemTemplatesResponse, error) {
	return s.initializeSeeds.Execute(ctx)
}
