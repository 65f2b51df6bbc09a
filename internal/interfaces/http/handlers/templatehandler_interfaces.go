package handlers

import (
	"context"

	templatedto "github.com/rewardsboard/eventcast/internal/application/template/dto"
)

// templateService is the subset of template.ServiceDDD used by TemplateHandler.
type templateService interface {
	CreateTemplate(ctx context.Context, req templatedto.CreateTemplateRequest) (*templatedto.TemplateResponse, error)
	UpdateTemplate(ctx context.Context, id string, req templatedto.UpdateTemplateRequest) (*templatedto.TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id string) error
	GetTemplate(ctx context.Context, id string) (*templatedto.TemplateResponse, error)
	ListTemplates(ctx context.Context, req templatedto.ListTemplatesRequest) ([]*templatedto.TemplateResponse, error)
	GenerateFromTemplate(ctx context.Context, req templatedto.GenerateRequest) (*templatedto.GenerateResponse, error)
	PreviewTemplate(ctx context.Context, req templatedto.PreviewRequest) (*templatedto.PreviewResponse, error)
	CloneTemplate(ctx context.Context, id string, req templatedto.CloneTemplateRequest) (*templatedto.TemplateResponse, error)
	InitializeSystemTemplates(ctx context.Context) (*templatedto.InitializeSystemTemplatesResponse, error)
}
