package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	templatedto "github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/interfaces/http/handlers/testutil"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
)

// =====================================================================
// Mock template service
// =====================================================================

type mockTemplateService struct {
	createFn     func(ctx context.Context, req templatedto.CreateTemplateRequest) (*templatedto.TemplateResponse, error)
	updateFn     func(ctx context.Context, id string, req templatedto.UpdateTemplateRequest) (*templatedto.TemplateResponse, error)
	deleteFn     func(ctx context.Context, id string) error
	getFn        func(ctx context.Context, id string) (*templatedto.TemplateResponse, error)
	listFn       func(ctx context.Context, req templatedto.ListTemplatesRequest) ([]*templatedto.TemplateResponse, error)
	generateFn   func(ctx context.Context, req templatedto.GenerateRequest) (*templatedto.GenerateResponse, error)
	previewFn    func(ctx context.Context, req templatedto.PreviewRequest) (*templatedto.PreviewResponse, error)
	cloneFn      func(ctx context.Context, id string, req templatedto.CloneTemplateRequest) (*templatedto.TemplateResponse, error)
	initializeFn func(ctx context.Context) (*templatedto.InitializeSystemTemplatesResponse, error)
}

func (m *mockTemplateService) CreateTemplate(ctx context.Context, req templatedto.CreateTemplateRequest) (*templatedto.TemplateResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, nil
}

func (m *mockTemplateService) UpdateTemplate(ctx context.Context, id string, req templatedto.UpdateTemplateRequest) (*templatedto.TemplateResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return nil, nil
}

func (m *mockTemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockTemplateService) GetTemplate(ctx context.Context, id string) (*templatedto.TemplateResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTemplateService) ListTemplates(ctx context.Context, req templatedto.ListTemplatesRequest) ([]*templatedto.TemplateResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, req)
	}
	return nil, nil
}

func (m *mockTemplateService) GenerateFromTemplate(ctx context.Context, req templatedto.GenerateRequest) (*templatedto.GenerateResponse, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return nil, nil
}

func (m *mockTemplateService) PreviewTemplate(ctx context.Context, req templatedto.PreviewRequest) (*templatedto.PreviewResponse, error) {
	if m.previewFn != nil {
		return m.previewFn(ctx, req)
	}
	return nil, nil
}

func (m *mockTemplateService) CloneTemplate(ctx context.Context, id string, req templatedto.CloneTemplateRequest) (*templatedto.TemplateResponse, error) {
	if m.cloneFn != nil {
		return m.cloneFn(ctx, id, req)
	}
	return nil, nil
}

func (m *mockTemplateService) InitializeSystemTemplates(ctx context.Context) (*templatedto.InitializeSystemTemplatesResponse, error) {
	if m.initializeFn != nil {
		return m.initializeFn(ctx)
	}
	return nil, nil
}

func newTestTemplateHandler(svc templateService) *TemplateHandler {
	return NewTemplateHandler(svc, testutil.NewMockLogger())
}

func TestTemplateHandler_CreateTemplate_SetsCreator(t *testing.T) {
	var captured templatedto.CreateTemplateRequest
	mockSvc := &mockTemplateService{
		createFn: func(ctx context.Context, req templatedto.CreateTemplateRequest) (*templatedto.TemplateResponse, error) {
			captured = req
			return &templatedto.TemplateResponse{ID: "tpl_abc", Name: req.Name, CreatedBy: req.CreatedBy}, nil
		},
	}
	handler := newTestTemplateHandler(mockSvc)

	body := map[string]any{
		"name":             "Weekly Reset",
		"category":         "maintenance",
		"title_template":   "{{eventName}} reset",
		"content_template": "Resets at {{time}}",
		"variables": map[string]any{
			"eventName": map[string]any{"type": "string", "required": true},
		},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/templates", body)
	testutil.SetCaller(c, "designer-2")

	handler.CreateTemplate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "designer-2", captured.CreatedBy)
	assert.Contains(t, captured.Variables, "eventName")
}

func TestTemplateHandler_CreateTemplate_InvalidVariableType(t *testing.T) {
	called := false
	handler := newTestTemplateHandler(&mockTemplateService{
		createFn: func(ctx context.Context, req templatedto.CreateTemplateRequest) (*templatedto.TemplateResponse, error) {
			called = true
			return nil, nil
		},
	})

	body := map[string]any{
		"name":             "Bad",
		"category":         "event",
		"title_template":   "t",
		"content_template": "c",
		"variables": map[string]any{
			"x": map[string]any{"type": "color"},
		},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/templates", body)

	handler.CreateTemplate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
}

func TestTemplateHandler_GetTemplate_InvalidPrefix(t *testing.T) {
	handler := newTestTemplateHandler(&mockTemplateService{})

	c, w := testutil.NewTestContext(http.MethodGet, "/templates/ann_123", nil)
	testutil.SetURLParam(c, "id", "ann_123")

	handler.GetTemplate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplateHandler_DeleteTemplate(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"system template", errors.NewConflictError("system templates cannot be deleted"), http.StatusConflict},
		{"missing", errors.NewNotFoundError("template not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			handler := newTestTemplateHandler(&mockTemplateService{
				deleteFn: func(ctx context.Context, id string) error {
					gotID = id
					return tt.serviceErr
				},
			})

			c, w := testutil.NewTestContext(http.MethodDelete, "/templates/tpl_x1", nil)
			testutil.SetURLParam(c, "id", "tpl_x1")

			handler.DeleteTemplate(c)
			// NoContent is only flushed once the writer is committed.
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "tpl_x1", gotID)
		})
	}
}

func TestTemplateHandler_CloneTemplate_WithoutBody(t *testing.T) {
	var captured templatedto.CloneTemplateRequest
	handler := newTestTemplateHandler(&mockTemplateService{
		cloneFn: func(ctx context.Context, id string, req templatedto.CloneTemplateRequest) (*templatedto.TemplateResponse, error) {
			captured = req
			return &templatedto.TemplateResponse{ID: "tpl_copy", Name: "Weekly Reset (Copy)"}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodPost, "/templates/tpl_x1/clone", nil)
	testutil.SetURLParam(c, "id", "tpl_x1")
	testutil.SetCaller(c, "designer-3")

	handler.CloneTemplate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, captured.Name)
	assert.Equal(t, "designer-3", captured.UserID)
}

func TestTemplateHandler_GenerateFromTemplate(t *testing.T) {
	var captured templatedto.GenerateRequest
	handler := newTestTemplateHandler(&mockTemplateService{
		generateFn: func(ctx context.Context, req templatedto.GenerateRequest) (*templatedto.GenerateResponse, error) {
			captured = req
			return &templatedto.GenerateResponse{
				TemplateID: req.TemplateID,
				Announcement: templatedto.AnnouncementDraftResponse{
					Title:     "Spring Cup",
					CreatedBy: req.UserID,
				},
				Unresolved: []string{},
			}, nil
		},
	})

	body := map[string]any{
		"template_id": "tpl_x1",
		"variables":   map[string]any{"eventName": "Spring Cup"},
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/templates/generate", body)
	testutil.SetCaller(c, "admin-1")

	handler.GenerateFromTemplate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", captured.UserID)
	assert.Equal(t, "Spring Cup", captured.Variables["eventName"])

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data templatedto.GenerateResponse
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "admin-1", data.Announcement.CreatedBy)
}

func TestTemplateHandler_PreviewTemplate_MissingRequiredVariable(t *testing.T) {
	handler := newTestTemplateHandler(&mockTemplateService{
		previewFn: func(ctx context.Context, req templatedto.PreviewRequest) (*templatedto.PreviewResponse, error) {
			return nil, errors.NewValidationError("missing required variable", "eventName")
		},
	})

	c, w := testutil.NewTestContext(http.MethodPost, "/templates/preview", map[string]any{"template_id": "tpl_x1"})

	handler.PreviewTemplate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "eventName", resp.Error.Details)
}

func TestTemplateHandler_InitializeSystemTemplates(t *testing.T) {
	handler := newTestTemplateHandler(&mockTemplateService{
		initializeFn: func(ctx context.Context) (*templatedto.InitializeSystemTemplatesResponse, error) {
			return &templatedto.InitializeSystemTemplatesResponse{
				Created: []string{"Maintenance Notice"},
				Skipped: []string{},
			}, nil
		},
	})

	c, w := testutil.NewTestContext(http.MethodPost, "/templates/system/initialize", nil)

	handler.InitializeSystemTemplates(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
