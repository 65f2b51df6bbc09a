package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rewardsboard/eventcast/internal/application/template/dto"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

func TestCreateTemplateUseCase_Execute_Success(t *testing.T) {
	repo := new(mockTemplateRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*template.Template")).Return(nil)

	uc := NewCreateTemplateUseCase(repo, logger.NewNopLogger())

	resp, err := uc.Execute(context.Background(), dto.CreateTemplateRequest{
		Name:            "Weekly Digest",
		Category:        "newsletter",
		TitleTemplate:   "Digest #{{issue}}",
		ContentTemplate: "Highlights: {{highlights}}",
		Variables: map[string]dto.VariableDTO{
			"issue":      {Type: "number", Required: true},
			"highlights": {Type: "string"},
		},
		CreatedBy: "admin-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Weekly Digest", resp.Name)
	assert.Equal(t, "GENERAL", resp.AnnouncementType)
	assert.Equal(t, "normal", resp.Priority)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.IsSystem)
	assert.Zero(t, resp.UsageCount)
	assert.Equal(t, "admin-1", resp.CreatedBy)
	repo.AssertExpectations(t)
}

func TestCreateTemplateUseCase_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateTemplateRequest
	}{
		{
			name: "undefined placeholder",
			req: dto.CreateTemplateRequest{
				Name: "Broken", Category: "event",
				TitleTemplate: "{{title}}", ContentTemplate: "{{body}}",
				Variables: map[string]dto.VariableDTO{"title": {Type: "string"}},
			},
		},
		{
			name: "unknown category",
			req: dto.CreateTemplateRequest{
				Name: "Broken", Category: "gossip",
				TitleTemplate: "t", ContentTemplate: "c",
			},
		},
		{
			name: "unknown priority",
			req: dto.CreateTemplateRequest{
				Name: "Broken", Category: "event", Priority: "critical",
				TitleTemplate: "t", ContentTemplate: "c",
			},
		},
		{
			name: "invalid variable type",
			req: dto.CreateTemplateRequest{
				Name: "Broken", Category: "event",
				TitleTemplate: "{{x}}", ContentTemplate: "c",
				Variables: map[string]dto.VariableDTO{"x": {Type: "color"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockTemplateRepository)
			uc := NewCreateTemplateUseCase(repo, logger.NewNopLogger())

			resp, err := uc.Execute(context.Background(), tt.req)

			assert.Nil(t, resp)
			assert.True(t, errors.IsValidationError(err), "got %v", err)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateTemplateUseCase_Execute_DuplicateIsConflict(t *testing.T) {
	repo := new(mockTemplateRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.NewConflictError("template already exists"))

	uc := NewCreateTemplateUseCase(repo, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), dto.CreateTemplateRequest{
		Name: "Dup", Category: "event", TitleTemplate: "t", ContentTemplate: "c",
	})

	assert.True(t, errors.IsConflictError(err))
}

func TestUpdateTemplateUseCase_Execute(t *testing.T) {
	t.Run("updates a user template", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
		repo.On("Update", mock.Anything, tpl).Return(nil)

		name := "Launch Party"
		inactive := false
		resp, err := NewUpdateTemplateUseCase(repo, logger.NewNopLogger()).
			Execute(context.Background(), tpl.ID(), dto.UpdateTemplateRequest{Name: &name, IsActive: &inactive})

		require.NoError(t, err)
		assert.Equal(t, "Launch Party", resp.Name)
		assert.False(t, resp.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("system template is a conflict", func(t *testing.T) {
		tpl := newEventTemplate("Event Announcement", true)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

		name := "Renamed"
		_, err := NewUpdateTemplateUseCase(repo, logger.NewNopLogger()).
			Execute(context.Background(), tpl.ID(), dto.UpdateTemplateRequest{Name: &name})

		assert.True(t, errors.IsConflictError(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing template", func(t *testing.T) {
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, "tpl_missing").Return(nil, nil)

		_, err := NewUpdateTemplateUseCase(repo, logger.NewNopLogger()).
			Execute(context.Background(), "tpl_missing", dto.UpdateTemplateRequest{})

		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("invalid patch leaves template unchanged", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

		content := "uses {{unknown}}"
		_, err := NewUpdateTemplateUseCase(repo, logger.NewNopLogger()).
			Execute(context.Background(), tpl.ID(), dto.UpdateTemplateRequest{ContentTemplate: &content})

		assert.True(t, errors.IsValidationError(err))
		assert.Equal(t, "Join **{{eventName}}**. {{location}}", tpl.ContentTemplate())
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteTemplateUseCase_Execute(t *testing.T) {
	t.Run("system template is a conflict", func(t *testing.T) {
		tpl := newEventTemplate("Event Announcement", true)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

		err := NewDeleteTemplateUseCase(repo, logger.NewNopLogger()).Execute(context.Background(), tpl.ID())

		assert.True(t, errors.IsConflictError(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("user template is removed", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
		repo.On("Delete", mock.Anything, tpl.ID()).Return(nil)

		err := NewDeleteTemplateUseCase(repo, logger.NewNopLogger()).Execute(context.Background(), tpl.ID())

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing template", func(t *testing.T) {
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, "tpl_gone").Return(nil, nil)

		err := NewDeleteTemplateUseCase(repo, logger.NewNopLogger()).Execute(context.Background(), "tpl_gone")

		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestListTemplatesUseCase_Execute_PassesFilter(t *testing.T) {
	repo := new(mockTemplateRepository)
	tpl := newEventTemplate("Launch", false)
	repo.On("List", mock.Anything, template.Filter{Category: "event", ActiveOnly: true}).
		Return([]*template.Template{tpl}, nil)

	resp, err := NewListTemplatesUseCase(repo, logger.NewNopLogger()).
		Execute(context.Background(), dto.ListTemplatesRequest{Category: "Event", ActiveOnly: true})

	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, tpl.ID(), resp[0].ID)
}

func TestGenerateFromTemplateUseCase_Execute(t *testing.T) {
	t.Run("renders, merges settings and records usage", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
		repo.On("IncrementUsage", mock.Anything, tpl.ID()).Return(nil).Once()

		featured := true
		resp, err := NewGenerateFromTemplateUseCase(repo, stubMarkdown{}, logger.NewNopLogger()).
			Execute(context.Background(), dto.GenerateRequest{
				TemplateID: tpl.ID(),
				Variables:  map[string]any{"eventName": "Spring Raid", "eventDate": "2024-04-01"},
				Overrides:  &dto.SettingsDTO{IsFeatured: &featured, TargetAudience: []string{"vip"}},
				UserID:     "user-7",
			})

		require.NoError(t, err)
		ann := resp.Announcement
		assert.Equal(t, "Spring Raid on 2024-04-01", ann.Title)
		assert.Equal(t, "Join **Spring Raid**. {{location}}", ann.Content)
		assert.Equal(t, "<p>Join **Spring Raid**. {{location}}</p>", ann.ContentHTML)
		assert.Equal(t, "EVENT", ann.Type)
		assert.Equal(t, "high", ann.Priority)
		assert.Equal(t, "event", ann.Category)
		assert.Equal(t, []string{"event"}, ann.Tags)
		assert.Equal(t, []string{"vip"}, ann.TargetAudience)
		assert.True(t, ann.IsFeatured)
		assert.Equal(t, "user-7", ann.CreatedBy)
		assert.Equal(t, []string{"location"}, resp.Unresolved)
		repo.AssertExpectations(t)
	})

	t.Run("missing required variable does not count usage", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

		_, err := NewGenerateFromTemplateUseCase(repo, stubMarkdown{}, logger.NewNopLogger()).
			Execute(context.Background(), dto.GenerateRequest{
				TemplateID: tpl.ID(),
				Variables:  map[string]any{"eventName": "Spring Raid"},
			})

		require.True(t, errors.IsValidationError(err))
		assert.Equal(t, "eventDate", errors.GetAppError(err).Details)
		repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("inactive template is rejected", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		inactive := false
		require.NoError(t, tpl.Update(template.Patch{IsActive: &inactive}, testNow))
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

		_, err := NewGenerateFromTemplateUseCase(repo, stubMarkdown{}, logger.NewNopLogger()).
			Execute(context.Background(), dto.GenerateRequest{
				TemplateID: tpl.ID(),
				Variables:  map[string]any{"eventName": "x", "eventDate": "2024-04-01"},
			})

		assert.True(t, errors.IsValidationError(err))
		repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("markdown failure keeps the payload", func(t *testing.T) {
		tpl := newEventTemplate("Launch", false)
		repo := new(mockTemplateRepository)
		repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)
		repo.On("IncrementUsage", mock.Anything, tpl.ID()).Return(nil)

		resp, err := NewGenerateFromTemplateUseCase(repo, stubMarkdown{err: stderrors.New("boom")}, logger.NewNopLogger()).
			Execute(context.Background(), dto.GenerateRequest{
				TemplateID: tpl.ID(),
				Variables:  map[string]any{"eventName": "x", "eventDate": "2024-04-01", "location": "Hall"},
			})

		require.NoError(t, err)
		assert.Empty(t, resp.Announcement.ContentHTML)
		assert.Equal(t, "Join **x**. Hall", resp.Announcement.Content)
		assert.Empty(t, resp.Unresolved)
	})
}

func TestPreviewTemplateUseCase_Execute_NoUsageRecorded(t *testing.T) {
	tpl := newEventTemplate("Launch", false)
	repo := new(mockTemplateRepository)
	repo.On("GetByID", mock.Anything, tpl.ID()).Return(tpl, nil)

	resp, err := NewPreviewTemplateUseCase(repo, stubMarkdown{}, logger.NewNopLogger()).
		Execute(context.Background(), dto.PreviewRequest{
			TemplateID: tpl.ID(),
			Variables:  map[string]any{"eventName": "Raid", "eventDate": "2024-04-01"},
		})

	require.NoError(t, err)
	assert.Equal(t, "Raid on 2024-04-01", resp.Title)
	assert.Equal(t, "Raid starts 2024-04-01", resp.Summary)
	repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
}

func TestCloneTemplateUseCase_Execute_SystemSourceYieldsUserTemplate(t *testing.T) {
	source := newEventTemplate("Event Announcement", true)
	repo := new(mockTemplateRepository)
	repo.On("GetByID", mock.Anything, source.ID()).Return(source, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*template.Template")).Return(nil)

	resp, err := NewCloneTemplateUseCase(repo, logger.NewNopLogger()).
		Execute(context.Background(), source.ID(), dto.CloneTemplateRequest{UserID: "user-3"})

	require.NoError(t, err)
	assert.NotEqual(t, source.ID(), resp.ID)
	assert.Equal(t, "Event Announcement (Copy)", resp.Name)
	assert.False(t, resp.IsSystem)
	assert.Zero(t, resp.UsageCount)
	assert.Equal(t, "user-3", resp.CreatedBy)
	assert.Equal(t, source.TitleTemplate(), resp.TitleTemplate)
}

func TestInitializeSystemTemplatesUseCase_Execute_Idempotent(t *testing.T) {
	defs := []template.Definition{eventDefinition("Event Announcement"), eventDefinition("Season Launch")}
	repo := new(mockTemplateRepository)
	repo.On("ExistsSystemTemplate", mock.Anything, "Event Announcement").Return(true, nil)
	repo.On("ExistsSystemTemplate", mock.Anything, "Season Launch").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(t *template.Template) bool {
		return t.Name() == "Season Launch" && t.IsSystem()
	})).Return(nil).Once()

	tx := &recordingTx{}
	resp, err := NewInitializeSystemTemplatesUseCase(repo, staticSource{defs: defs}, tx, logger.NewNopLogger()).
		Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Season Launch"}, resp.Created)
	assert.Equal(t, []string{"Event Announcement"}, resp.Skipped)
	assert.Equal(t, 1, tx.calls)
	repo.AssertExpectations(t)
}

func TestInitializeSystemTemplatesUseCase_Execute_CatalogueError(t *testing.T) {
	repo := new(mockTemplateRepository)
	_, err := NewInitializeSystemTemplatesUseCase(repo, staticSource{err: stderrors.New("bad yaml")}, nil, logger.NewNopLogger()).
		Execute(context.Background())

	assert.Error(t, err)
	repo.AssertNotCalled(t, "ExistsSystemTemplate", mock.Anything, mock.Anything)
}
