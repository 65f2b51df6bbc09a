package usecases

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type mockTemplateRepository struct {
	mock.Mock
}

func (m *mockTemplateRepository) Create(ctx context.Context, t *template.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTemplateRepository) GetByID(ctx context.Context, id string) (*template.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*template.Template), args.Error(1)
}

func (m *mockTemplateRepository) Update(ctx context.Context, t *template.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockTemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTemplateRepository) List(ctx context.Context, filter template.Filter) ([]*template.Template, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*template.Template), args.Error(1)
}

func (m *mockTemplateRepository) ExistsSystemTemplate(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *mockTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type stubMarkdown struct {
	err error
}

func (s stubMarkdown) ToHTML(markdown string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<p>" + markdown + "</p>", nil
}

type staticSource struct {
	defs []template.Definition
	err  error
}

func (s staticSource) Load() ([]template.Definition, error) {
	return s.defs, s.err
}

// recordingTx runs fn inline and counts invocations.
type recordingTx struct {
	calls int
}

func (r *recordingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

func eventDefinition(name string) template.Definition {
	return template.Definition{
		Name:             name,
		Category:         vo.CategoryEvent,
		AnnouncementType: annvo.AnnouncementTypeEvent,
		Priority:         annvo.PriorityHigh,
		TitleTemplate:    "{{eventName}} on {{eventDate}}",
		ContentTemplate:  "Join **{{eventName}}**. {{location}}",
		SummaryTemplate:  "{{eventName}} starts {{eventDate}}",
		Variables: template.Variables{
			"eventName": {Type: vo.VariableTypeString, Required: true},
			"eventDate": {Type: vo.VariableTypeDate, Required: true},
			"location":  {Type: vo.VariableTypeString},
		},
		DefaultSettings: template.Settings{
			Tags:           []string{"event"},
			TargetAudience: []string{"all"},
		},
		CreatedBy: "admin",
	}
}

func newEventTemplate(name string, system bool) *template.Template {
	var (
		tpl *template.Template
		err error
	)
	if system {
		tpl, err = template.NewSystemTemplate(eventDefinition(name), testNow)
	} else {
		tpl, err = template.NewTemplate(eventDefinition(name), testNow)
	}
	if err != nil {
		panic(err)
	}
	return tpl
}
