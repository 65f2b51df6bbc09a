// Package template models announcement templates: named content patterns
// whose {{name}} placeholders are filled from a typed variable schema.
package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/id"
)

const maxNameLength = 100

type Template struct {
	id               string
	name             string
	description      string
	category         vo.Category
	announcementType annvo.AnnouncementType
	priority         annvo.Priority
	titleTemplate    string
	contentTemplate  string
	summaryTemplate  string
	variables        Variables
	defaultSettings  Settings
	isActive         bool
	isSystem         bool
	usageCount       int64
	createdBy        string
	createdAt        time.Time
	updatedAt        time.Time
}

// Definition is the user supplied content of a template.
type Definition struct {
	Name             string
	Description      string
	Category         vo.Category
	AnnouncementType annvo.AnnouncementType
	Priority         annvo.Priority
	TitleTemplate    string
	ContentTemplate  string
	SummaryTemplate  string
	Variables        Variables
	DefaultSettings  Settings
	CreatedBy        string
}

// Rendered is the output of substituting variables into a template.
type Rendered struct {
	Title      string
	Content    string
	Summary    string
	Unresolved []string
}

func NewTemplate(def Definition, now time.Time) (*Template, error) {
	return newTemplate(def, false, now)
}

// NewSystemTemplate builds a built-in template. System templates are immutable.
func NewSystemTemplate(def Definition, now time.Time) (*Template, error) {
	return newTemplate(def, true, now)
}

func newTemplate(def Definition, system bool, now time.Time) (*Template, error) {
	if def.AnnouncementType == "" {
		def.AnnouncementType = annvo.AnnouncementTypeGeneral
	}
	if def.Priority == "" {
		def.Priority = annvo.PriorityNormal
	}
	if def.Variables == nil {
		def.Variables = Variables{}
	}
	if err := validateDefinition(def); err != nil {
		return nil, err
	}

	tplID, err := id.NewTemplateID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate template ID: %w", err)
	}

	return &Template{
		id:               tplID,
		name:             strings.TrimSpace(def.Name),
		description:      def.Description,
		category:         def.Category,
		announcementType: def.AnnouncementType,
		priority:         def.Priority,
		titleTemplate:    def.TitleTemplate,
		contentTemplate:  def.ContentTemplate,
		summaryTemplate:  def.SummaryTemplate,
		variables:        def.Variables.clone(),
		defaultSettings:  def.DefaultSettings,
		isActive:         true,
		isSystem:         system,
		usageCount:       0,
		createdBy:        def.CreatedBy,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID         string
	Definition Definition
	IsActive   bool
	IsSystem   bool
	UsageCount int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ReconstructTemplate(p ReconstructParams) (*Template, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("template ID cannot be empty")
	}
	if err := id.ValidatePrefix(p.ID, id.PrefixTemplate); err != nil {
		return nil, err
	}
	def := p.Definition
	if def.Variables == nil {
		def.Variables = Variables{}
	}
	return &Template{
		id:               p.ID,
		name:             def.Name,
		description:      def.Description,
		category:         def.Category,
		announcementType: def.AnnouncementType,
		priority:         def.Priority,
		titleTemplate:    def.TitleTemplate,
		contentTemplate:  def.ContentTemplate,
		summaryTemplate:  def.SummaryTemplate,
		variables:        def.Variables,
		defaultSettings:  def.DefaultSettings,
		isActive:         p.IsActive,
		isSystem:         p.IsSystem,
		usageCount:       p.UsageCount,
		createdBy:        def.CreatedBy,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

func (t *Template) ID() string                               { return t.id }
func (t *Template) Name() string                             { return t.name }
func (t *Template) Description() string                      { return t.description }
func (t *Template) Category() vo.Category                    { return t.category }
func (t *Template) AnnouncementType() annvo.AnnouncementType { return t.announcementType }
func (t *Template) Priority() annvo.Priority                 { return t.priority }
func (t *Template) TitleTemplate() string                    { return t.titleTemplate }
func (t *Template) ContentTemplate() string                  { return t.contentTemplate }
func (t *Template) SummaryTemplate() string                  { return t.summaryTemplate }
func (t *Template) Variables() Variables                     { return t.variables.clone() }
func (t *Template) DefaultSettings() Settings                { return t.defaultSettings }
func (t *Template) IsActive() bool                           { return t.isActive }
func (t *Template) IsSystem() bool                           { return t.isSystem }
func (t *Template) UsageCount() int64                        { return t.usageCount }
func (t *Template) CreatedBy() string                        { return t.createdBy }
func (t *Template) CreatedAt() time.Time                     { return t.createdAt }
func (t *Template) UpdatedAt() time.Time                     { return t.updatedAt }

func (t *Template) definition() Definition {
	return Definition{
		Name:             t.name,
		Description:      t.description,
		Category:         t.category,
		AnnouncementType: t.announcementType,
		Priority:         t.priority,
		TitleTemplate:    t.titleTemplate,
		ContentTemplate:  t.contentTemplate,
		SummaryTemplate:  t.summaryTemplate,
		Variables:        t.variables,
		DefaultSettings:  t.defaultSettings,
		CreatedBy:        t.createdBy,
	}
}

// EnsureMutable fails with a conflict for system templates.
func (t *Template) EnsureMutable() error {
	if t.isSystem {
		return errors.NewConflictError("system templates cannot be modified", t.name)
	}
	return nil
}

// Patch lists the editable fields; nil means unchanged.
type Patch struct {
	Name             *string
	Description      *string
	Category         *vo.Category
	AnnouncementType *annvo.AnnouncementType
	Priority         *annvo.Priority
	TitleTemplate    *string
	ContentTemplate  *string
	SummaryTemplate  *string
	Variables        Variables
	DefaultSettings  *Settings
	IsActive         *bool
}

// Update applies p atomically: on any validation failure the template is unchanged.
func (t *Template) Update(p Patch, now time.Time) error {
	if err := t.EnsureMutable(); err != nil {
		return err
	}

	def := t.definition()
	if p.Name != nil {
		def.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		def.Description = *p.Description
	}
	if p.Category != nil {
		def.Category = *p.Category
	}
	if p.AnnouncementType != nil {
		def.AnnouncementType = *p.AnnouncementType
	}
	if p.Priority != nil {
		def.Priority = *p.Priority
	}
	if p.TitleTemplate != nil {
		def.TitleTemplate = *p.TitleTemplate
	}
	if p.ContentTemplate != nil {
		def.ContentTemplate = *p.ContentTemplate
	}
	if p.SummaryTemplate != nil {
		def.SummaryTemplate = *p.SummaryTemplate
	}
	if p.Variables != nil {
		def.Variables = p.Variables.clone()
	}
	if p.DefaultSettings != nil {
		def.DefaultSettings = *p.DefaultSettings
	}
	if err := validateDefinition(def); err != nil {
		return err
	}

	t.name = def.Name
	t.description = def.Description
	t.category = def.Category
	t.announcementType = def.AnnouncementType
	t.priority = def.Priority
	t.titleTemplate = def.TitleTemplate
	t.contentTemplate = def.ContentTemplate
	t.summaryTemplate = def.SummaryTemplate
	t.variables = def.Variables
	t.defaultSettings = def.DefaultSettings
	if p.IsActive != nil {
		t.isActive = *p.IsActive
	}
	t.updatedAt = now
	return nil
}

// Clone copies the template content under a new name. The copy is a regular,
// active, unused template owned by actor.
func (t *Template) Clone(newName, actor string, now time.Time) (*Template, error) {
	def := t.definition()
	def.Name = strings.TrimSpace(newName)
	if def.Name == "" {
		def.Name = t.name + " (Copy)"
	}
	def.Variables = t.variables.clone()
	if actor != "" {
		def.CreatedBy = actor
	}
	clone, err := NewTemplate(def, now)
	if err != nil {
		return nil, err
	}
	clone.isActive = t.isActive
	return clone, nil
}

// EnsureUsable fails for inactive templates.
func (t *Template) EnsureUsable() error {
	if !t.isActive {
		return errors.NewValidationError("template is inactive", t.id)
	}
	return nil
}

// Render validates values against the variable schema and substitutes them.
// It has no side effects.
func (t *Template) Render(values map[string]any) (Rendered, error) {
	if err := t.EnsureUsable(); err != nil {
		return Rendered{}, err
	}
	resolved, err := t.variables.Resolve(values)
	if err != nil {
		return Rendered{}, err
	}

	title, u1 := Substitute(t.titleTemplate, resolved)
	content, u2 := Substitute(t.contentTemplate, resolved)
	summary, u3 := Substitute(t.summaryTemplate, resolved)

	return Rendered{
		Title:      title,
		Content:    content,
		Summary:    summary,
		Unresolved: mergeUnique(u1, u2, u3),
	}, nil
}

// Generate renders the template and builds an announcement draft. Field
// precedence is template defaults, then overrides, then the rendered text,
// the template's type and priority, and the acting user.
func (t *Template) Generate(values map[string]any, overrides Settings, actor string) (announcement.Draft, Rendered, error) {
	rendered, err := t.Render(values)
	if err != nil {
		return announcement.Draft{}, Rendered{}, err
	}

	draft := announcement.Draft{Category: t.category.String()}
	t.defaultSettings.Merge(overrides).applyTo(&draft)

	draft.Title = rendered.Title
	draft.Content = rendered.Content
	draft.Summary = rendered.Summary
	draft.Type = t.announcementType
	draft.Priority = t.priority
	draft.CreatedBy = actor

	return draft, rendered, nil
}

func validateDefinition(def Definition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return errors.NewValidationError("template name is required")
	}
	if len(name) > maxNameLength {
		return errors.NewValidationError(fmt.Sprintf("template name exceeds maximum length of %d characters", maxNameLength))
	}
	if !def.Category.IsValid() {
		return errors.NewValidationError("invalid template category", string(def.Category))
	}
	if !def.AnnouncementType.IsValid() {
		return errors.NewValidationError("invalid announcement type", string(def.AnnouncementType))
	}
	if !def.Priority.IsValid() {
		return errors.NewValidationError("invalid priority", string(def.Priority))
	}
	if strings.TrimSpace(def.TitleTemplate) == "" {
		return errors.NewValidationError("title template is required")
	}
	if strings.TrimSpace(def.ContentTemplate) == "" {
		return errors.NewValidationError("content template is required")
	}
	if err := def.Variables.validateSchema(); err != nil {
		return err
	}

	var undefined []string
	for _, name := range ExtractPlaceholders(def.TitleTemplate, def.ContentTemplate, def.SummaryTemplate) {
		if _, ok := def.Variables[name]; !ok {
			undefined = append(undefined, name)
		}
	}
	if len(undefined) > 0 {
		return errors.NewValidationError("template uses undefined variables", strings.Join(undefined, ", "))
	}
	return nil
}

func mergeUnique(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
