package dto

import (
	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	vo "github.com/rewardsboard/eventcast/internal/domain/template/valueobjects"
)

// MarkdownService renders markdown content to sanitized HTML.
type MarkdownService interface {
	ToHTML(markdown string) (string, error)
}

func ToTemplateResponse(t *template.Template) *TemplateResponse {
	if t == nil {
		return nil
	}

	return &TemplateResponse{
		ID:               t.ID(),
		Name:             t.Name(),
		Description:      t.Description(),
		Category:         t.Category().String(),
		AnnouncementType: t.AnnouncementType().String(),
		Priority:         t.Priority().String(),
		TitleTemplate:    t.TitleTemplate(),
		ContentTemplate:  t.ContentTemplate(),
		SummaryTemplate:  t.SummaryTemplate(),
		Variables:        FromVariables(t.Variables()),
		DefaultSettings:  FromSettings(t.DefaultSettings()),
		IsActive:         t.IsActive(),
		IsSystem:         t.IsSystem(),
		UsageCount:       t.UsageCount(),
		CreatedBy:        t.CreatedBy(),
		CreatedAt:        t.CreatedAt(),
		UpdatedAt:        t.UpdatedAt(),
	}
}

func ToTemplateResponses(templates []*template.Template) []*TemplateResponse {
	responses := make([]*TemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, ToTemplateResponse(t))
	}
	return responses
}

// ToVariables converts request variables to the domain schema. Types are
// checked by the domain when the definition is validated.
func ToVariables(in map[string]VariableDTO) template.Variables {
	if in == nil {
		return nil
	}
	out := make(template.Variables, len(in))
	for name, v := range in {
		variable := template.Variable{
			Type:         vo.VariableType(v.Type),
			Required:     v.Required,
			DefaultValue: v.DefaultValue,
			Description:  v.Description,
		}
		if v.Validation != nil {
			variable.Validation = &template.ValueValidation{
				Min:     v.Validation.Min,
				Max:     v.Validation.Max,
				Pattern: v.Validation.Pattern,
				Options: v.Validation.Options,
			}
		}
		out[name] = variable
	}
	return out
}

func FromVariables(in template.Variables) map[string]VariableDTO {
	out := make(map[string]VariableDTO, len(in))
	for name, v := range in {
		d := VariableDTO{
			Type:         string(v.Type),
			Required:     v.Required,
			DefaultValue: v.DefaultValue,
			Description:  v.Description,
		}
		if v.Validation != nil {
			d.Validation = &ValueValidationDTO{
				Min:     v.Validation.Min,
				Max:     v.Validation.Max,
				Pattern: v.Validation.Pattern,
				Options: v.Validation.Options,
			}
		}
		out[name] = d
	}
	return out
}

func ToSettings(in *SettingsDTO) template.Settings {
	if in == nil {
		return template.Settings{}
	}
	return template.Settings{
		Category:       in.Category,
		Tags:           in.Tags,
		TargetAudience: in.TargetAudience,
		IsPublished:    in.IsPublished,
		IsFeatured:     in.IsFeatured,
		ScheduledFor:   in.ScheduledFor,
		ExpiresAt:      in.ExpiresAt,
	}
}

func FromSettings(in template.Settings) SettingsDTO {
	return SettingsDTO{
		Category:       in.Category,
		Tags:           in.Tags,
		TargetAudience: in.TargetAudience,
		IsPublished:    in.IsPublished,
		IsFeatured:     in.IsFeatured,
		ScheduledFor:   in.ScheduledFor,
		ExpiresAt:      in.ExpiresAt,
	}
}

// ToDraftResponse converts a generated draft. contentHTML is rendered by the caller.
func ToDraftResponse(d announcement.Draft, contentHTML string) AnnouncementDraftResponse {
	return AnnouncementDraftResponse{
		Title:          d.Title,
		Content:        d.Content,
		ContentHTML:    contentHTML,
		Summary:        d.Summary,
		Type:           d.Type.String(),
		Category:       d.Category,
		Priority:       d.Priority.String(),
		Tags:           nonNil(d.Tags),
		TargetAudience: nonNil(d.TargetAudience),
		IsPublished:    d.IsPublished,
		IsFeatured:     d.IsFeatured,
		ScheduledFor:   d.ScheduledFor,
		ExpiresAt:      d.ExpiresAt,
		CreatedBy:      d.CreatedBy,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
