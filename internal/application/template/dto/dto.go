package dto

import (
	"time"
)

type ValueValidationDTO struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Options []string `json:"options,omitempty"`
}

type VariableDTO struct {
	Type         string              `json:"type" binding:"required,oneof=string number date boolean url email"`
	Required     bool                `json:"required"`
	DefaultValue any                 `json:"default_value,omitempty"`
	Description  string              `json:"description,omitempty"`
	Validation   *ValueValidationDTO `json:"validation,omitempty"`
}

// SettingsDTO carries partial announcement defaults or overrides.
type SettingsDTO struct {
	Category       *string    `json:"category,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	TargetAudience []string   `json:"target_audience,omitempty"`
	IsPublished    *bool      `json:"is_published,omitempty"`
	IsFeatured     *bool      `json:"is_featured,omitempty"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

type CreateTemplateRequest struct {
	Name             string                 `json:"name" binding:"required,max=100"`
	Description      string                 `json:"description"`
	Category         string                 `json:"category" binding:"required"`
	AnnouncementType string                 `json:"announcement_type"`
	Priority         string                 `json:"priority"`
	TitleTemplate    string                 `json:"title_template" binding:"required"`
	ContentTemplate  string                 `json:"content_template" binding:"required"`
	SummaryTemplate  string                 `json:"summary_template"`
	Variables        map[string]VariableDTO `json:"variables" binding:"omitempty,dive"`
	DefaultSettings  *SettingsDTO           `json:"default_settings"`
	CreatedBy        string                 `json:"-"` // Set by handler from X-User-ID
}

type UpdateTemplateRequest struct {
	Name             *string                `json:"name" binding:"omitempty,max=100"`
	Description      *string                `json:"description"`
	Category         *string                `json:"category"`
	AnnouncementType *string                `json:"announcement_type"`
	Priority         *string                `json:"priority"`
	TitleTemplate    *string                `json:"title_template"`
	ContentTemplate  *string                `json:"content_template"`
	SummaryTemplate  *string                `json:"summary_template"`
	Variables        map[string]VariableDTO `json:"variables" binding:"omitempty,dive"`
	DefaultSettings  *SettingsDTO           `json:"default_settings"`
	IsActive         *bool                  `json:"is_active"`
}

type ListTemplatesRequest struct {
	Category   string `form:"category"`
	ActiveOnly bool   `form:"active_only"`
}

type GenerateRequest struct {
	TemplateID string         `json:"template_id" binding:"required"`
	Variables  map[string]any `json:"variables"`
	Overrides  *SettingsDTO   `json:"overrides"`
	UserID     string         `json:"-"`
}

type PreviewRequest struct {
	TemplateID string         `json:"template_id" binding:"required"`
	Variables  map[string]any `json:"variables"`
}

type CloneTemplateRequest struct {
	Name   string `json:"name" binding:"omitempty,max=100"`
	UserID string `json:"-"`
}

type TemplateResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Description      string                 `json:"description"`
	Category         string                 `json:"category"`
	AnnouncementType string                 `json:"announcement_type"`
	Priority         string                 `json:"priority"`
	TitleTemplate    string                 `json:"title_template"`
	ContentTemplate  string                 `json:"content_template"`
	SummaryTemplate  string                 `json:"summary_template,omitempty"`
	Variables        map[string]VariableDTO `json:"variables"`
	DefaultSettings  SettingsDTO            `json:"default_settings"`
	IsActive         bool                   `json:"is_active"`
	IsSystem         bool                   `json:"is_system"`
	UsageCount       int64                  `json:"usage_count"`
	CreatedBy        string                 `json:"created_by"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// AnnouncementDraftResponse is a ready-to-submit announcement creation payload.
type AnnouncementDraftResponse struct {
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	ContentHTML    string     `json:"content_html"`
	Summary        string     `json:"summary,omitempty"`
	Type           string     `json:"type"`
	Category       string     `json:"category"`
	Priority       string     `json:"priority"`
	Tags           []string   `json:"tags"`
	TargetAudience []string   `json:"target_audience"`
	IsPublished    bool       `json:"is_published"`
	IsFeatured     bool       `json:"is_featured"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedBy      string     `json:"created_by"`
}

type GenerateResponse struct {
	TemplateID   string                    `json:"template_id"`
	Announcement AnnouncementDraftResponse `json:"announcement"`
	Unresolved   []string                  `json:"unresolved"`
}

type PreviewResponse struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ContentHTML string   `json:"content_html"`
	Summary     string   `json:"summary,omitempty"`
	Unresolved  []string `json:"unresolved"`
}

type InitializeSystemTemplatesResponse struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}
