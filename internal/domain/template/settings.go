package template

import (
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
)

// Settings are partial announcement field overrides. A template carries a set
// of defaults and callers may supply their own on generation; set fields win.
type Settings struct {
	Category       *string    `json:"category,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	TargetAudience []string   `json:"target_audience,omitempty"`
	IsPublished    *bool      `json:"is_published,omitempty"`
	IsFeatured     *bool      `json:"is_featured,omitempty"`
	ScheduledFor   *time.Time `json:"scheduled_for,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// Merge returns s overlaid with every field over sets.
func (s Settings) Merge(over Settings) Settings {
	out := s
	if over.Category != nil {
		out.Category = over.Category
	}
	if over.Tags != nil {
		out.Tags = over.Tags
	}
	if over.TargetAudience != nil {
		out.TargetAudience = over.TargetAudience
	}
	if over.IsPublished != nil {
		out.IsPublished = over.IsPublished
	}
	if over.IsFeatured != nil {
		out.IsFeatured = over.IsFeatured
	}
	if over.ScheduledFor != nil {
		out.ScheduledFor = over.ScheduledFor
	}
	if over.ExpiresAt != nil {
		out.ExpiresAt = over.ExpiresAt
	}
	return out
}

func (s Settings) applyTo(d *announcement.Draft) {
	if s.Category != nil {
		d.Category = *s.Category
	}
	d.Tags = s.Tags
	d.TargetAudience = s.TargetAudience
	if s.IsPublished != nil {
		d.IsPublished = *s.IsPublished
	}
	if s.IsFeatured != nil {
		d.IsFeatured = *s.IsFeatured
	}
	d.ScheduledFor = s.ScheduledFor
	d.ExpiresAt = s.ExpiresAt
}
