package dto

import (
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
)

type CreateAnnouncementRequest struct {
	Title          string     `json:"title" binding:"required,max=200"`
	Content        string     `json:"content" binding:"required"`
	Summary        string     `json:"summary" binding:"omitempty,max=500"`
	Type           string     `json:"type"`
	Category       string     `json:"category" binding:"omitempty,max=50"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Tags           []string   `json:"tags"`
	TargetAudience []string   `json:"target_audience"`
	IsPublished    bool       `json:"is_published"`
	IsFeatured     bool       `json:"is_featured"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	ExpiresAt      *time.Time `json:"expires_at"`
	CreatedBy      string     `json:"-"`
}

type UpdateAnnouncementRequest struct {
	Title          *string    `json:"title" binding:"omitempty,max=200"`
	Content        *string    `json:"content"`
	Summary        *string    `json:"summary" binding:"omitempty,max=500"`
	Type           *string    `json:"type"`
	Category       *string    `json:"category" binding:"omitempty,max=50"`
	Priority       *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Tags           []string   `json:"tags"`
	TargetAudience []string   `json:"target_audience"`
	IsPublished    *bool      `json:"is_published"`
	IsActive       *bool      `json:"is_active"`
	IsFeatured     *bool      `json:"is_featured"`
	ScheduledFor   *time.Time `json:"scheduled_for"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

type ListPublishedRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

type AnnouncementResponse struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Content        string                `json:"content"`
	Summary        string                `json:"summary,omitempty"`
	Type           string                `json:"type"`
	Category       string                `json:"category,omitempty"`
	Priority       string                `json:"priority"`
	Tags           []string              `json:"tags"`
	TargetAudience []string              `json:"target_audience"`
	IsPublished    bool                  `json:"is_published"`
	IsActive       bool                  `json:"is_active"`
	IsFeatured     bool                  `json:"is_featured"`
	ScheduledFor   *time.Time            `json:"scheduled_for,omitempty"`
	PublishedAt    *time.Time            `json:"published_at,omitempty"`
	ExpiresAt      *time.Time            `json:"expires_at,omitempty"`
	CreatedBy      string                `json:"created_by,omitempty"`
	Counters       announcement.Counters `json:"counters"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type ListPublishedResponse struct {
	Items  []*AnnouncementResponse `json:"items"`
	Total  int64                   `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

type EngagementResponse struct {
	AnnouncementID uint      `json:"announcement_id"`
	Action         string    `json:"action"`
	EventID        string    `json:"event_id,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}

func ToAnnouncementResponse(a *announcement.Announcement) *AnnouncementResponse {
	if a == nil {
		return nil
	}
	return &AnnouncementResponse{
		ID:             a.ID(),
		Title:          a.Title(),
		Content:        a.Content(),
		Summary:        a.Summary(),
		Type:           a.Type().String(),
		Category:       a.Category(),
		Priority:       a.Priority().String(),
		Tags:           nonNil(a.Tags()),
		TargetAudience: nonNil(a.TargetAudience()),
		IsPublished:    a.IsPublished(),
		IsActive:       a.IsActive(),
		IsFeatured:     a.IsFeatured(),
		ScheduledFor:   a.ScheduledFor(),
		PublishedAt:    a.PublishedAt(),
		ExpiresAt:      a.ExpiresAt(),
		CreatedBy:      a.CreatedBy(),
		Counters:       a.Counters(),
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

func ToAnnouncementResponses(items []*announcement.Announcement) []*AnnouncementResponse {
	out := make([]*AnnouncementResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToAnnouncementResponse(a))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
