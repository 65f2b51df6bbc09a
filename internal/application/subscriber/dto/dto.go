package dto

import (
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
)

type PreferencesDTO struct {
	RealTime *bool `json:"real_time"`
	Email    *bool `json:"email"`
	Push     *bool `json:"push"`
	SMS      *bool `json:"sms"`
}

type SubscribeRequest struct {
	Categories  []string        `json:"categories"`
	Types       []string        `json:"types"`
	Preferences *PreferencesDTO `json:"preferences"`
}

type UpdatePreferencesRequest struct {
	Preferences PreferencesDTO `json:"preferences" binding:"required"`
}

type SegmentRequest struct {
	Segment string `json:"segment" binding:"required,max=64"`
}

type SubscriptionResponse struct {
	UserID       string    `json:"user_id"`
	Categories   []string  `json:"categories"`
	Types        []string  `json:"types"`
	RealTime     bool      `json:"real_time"`
	Email        bool      `json:"email"`
	Push         bool      `json:"push"`
	SMS          bool      `json:"sms"`
	LastActivity time.Time `json:"last_activity"`
}

type SegmentsResponse struct {
	UserID   string   `json:"user_id"`
	Segments []string `json:"segments"`
}

func (p *PreferencesDTO) ToPatch() subscriber.PreferencesPatch {
	if p == nil {
		return subscriber.PreferencesPatch{}
	}
	return subscriber.PreferencesPatch{
		RealTime: p.RealTime,
		Email:    p.Email,
		Push:     p.Push,
		SMS:      p.SMS,
	}
}

func ToSubscriptionResponse(s subscriber.Subscription) *SubscriptionResponse {
	types := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		types = append(types, t.String())
	}
	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}
	return &SubscriptionResponse{
		UserID:       s.UserID,
		Categories:   categories,
		Types:        types,
		RealTime:     s.Preferences.RealTime,
		Email:        s.Preferences.Email,
		Push:         s.Preferences.Push,
		SMS:          s.Preferences.SMS,
		LastActivity: s.LastActivity,
	}
}
