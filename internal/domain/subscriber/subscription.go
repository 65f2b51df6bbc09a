// Package subscriber models per-user notification preferences and interest filters.
package subscriber

import (
	"slices"
	"time"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
)

// DefaultCategory is assigned to subscriptions created without a category filter.
const DefaultCategory = "general"

type Preferences struct {
	RealTime bool `json:"real_time"`
	Email    bool `json:"email"`
	Push     bool `json:"push"`
	SMS      bool `json:"sms"`
}

// DefaultPreferences enables realtime delivery only.
func DefaultPreferences() Preferences {
	return Preferences{RealTime: true}
}

// PreferencesPatch is a partial update; nil fields are left unchanged.
type PreferencesPatch struct {
	RealTime *bool `json:"real_time,omitempty"`
	Email    *bool `json:"email,omitempty"`
	Push     *bool `json:"push,omitempty"`
	SMS      *bool `json:"sms,omitempty"`
}

func (p Preferences) Merge(patch PreferencesPatch) Preferences {
	if patch.RealTime != nil {
		p.RealTime = *patch.RealTime
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Push != nil {
		p.Push = *patch.Push
	}
	if patch.SMS != nil {
		p.SMS = *patch.SMS
	}
	return p
}

// Partial is a subscribe request. Nil slices mean "keep what is there, or the default".
type Partial struct {
	Categories  []string
	Types       []annvo.AnnouncementType
	Preferences PreferencesPatch
}

// Subscription is a value type; the registry hands out copies.
type Subscription struct {
	UserID       string                   `json:"user_id"`
	Categories   []string                 `json:"categories"`
	Types        []annvo.AnnouncementType `json:"types"`
	Preferences  Preferences              `json:"preferences"`
	LastActivity time.Time                `json:"last_activity"`
}

// NewSubscription returns the default subscription for userID.
func NewSubscription(userID string, now time.Time) Subscription {
	return Subscription{
		UserID:       userID,
		Categories:   []string{DefaultCategory},
		Types:        []annvo.AnnouncementType{annvo.AnnouncementTypeGeneral},
		Preferences:  DefaultPreferences(),
		LastActivity: now,
	}
}

// Merge overlays p onto s and refreshes LastActivity.
func (s Subscription) Merge(p Partial, now time.Time) Subscription {
	out := s.Clone()
	if p.Categories != nil {
		out.Categories = slices.Clone(p.Categories)
	}
	if p.Types != nil {
		out.Types = slices.Clone(p.Types)
	}
	out.Preferences = out.Preferences.Merge(p.Preferences)
	out.LastActivity = now
	return out
}

func (s Subscription) Clone() Subscription {
	s.Categories = slices.Clone(s.Categories)
	s.Types = slices.Clone(s.Types)
	return s
}

// IsActive reports whether the subscriber showed activity within window.
func (s Subscription) IsActive(now time.Time, window time.Duration) bool {
	return now.Sub(s.LastActivity) <= window
}

// InterestedIn reports whether the subscription accepts an announcement of
// the given type and category. An empty category, or a subscription without
// a category filter, matches any category.
func (s Subscription) InterestedIn(t annvo.AnnouncementType, category string) bool {
	if !slices.Contains(s.Types, t) {
		return false
	}
	if category == "" || len(s.Categories) == 0 {
		return true
	}
	return slices.Contains(s.Categories, category)
}
