package notification

import (
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
)

// Kind labels why a notification was sent.
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindUrgent       Kind = "urgent"
	KindFeatured     Kind = "featured"
)

// Payload is a dispatch request. A nil TargetAudience falls back to the
// announcement's own target audience.
type Payload struct {
	Kind           Kind
	Announcement   *announcement.Announcement
	Priority       annvo.Priority
	TargetAudience []string
}

// Message is what a channel delivers to one subscriber.
type Message struct {
	Event          string     `json:"event"`
	Kind           Kind       `json:"kind"`
	AnnouncementID uint       `json:"announcement_id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary,omitempty"`
	Type           string     `json:"type"`
	Category       string     `json:"category,omitempty"`
	Priority       string     `json:"priority"`
	IsFeatured     bool       `json:"is_featured"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	SentAt         time.Time  `json:"sent_at"`
}

func newMessage(p Payload, now time.Time) Message {
	a := p.Announcement
	priority := p.Priority
	if priority == "" {
		priority = a.Priority()
	}
	kind := p.Kind
	if kind == "" {
		kind = KindAnnouncement
	}
	return Message{
		Event:          "announcement",
		Kind:           kind,
		AnnouncementID: a.ID(),
		Title:          a.Title(),
		Summary:        a.Summary(),
		Type:           a.Type().String(),
		Category:       a.Category(),
		Priority:       priority.String(),
		IsFeatured:     a.IsFeatured(),
		PublishedAt:    a.PublishedAt(),
		SentAt:         now,
	}
}

// DispatchReport counts the outcome of one Notify call.
type DispatchReport struct {
	Candidates int `json:"candidates"`
	Targeted   int `json:"targeted"`
	Delivered  int `json:"delivered"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}
