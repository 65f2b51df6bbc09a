// Package announcement holds the announcement aggregate. Persistence owns the
// authoritative engagement counters; the content engine only performs the
// scheduled publish transition and reads the rest.
package announcement

import (
	"fmt"
	"time"

	vo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
)

const (
	maxTitleLength   = 200
	maxSummaryLength = 500
	maxContentLength = 20000
)

type Announcement struct {
	id               uint
	title            string
	content          string
	summary          string
	announcementType vo.AnnouncementType
	category         string
	priority         vo.Priority
	tags             []string
	targetAudience   []string
	isPublished      bool
	isActive         bool
	isFeatured       bool
	scheduledFor     *time.Time
	publishedAt      *time.Time
	expiresAt        *time.Time
	createdBy        string
	counters         Counters
	createdAt        time.Time
	updatedAt        time.Time
	version          int
}

// Counters are the authoritative engagement totals kept by persistence.
type Counters struct {
	Views        int64 `json:"views"`
	Likes        int64 `json:"likes"`
	Shares       int64 `json:"shares"`
	Clicks       int64 `json:"clicks"`
	Acknowledges int64 `json:"acknowledges"`
}

// Draft is the creation payload, either submitted directly or produced from a template.
type Draft struct {
	Title          string
	Content        string
	Summary        string
	Type           vo.AnnouncementType
	Category       string
	Priority       vo.Priority
	Tags           []string
	TargetAudience []string
	IsPublished    bool
	IsFeatured     bool
	ScheduledFor   *time.Time
	ExpiresAt      *time.Time
	CreatedBy      string
}

func NewAnnouncement(d Draft, now time.Time) (*Announcement, error) {
	if d.Type == "" {
		d.Type = vo.AnnouncementTypeGeneral
	}
	if d.Priority == "" {
		d.Priority = vo.PriorityNormal
	}
	if err := validateContent(d.Title, d.Content, d.Summary); err != nil {
		return nil, err
	}
	if !d.Type.IsValid() {
		return nil, fmt.Errorf("invalid announcement type: %s", d.Type)
	}
	if !d.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", d.Priority)
	}
	if d.ExpiresAt != nil && d.ScheduledFor != nil && d.ExpiresAt.Before(*d.ScheduledFor) {
		return nil, fmt.Errorf("expires at must be after scheduled for")
	}

	a := &Announcement{
		title:            d.Title,
		content:          d.Content,
		summary:          d.Summary,
		announcementType: d.Type,
		category:         d.Category,
		priority:         d.Priority,
		tags:             copyStrings(d.Tags),
		targetAudience:   copyStrings(d.TargetAudience),
		isActive:         true,
		isFeatured:       d.IsFeatured,
		expiresAt:        d.ExpiresAt,
		createdBy:        d.CreatedBy,
		createdAt:        now,
		updatedAt:        now,
		version:          1,
	}

	// a future schedule wins over an immediate publish request
	switch {
	case d.ScheduledFor != nil && d.ScheduledFor.After(now):
		a.scheduledFor = d.ScheduledFor
	case d.IsPublished:
		a.isPublished = true
		a.publishedAt = &now
	default:
		a.scheduledFor = d.ScheduledFor
	}

	return a, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID             uint
	Title          string
	Content        string
	Summary        string
	Type           vo.AnnouncementType
	Category       string
	Priority       vo.Priority
	Tags           []string
	TargetAudience []string
	IsPublished    bool
	IsActive       bool
	IsFeatured     bool
	ScheduledFor   *time.Time
	PublishedAt    *time.Time
	ExpiresAt      *time.Time
	CreatedBy      string
	Counters       Counters
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int
}

func ReconstructAnnouncement(p ReconstructParams) (*Announcement, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("announcement ID cannot be zero")
	}
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("invalid announcement type: %s", p.Type)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}

	return &Announcement{
		id:               p.ID,
		title:            p.Title,
		content:          p.Content,
		summary:          p.Summary,
		announcementType: p.Type,
		category:         p.Category,
		priority:         p.Priority,
		tags:             p.Tags,
		targetAudience:   p.TargetAudience,
		isPublished:      p.IsPublished,
		isActive:         p.IsActive,
		isFeatured:       p.IsFeatured,
		scheduledFor:     p.ScheduledFor,
		publishedAt:      p.PublishedAt,
		expiresAt:        p.ExpiresAt,
		createdBy:        p.CreatedBy,
		counters:         p.Counters,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
		version:          p.Version,
	}, nil
}

func (a *Announcement) ID() uint                  { return a.id }
func (a *Announcement) Title() string             { return a.title }
func (a *Announcement) Content() string           { return a.content }
func (a *Announcement) Summary() string           { return a.summary }
func (a *Announcement) Type() vo.AnnouncementType { return a.announcementType }
func (a *Announcement) Category() string          { return a.category }
func (a *Announcement) Priority() vo.Priority     { return a.priority }
func (a *Announcement) Tags() []string            { return copyStrings(a.tags) }
func (a *Announcement) TargetAudience() []string  { return copyStrings(a.targetAudience) }
func (a *Announcement) IsPublished() bool         { return a.isPublished }
func (a *Announcement) IsActive() bool            { return a.isActive }
func (a *Announcement) IsFeatured() bool          { return a.isFeatured }
func (a *Announcement) ScheduledFor() *time.Time  { return a.scheduledFor }
func (a *Announcement) PublishedAt() *time.Time   { return a.publishedAt }
func (a *Announcement) ExpiresAt() *time.Time     { return a.expiresAt }
func (a *Announcement) CreatedBy() string         { return a.createdBy }
func (a *Announcement) Counters() Counters        { return a.counters }
func (a *Announcement) CreatedAt() time.Time      { return a.createdAt }
func (a *Announcement) UpdatedAt() time.Time      { return a.updatedAt }

// Version is the optimistic lock counter. Every successful Apply increments
// it and persistence only accepts the write against the previous value.
func (a *Announcement) Version() int { return a.version }

func (a *Announcement) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("announcement ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("announcement ID cannot be zero")
	}
	a.id = id
	return nil
}

// IsDueForPublication mirrors the scheduler's selection predicate.
func (a *Announcement) IsDueForPublication(now time.Time) bool {
	return !a.isPublished && a.isActive && a.scheduledFor != nil && !a.scheduledFor.After(now)
}

// Publish moves the announcement to the published state. It is idempotent:
// publishing an already published announcement leaves it untouched.
func (a *Announcement) Publish(now time.Time) {
	if a.isPublished {
		return
	}
	a.isPublished = true
	a.publishedAt = &now
	a.scheduledFor = nil
	a.updatedAt = now
}

func (a *Announcement) IsExpired(now time.Time) bool {
	return a.expiresAt != nil && now.After(*a.expiresAt)
}

// Patch lists the mutable fields of an update; nil fields are left as they are.
type Patch struct {
	Title          *string
	Content        *string
	Summary        *string
	Type           *vo.AnnouncementType
	Category       *string
	Priority       *vo.Priority
	Tags           []string
	TargetAudience []string
	IsPublished    *bool
	IsActive       *bool
	IsFeatured     *bool
	ScheduledFor   *time.Time
	ExpiresAt      *time.Time
}

// Apply mutates the announcement and reports whether it moved from
// unpublished to published as part of the patch.
func (a *Announcement) Apply(p Patch, now time.Time) (bool, error) {
	title, content, summary := a.title, a.content, a.summary
	if p.Title != nil {
		title = *p.Title
	}
	if p.Content != nil {
		content = *p.Content
	}
	if p.Summary != nil {
		summary = *p.Summary
	}
	if err := validateContent(title, content, summary); err != nil {
		return false, err
	}
	if p.Type != nil && !p.Type.IsValid() {
		return false, fmt.Errorf("invalid announcement type: %s", *p.Type)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return false, fmt.Errorf("invalid priority: %s", *p.Priority)
	}

	a.title, a.content, a.summary = title, content, summary
	if p.Type != nil {
		a.announcementType = *p.Type
	}
	if p.Category != nil {
		a.category = *p.Category
	}
	if p.Priority != nil {
		a.priority = *p.Priority
	}
	if p.Tags != nil {
		a.tags = copyStrings(p.Tags)
	}
	if p.TargetAudience != nil {
		a.targetAudience = copyStrings(p.TargetAudience)
	}
	if p.IsActive != nil {
		a.isActive = *p.IsActive
	}
	if p.IsFeatured != nil {
		a.isFeatured = *p.IsFeatured
	}
	if p.ExpiresAt != nil {
		a.expiresAt = p.ExpiresAt
	}
	if p.ScheduledFor != nil && !a.isPublished {
		a.scheduledFor = p.ScheduledFor
	}
	a.updatedAt = now

	wasPublished := a.isPublished
	if p.IsPublished != nil {
		if *p.IsPublished {
			a.Publish(now)
		} else {
			a.isPublished = false
			a.publishedAt = nil
		}
	}
	a.version++
	return !wasPublished && a.isPublished, nil
}

func validateContent(title, content, summary string) error {
	if len(title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	if len(content) == 0 {
		return fmt.Errorf("content is required")
	}
	if len(content) > maxContentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxContentLength)
	}
	if len(summary) > maxSummaryLength {
		return fmt.Errorf("summary exceeds maximum length of %d characters", maxSummaryLength)
	}
	return nil
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
