package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rewardsboard/eventcast/internal/shared/constants"
)

// AnnouncementModel is the persistence row of an announcement. The engagement
// counters are authoritative and only ever changed with in-place increments.
type AnnouncementModel struct {
	ID               uint           `gorm:"primaryKey"`
	Title            string         `gorm:"size:200;not null"`
	Content          string         `gorm:"type:text;not null"`
	Summary          string         `gorm:"size:500"`
	Type             string         `gorm:"size:32;not null;index"`
	Category         string         `gorm:"size:64;index"`
	Priority         string         `gorm:"size:16;not null"`
	Tags             datatypes.JSON `gorm:"type:json"`
	TargetAudience   datatypes.JSON `gorm:"type:json"`
	IsPublished      bool           `gorm:"not null;index:idx_announcements_schedule,priority:1"`
	IsActive         bool           `gorm:"not null;index:idx_announcements_schedule,priority:2"`
	IsFeatured       bool           `gorm:"not null"`
	ScheduledFor     *time.Time     `gorm:"index:idx_announcements_schedule,priority:3"`
	PublishedAt      *time.Time     `gorm:"index"`
	ExpiresAt        *time.Time
	CreatedBy        string `gorm:"size:64"`
	ViewCount        int64  `gorm:"not null;default:0"`
	LikeCount        int64  `gorm:"not null;default:0"`
	ShareCount       int64  `gorm:"not null;default:0"`
	ClickCount       int64  `gorm:"not null;default:0"`
	AcknowledgeCount int64  `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int            `gorm:"not null;default:1"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (AnnouncementModel) TableName() string {
	return constants.TableAnnouncements
}
