package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rewardsboard/eventcast/internal/shared/constants"
)

// TemplateModel stores an announcement template. Variables and default
// settings are JSON documents.
type TemplateModel struct {
	ID               string         `gorm:"primaryKey;size:20"`
	Name             string         `gorm:"size:100;not null;index"`
	Description      string         `gorm:"size:500"`
	Category         string         `gorm:"size:32;not null;index"`
	AnnouncementType string         `gorm:"size:32;not null"`
	Priority         string         `gorm:"size:16;not null"`
	TitleTemplate    string         `gorm:"size:500;not null"`
	ContentTemplate  string         `gorm:"type:text;not null"`
	SummaryTemplate  string         `gorm:"size:1000"`
	Variables        datatypes.JSON `gorm:"type:json"`
	DefaultSettings  datatypes.JSON `gorm:"type:json"`
	IsActive         bool           `gorm:"not null;index"`
	IsSystem         bool           `gorm:"not null;index"`
	UsageCount       int64          `gorm:"not null;default:0"`
	CreatedBy        string         `gorm:"size:64"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (TemplateModel) TableName() string {
	return constants.TableTemplates
}
